package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/handlers"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// toolCall routes a named tool to its handler
type toolCall func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// NewSeedingMCPServer builds the MCP server exposing the seeding tools
func NewSeedingMCPServer(analyzer *analysis.Analyzer, topology *league.Topology, logger *logrus.Logger) *server.DefaultServer {
	seedingHandler := handlers.NewSeedingHandler(analyzer, topology, logger)
	tiebreakHandler := handlers.NewTiebreakHandler(analyzer, logger)

	s := server.NewDefaultServer("NFL Playoff Seeding", "1.0.0")

	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	tools := []mcp.Tool{
		seedingHandler.GetPlayoffSeedsTool(),
		seedingHandler.GetDivisionRankingsTool(),
		seedingHandler.VerifyPlayoffBracketTool(),
		tiebreakHandler.ResolveTiebreakTool(),
		tiebreakHandler.AnalyzeSeasonsTool(),
	}

	routes := map[string]toolCall{
		"get_playoff_seeds":      seedingHandler.HandleGetPlayoffSeeds,
		"get_division_rankings":  seedingHandler.HandleGetDivisionRankings,
		"verify_playoff_bracket": seedingHandler.HandleVerifyPlayoffBracket,
		"resolve_tiebreak":       tiebreakHandler.HandleResolveTiebreak,
		"analyze_seasons":        tiebreakHandler.HandleAnalyzeSeasons,
	}

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		return callTool(ctx, routes, logger, name, arguments)
	})

	logger.Info("All tools registered successfully")
	return s
}

// callTool dispatches a tool call, answering unknown names with an error result
func callTool(ctx context.Context, routes map[string]toolCall, logger *logrus.Logger, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	logger.WithFields(logrus.Fields{
		"tool": name,
		"args": arguments,
	}).Info("Tool called")

	handle, ok := routes[name]
	if !ok {
		logger.WithField("tool", name).Warn("Unknown tool called")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Type: "text",
					Text: "Unknown tool: " + name,
				},
			},
			IsError: true,
		}, nil
	}
	return handle(ctx, arguments)
}
