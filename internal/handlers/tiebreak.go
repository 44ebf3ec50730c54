package handlers

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/tiebreak"
	"github.com/sirupsen/logrus"
)

// maxAnalyzedSeasons caps a single analyze_seasons call
const maxAnalyzedSeasons = 30

// SeasonSummary is the compact per-season line of analyze_seasons
type SeasonSummary struct {
	Season      int                       `json:"season"`
	Seeds       map[string][]string       `json:"seeds"`
	BracketOK   bool                      `json:"bracket_ok"`
	Mismatches  []analysis.SeasonMismatch `json:"mismatches,omitempty"`
	RankedGames string                    `json:"ranked_games_error,omitempty"`
}

// AnalyzeSeasonsResponse is the analyze_seasons result
type AnalyzeSeasonsResponse struct {
	Seasons  []SeasonSummary          `json:"seasons"`
	Failures []analysis.SeasonFailure `json:"failures,omitempty"`
}

// TiebreakHandler handles tiebreak and multi-season MCP tools
type TiebreakHandler struct {
	analyzer *analysis.Analyzer
	logger   *logrus.Logger
}

// NewTiebreakHandler creates a new tiebreak handler
func NewTiebreakHandler(analyzer *analysis.Analyzer, logger *logrus.Logger) *TiebreakHandler {
	return &TiebreakHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// ResolveTiebreakTool returns the MCP tool definition for resolve_tiebreak
func (h *TiebreakHandler) ResolveTiebreakTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_tiebreak",
		Description: "Break a tie between two to four teams of a season with the division or wild card procedure and return every step applied",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2021",
					"required":    true,
				},
				"teams": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Tied teams (team codes or franchise names)",
					"required":    true,
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "division or wildcard",
					"enum":        []string{string(tiebreak.ScopeDivision), string(tiebreak.ScopeWildCard)},
					"required":    true,
				},
			},
		},
	}
}

// AnalyzeSeasonsTool returns the MCP tool definition for analyze_seasons
func (h *TiebreakHandler) AnalyzeSeasonsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_seasons",
		Description: "Seed several seasons and check each against its recorded playoffs, listing every bracket mismatch",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"seasons": map[string]interface{}{
					"type":        "string",
					"description": "Season list such as \"2002-2010,2015\"",
					"required":    true,
				},
			},
		},
	}
}

// HandleResolveTiebreak handles the resolve_tiebreak tool execution
func (h *TiebreakHandler) HandleResolveTiebreak(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	year, err := seasonArg(args)
	if err != nil {
		return errorResult("%v", err), nil
	}
	teams, err := teamListArg(args, "teams")
	if err != nil {
		return errorResult("teams: %v", err), nil
	}
	if len(teams) == 0 {
		return errorResult("teams is required"), nil
	}
	rawScope, ok := args["scope"].(string)
	if !ok {
		return errorResult("scope is required and must be a string"), nil
	}
	scope, err := tiebreak.ParseScope(rawScope)
	if err != nil {
		return errorResult("%v", err), nil
	}

	h.logger.WithFields(logrus.Fields{
		"season": year,
		"teams":  teams,
		"scope":  scope,
	}).Info("Resolving tiebreak")

	seeder, _, err := h.analyzer.Seeder(ctx, year)
	if err != nil {
		h.logger.WithError(err).WithField("season", year).Error("Failed to load season")
		return errorResult("loading season %d: %v", year, err), nil
	}

	resolution, err := seeder.Engine().Explain(teams, scope)
	if err != nil {
		var unsupported *tiebreak.UnsupportedStepError
		if errors.As(err, &unsupported) {
			h.logger.WithField("step", unsupported.Step.String()).Warn("Tie needs data the schedule does not carry")
			return errorResult("%v; the tie cannot be settled from game results", err), nil
		}
		h.logger.WithError(err).Error("Failed to resolve tiebreak")
		return errorResult("%v", err), nil
	}

	return jsonResult(resolution), nil
}

// HandleAnalyzeSeasons handles the analyze_seasons tool execution
func (h *TiebreakHandler) HandleAnalyzeSeasons(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	raw, ok := args["seasons"].(string)
	if !ok || raw == "" {
		return errorResult("seasons is required and must be a string"), nil
	}
	years, err := analysis.ParseSeasons(raw)
	if err != nil {
		return errorResult("%v", err), nil
	}
	if len(years) > maxAnalyzedSeasons {
		return errorResult("at most %d seasons per call, got %d", maxAnalyzedSeasons, len(years)), nil
	}

	h.logger.WithField("seasons", years).Info("Analyzing seasons")

	batch, err := h.analyzer.AnalyzeSeasons(ctx, years)
	if err != nil {
		h.logger.WithError(err).Error("Season analysis aborted")
		return errorResult("%v", err), nil
	}

	response := AnalyzeSeasonsResponse{Failures: batch.Failures}
	for _, report := range batch.Seasons {
		summary := SeasonSummary{
			Season:      report.Season,
			Seeds:       make(map[string][]string),
			Mismatches:  report.Mismatches(),
			RankedGames: report.RankedGamesError,
		}
		summary.BracketOK = len(summary.Mismatches) == 0
		for _, conf := range report.Conferences {
			summary.Seeds[conf.Conference] = conf.Seeds
		}
		response.Seasons = append(response.Seasons, summary)
	}

	return jsonResult(response), nil
}
