package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/app"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/config"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/mcp"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	settings, err := config.LoadSettings()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load settings")
	}

	logger, err := app.NewLogger(settings.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create logger")
	}
	// stdout carries the MCP protocol
	logger.SetOutput(os.Stderr)

	topology := league.NFL()
	analyzer := app.NewAnalyzer(settings, topology, logger)

	mcpServer := mcp.NewSeedingMCPServer(analyzer, topology, logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting NFL Seeding MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
		os.Exit(1)
	}
}
