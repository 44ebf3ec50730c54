package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/bracket"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/seeding"
	"github.com/sirupsen/logrus"
)

// SeedEntry is one line of a conference's seed list
type SeedEntry struct {
	Seed             int     `json:"seed"`
	Team             string  `json:"team"`
	Division         string  `json:"division"`
	Wins             float64 `json:"wins"`
	DivisionChampion bool    `json:"division_champion"`
}

// SeedsResponse is the get_playoff_seeds result
type SeedsResponse struct {
	Season     int         `json:"season"`
	Conference string      `json:"conference"`
	Seeds      []SeedEntry `json:"seeds"`
}

// StandingEntry is a team's place in its division
type StandingEntry struct {
	Rank int     `json:"rank"`
	Team string  `json:"team"`
	Wins float64 `json:"wins"`
}

// DivisionStandings is one division's ranking
type DivisionStandings struct {
	Division string          `json:"division"`
	Teams    []StandingEntry `json:"teams"`
}

// DivisionRankingsResponse is the get_division_rankings result
type DivisionRankingsResponse struct {
	Season    int                 `json:"season"`
	Divisions []DivisionStandings `json:"divisions"`
}

// BracketResponse is the verify_playoff_bracket result
type BracketResponse struct {
	Season     int             `json:"season"`
	Conference string          `json:"conference"`
	Computed   bool            `json:"seeds_computed"`
	OK         bool            `json:"ok"`
	Summary    string          `json:"summary"`
	Report     *bracket.Report `json:"report"`
}

// SeedingHandler handles seeding and standings MCP tools
type SeedingHandler struct {
	analyzer *analysis.Analyzer
	topology *league.Topology
	logger   *logrus.Logger
}

// NewSeedingHandler creates a new seeding handler
func NewSeedingHandler(analyzer *analysis.Analyzer, topology *league.Topology, logger *logrus.Logger) *SeedingHandler {
	return &SeedingHandler{
		analyzer: analyzer,
		topology: topology,
		logger:   logger,
	}
}

// GetPlayoffSeedsTool returns the MCP tool definition for get_playoff_seeds
func (h *SeedingHandler) GetPlayoffSeedsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_playoff_seeds",
		Description: "Compute a conference's playoff seeds for a season from game results, applying the official division and wild card tiebreakers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2021",
					"required":    true,
				},
				"conference": map[string]interface{}{
					"type":        "string",
					"description": "AFC or NFC",
					"required":    true,
				},
			},
		},
	}
}

// GetDivisionRankingsTool returns the MCP tool definition for get_division_rankings
func (h *SeedingHandler) GetDivisionRankingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_division_rankings",
		Description: "Rank every division of a season best to worst using the division tiebreakers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2021",
					"required":    true,
				},
			},
		},
	}
}

// VerifyPlayoffBracketTool returns the MCP tool definition for verify_playoff_bracket
func (h *SeedingHandler) VerifyPlayoffBracketTool() mcp.Tool {
	return mcp.Tool{
		Name:        "verify_playoff_bracket",
		Description: "Check a conference's seeds against the recorded wild card and divisional round games. Uses the computed seeds unless a seed list is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2021",
					"required":    true,
				},
				"conference": map[string]interface{}{
					"type":        "string",
					"description": "AFC or NFC",
					"required":    true,
				},
				"seeds": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional seed list, best seed first (team codes or franchise names)",
				},
			},
		},
	}
}

func (h *SeedingHandler) seeder(ctx context.Context, year int) (*seeding.Seeder, *league.Season, *mcp.CallToolResult) {
	seeder, season, err := h.analyzer.Seeder(ctx, year)
	if err != nil {
		h.logger.WithError(err).WithField("season", year).Error("Failed to load season")
		return nil, nil, errorResult("loading season %d: %v", year, err)
	}
	return seeder, season, nil
}

// HandleGetPlayoffSeeds handles the get_playoff_seeds tool execution
func (h *SeedingHandler) HandleGetPlayoffSeeds(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	year, err := seasonArg(args)
	if err != nil {
		return errorResult("%v", err), nil
	}
	conf, err := conferenceArg(args, h.topology)
	if err != nil {
		return errorResult("%v", err), nil
	}

	h.logger.WithFields(logrus.Fields{
		"season":     year,
		"conference": conf,
	}).Info("Computing playoff seeds")

	seeder, season, failed := h.seeder(ctx, year)
	if failed != nil {
		return failed, nil
	}

	seeds, err := seeder.Seeds(conf, year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute seeds")
		return errorResult("computing %s seeds for %d: %v", conf, year, err), nil
	}

	response := SeedsResponse{Season: year, Conference: conf}
	for i, team := range seeds {
		div, err := h.topology.DivisionOf(team)
		if err != nil {
			return errorResult("%v", err), nil
		}
		wins, err := league.SeasonRecord(season.Schedule, team)
		if err != nil {
			return errorResult("%v", err), nil
		}
		response.Seeds = append(response.Seeds, SeedEntry{
			Seed:             i + 1,
			Team:             team,
			Division:         div,
			Wins:             wins,
			DivisionChampion: i < league.DivisionsPerConference,
		})
	}

	return jsonResult(response), nil
}

// HandleGetDivisionRankings handles the get_division_rankings tool execution
func (h *SeedingHandler) HandleGetDivisionRankings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	year, err := seasonArg(args)
	if err != nil {
		return errorResult("%v", err), nil
	}

	h.logger.WithField("season", year).Info("Ranking divisions")

	seeder, season, failed := h.seeder(ctx, year)
	if failed != nil {
		return failed, nil
	}

	response := DivisionRankingsResponse{Season: year}
	for _, div := range h.topology.Divisions() {
		order, err := seeder.DivisionRanking(div.Code)
		if err != nil {
			h.logger.WithError(err).WithField("division", div.Code).Error("Failed to rank division")
			return errorResult("%v", err), nil
		}
		standings := DivisionStandings{Division: div.Code}
		for i, team := range order {
			wins, err := league.SeasonRecord(season.Schedule, team)
			if err != nil {
				return errorResult("%v", err), nil
			}
			standings.Teams = append(standings.Teams, StandingEntry{Rank: i + 1, Team: team, Wins: wins})
		}
		response.Divisions = append(response.Divisions, standings)
	}

	return jsonResult(response), nil
}

// HandleVerifyPlayoffBracket handles the verify_playoff_bracket tool execution
func (h *SeedingHandler) HandleVerifyPlayoffBracket(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	year, err := seasonArg(args)
	if err != nil {
		return errorResult("%v", err), nil
	}
	conf, err := conferenceArg(args, h.topology)
	if err != nil {
		return errorResult("%v", err), nil
	}
	seeds, err := teamListArg(args, "seeds")
	if err != nil {
		return errorResult("seeds: %v", err), nil
	}

	seeder, season, failed := h.seeder(ctx, year)
	if failed != nil {
		return failed, nil
	}

	computed := len(seeds) == 0
	if computed {
		if seeds, err = seeder.Seeds(conf, year); err != nil {
			return errorResult("computing %s seeds for %d: %v", conf, year, err), nil
		}
	} else if want := league.PlayoffSeeds(year); len(seeds) != want {
		return errorResult("season %d has %d seeds per conference, got %d", year, want, len(seeds)), nil
	}

	report, err := bracket.Verify(season.Playoffs, seeds)
	if err != nil {
		return errorResult("%v", err), nil
	}

	h.logger.WithFields(logrus.Fields{
		"season":     year,
		"conference": conf,
		"ok":         report.OK(),
	}).Info("Verified playoff bracket")

	return jsonResult(BracketResponse{
		Season:     year,
		Conference: conf,
		Computed:   computed,
		OK:         report.OK(),
		Summary:    report.Summary(),
		Report:     report,
	}), nil
}
