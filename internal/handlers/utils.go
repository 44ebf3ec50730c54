package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/schedules"
)

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	result := textResult("Error: " + fmt.Sprintf(format, args...))
	result.IsError = true
	return result
}

// jsonResult renders the response, or an error result if it cannot be encoded
func jsonResult(response interface{}) *mcp.CallToolResult {
	text, err := formatJSONResponse(response)
	if err != nil {
		return errorResult("%v", err)
	}
	return textResult(text)
}

// seasonArg reads an integer season. JSON numbers arrive as float64.
func seasonArg(args map[string]interface{}) (int, error) {
	switch v := args["season"].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("season must be a whole number")
		}
		return int(v), nil
	case string:
		years, err := analysis.ParseSeasons(v)
		if err != nil || len(years) != 1 {
			return 0, fmt.Errorf("season must be a single year")
		}
		return years[0], nil
	default:
		return 0, fmt.Errorf("season is required and must be an integer")
	}
}

func conferenceArg(args map[string]interface{}, topology *league.Topology) (string, error) {
	conf, ok := args["conference"].(string)
	if !ok || conf == "" {
		return "", fmt.Errorf("conference is required and must be a string")
	}
	conf = strings.ToUpper(strings.TrimSpace(conf))
	if !topology.HasConference(conf) {
		return "", fmt.Errorf("unknown conference %q (expected one of %s)", conf, strings.Join(topology.Conferences(), ", "))
	}
	return conf, nil
}

// teamListArg reads a list of teams given as a JSON array or a comma
// separated string. Franchise names are resolved to team codes.
func teamListArg(args map[string]interface{}, key string) ([]string, error) {
	var raw []string
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case string:
		items, err := analysis.SplitList(v)
		if err != nil {
			return nil, err
		}
		raw = items
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must contain strings", key)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%s must be a list of teams", key)
	}

	teams := make([]string, 0, len(raw))
	for _, name := range raw {
		code, err := schedules.TeamCode(name)
		if err != nil {
			return nil, err
		}
		teams = append(teams, code)
	}
	return teams, nil
}
