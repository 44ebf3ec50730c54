package schedules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// nameMatchThreshold is the minimum similarity for a fuzzy franchise match
const nameMatchThreshold = 0.8

// Franchises that moved or were renamed map to their current code
var franchiseCodes = map[string]string{
	"Arizona Cardinals":        "AZ",
	"Atlanta Falcons":          "ATL",
	"Baltimore Ravens":         "BAL",
	"Buffalo Bills":            "BUF",
	"Carolina Panthers":        "CAR",
	"Chicago Bears":            "CHI",
	"Cincinnati Bengals":       "CIN",
	"Cleveland Browns":         "CLE",
	"Dallas Cowboys":           "DAL",
	"Denver Broncos":           "DEN",
	"Detroit Lions":            "DET",
	"Green Bay Packers":        "GB",
	"Houston Texans":           "HOU",
	"Indianapolis Colts":       "IND",
	"Jacksonville Jaguars":     "JAC",
	"Kansas City Chiefs":       "KC",
	"Las Vegas Raiders":        "LV",
	"Oakland Raiders":          "LV",
	"Los Angeles Chargers":     "LAC",
	"San Diego Chargers":       "LAC",
	"Los Angeles Rams":         "LAR",
	"St. Louis Rams":           "LAR",
	"Miami Dolphins":           "MIA",
	"Minnesota Vikings":        "MIN",
	"New England Patriots":     "NE",
	"New Orleans Saints":       "NO",
	"New York Giants":          "NYG",
	"New York Jets":            "NYJ",
	"Philadelphia Eagles":      "PHI",
	"Pittsburgh Steelers":      "PIT",
	"San Francisco 49ers":      "SF",
	"Seattle Seahawks":         "SEA",
	"Tampa Bay Buccaneers":     "TB",
	"Tennessee Titans":         "TEN",
	"Washington Commanders":    "WAS",
	"Washington Football Team": "WAS",
	"Washington Redskins":      "WAS",
}

var (
	franchiseNames []string
	teamCodes      = make(map[string]bool)
)

func init() {
	for name, code := range franchiseCodes {
		franchiseNames = append(franchiseNames, name)
		teamCodes[code] = true
	}
	sort.Strings(franchiseNames)
}

// TeamCode resolves a franchise name or team code to the current team
// code. Names that are not in the table are matched to the closest known
// franchise by edit distance.
func TeamCode(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if code, ok := franchiseCodes[trimmed]; ok {
		return code, nil
	}
	if upper := strings.ToUpper(trimmed); teamCodes[upper] {
		return upper, nil
	}

	lower := strings.ToLower(trimmed)
	best, bestScore := "", 0.0
	for _, candidate := range franchiseNames {
		target := strings.ToLower(candidate)
		distance := fuzzy.LevenshteinDistance(lower, target)
		maxLen := float64(max(len(lower), len(target)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			best, bestScore = candidate, similarity
		}
	}

	if best == "" || bestScore < nameMatchThreshold {
		return "", &SourceError{
			Type:    "unknown_franchise",
			Message: "no franchise matches " + strconv.Quote(trimmed),
		}
	}
	return franchiseCodes[best], nil
}
