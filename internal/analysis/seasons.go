package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/rotation"
)

// maxSeasonSpan bounds a single range so a typo cannot queue centuries
const maxSeasonSpan = 100

var listSplitter splitter.Splitter

func init() {
	var err error
	listSplitter, err = splitter.NewSplitter(',', splitter.DoubleQuotes)
	if err != nil {
		panic(err)
	}
}

// SplitList splits a comma separated argument. Items may be double quoted
// to keep commas; surrounding blanks and quotes are removed.
func SplitList(s string) ([]string, error) {
	parts, err := listSplitter.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", s, err)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// ParseSeasons reads a season list such as "2002-2010,2015,2019-2021".
// The result is sorted and free of duplicates.
func ParseSeasons(s string) ([]int, error) {
	items, err := SplitList(s)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no seasons given")
	}

	seen := make(map[int]bool)
	for _, item := range items {
		first, last, err := parseSeasonRange(item)
		if err != nil {
			return nil, err
		}
		for year := first; year <= last; year++ {
			seen[year] = true
		}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func parseSeasonRange(item string) (int, int, error) {
	from, to, isRange := strings.Cut(item, "-")
	first, err := parseSeason(from)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return first, first, nil
	}
	last, err := parseSeason(to)
	if err != nil {
		return 0, 0, err
	}
	if last < first {
		return 0, 0, fmt.Errorf("season range %q runs backwards", item)
	}
	if last-first >= maxSeasonSpan {
		return 0, 0, fmt.Errorf("season range %q spans more than %d seasons", item, maxSeasonSpan)
	}
	return first, last, nil
}

func parseSeason(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid season %q", s)
	}
	if year < rotation.FirstRotationSeason {
		return 0, fmt.Errorf("season %d predates the %d realignment", year, rotation.FirstRotationSeason)
	}
	return year, nil
}
