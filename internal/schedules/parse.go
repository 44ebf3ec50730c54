package schedules

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

const (
	columnWeek   = "Week"
	columnWinner = "Winner/tie"
	columnLoser  = "Loser/tie"
	columnPtsW   = "PtsW"
	columnPtsL   = "PtsL"
)

var requiredColumns = []string{columnWeek, columnWinner, columnLoser, columnPtsW, columnPtsL}

// Parse reads a season CSV export. Each row is one game; the column
// between Winner/tie and Loser/tie holds "@" when the loser was the host,
// and is empty or "N" (neutral site) when the winner is listed as host.
// Repeated header rows and the "Playoffs" divider row are skipped.
func Parse(r io.Reader, topology *league.Topology, year int) (*league.Season, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, parseError(year, "failed to read header: %v", err)
	}
	columns, err := headerIndexes(header)
	if err != nil {
		return nil, parseError(year, "%v", err)
	}

	regularWeeks := league.RegularSeasonWeeks(year)
	var regular, playoffs []league.Game

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, parseError(year, "line %d: %v", line, err)
		}
		if skipRow(row) {
			continue
		}

		game, err := parseRow(row, columns)
		if err != nil {
			return nil, parseError(year, "line %d: %v", line, err)
		}

		if week, ok := game.WeekNumber(); ok {
			if week < 1 || week > regularWeeks {
				return nil, parseError(year, "line %d: week %d outside the %d-week regular season", line, week, regularWeeks)
			}
			regular = append(regular, game)
			continue
		}
		if game.Round() == "" {
			return nil, parseError(year, "line %d: unknown week %q", line, game.Week)
		}
		playoffs = append(playoffs, game)
	}

	return league.NewSeason(topology, year, regular, playoffs)
}

func headerIndexes(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for _, column := range requiredColumns {
		for idx, name := range header {
			if strings.TrimSpace(name) == column {
				columns[column] = idx
				break
			}
		}
		if _, ok := columns[column]; !ok {
			return nil, fmt.Errorf("missing %q column", column)
		}
	}
	if columns[columnWinner]+2 != columns[columnLoser] {
		return nil, fmt.Errorf("expected one host marker column between %q and %q", columnWinner, columnLoser)
	}
	return columns, nil
}

func skipRow(row []string) bool {
	if len(row) == 0 {
		return true
	}
	first := strings.TrimSpace(row[0])
	return first == "" || first == columnWeek || first == "Playoffs"
}

func parseRow(row []string, columns map[string]int) (league.Game, error) {
	field := func(column string) (string, error) {
		idx := columns[column]
		if idx >= len(row) {
			return "", fmt.Errorf("row has no %q value", column)
		}
		return strings.TrimSpace(row[idx]), nil
	}

	var game league.Game
	var err error
	if game.Week, err = field(columnWeek); err != nil {
		return game, err
	}

	winnerName, err := field(columnWinner)
	if err != nil {
		return game, err
	}
	loserName, err := field(columnLoser)
	if err != nil {
		return game, err
	}
	if game.Winner, err = TeamCode(winnerName); err != nil {
		return game, err
	}
	if game.Loser, err = TeamCode(loserName); err != nil {
		return game, err
	}

	switch marker := strings.TrimSpace(row[columns[columnWinner]+1]); marker {
	case "", "N":
		game.Home = game.Winner
	case "@":
		game.Home = game.Loser
	default:
		return game, fmt.Errorf("unexpected host marker %q", marker)
	}

	for _, p := range []struct {
		column string
		dst    *int
	}{
		{columnPtsW, &game.PtsW},
		{columnPtsL, &game.PtsL},
	} {
		raw, err := field(p.column)
		if err != nil {
			return game, err
		}
		if *p.dst, err = strconv.Atoi(raw); err != nil {
			return game, fmt.Errorf("bad %s value %q", p.column, raw)
		}
	}

	return game, nil
}

func parseError(year int, format string, args ...interface{}) error {
	return &SourceError{
		Type:    "parse_error",
		Message: fmt.Sprintf(format, args...),
		Season:  year,
	}
}
