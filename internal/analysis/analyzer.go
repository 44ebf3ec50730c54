package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/bracket"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/rotation"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/schedules"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/seeding"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ConferenceReport holds one conference's computed seeds and how they
// compare with the recorded playoffs
type ConferenceReport struct {
	Conference string          `json:"conference"`
	Seeds      []string        `json:"seeds"`
	Bracket    *bracket.Report `json:"bracket"`

	// Seeds recomputed without scheduled-by-finish games. Empty when the
	// diagnostic was skipped.
	SeedsWithoutExtraGame       []string `json:"seeds_without_extra_game,omitempty"`
	SeedsWithoutRankedOpponents []string `json:"seeds_without_ranked_opponents,omitempty"`
	CounterfactualErrors        []string `json:"counterfactual_errors,omitempty"`
}

// SeasonReport is the analysis of a single season
type SeasonReport struct {
	Season           int                 `json:"season"`
	Games            int                 `json:"games"`
	DivisionRankings map[string][]string `json:"division_rankings"`
	Conferences      []ConferenceReport  `json:"conferences"`
	RankedGamesError string              `json:"ranked_games_error,omitempty"`
}

// Conference returns the report of a conference, nil when absent
func (r *SeasonReport) Conference(conference string) *ConferenceReport {
	for i := range r.Conferences {
		if r.Conferences[i].Conference == conference {
			return &r.Conferences[i]
		}
	}
	return nil
}

// SeasonMismatch ties a bracket mismatch to its season and conference
type SeasonMismatch struct {
	Season     int              `json:"season"`
	Conference string           `json:"conference"`
	Mismatch   bracket.Mismatch `json:"mismatch"`
}

// Mismatches lists every bracket disagreement of the season
func (r *SeasonReport) Mismatches() []SeasonMismatch {
	var out []SeasonMismatch
	for _, conf := range r.Conferences {
		if conf.Bracket == nil {
			continue
		}
		for _, m := range conf.Bracket.Mismatches {
			out = append(out, SeasonMismatch{Season: r.Season, Conference: conf.Conference, Mismatch: m})
		}
	}
	return out
}

// SeasonFailure records a season that could not be analyzed
type SeasonFailure struct {
	Season int    `json:"season"`
	Error  string `json:"error"`
}

// BatchReport collects the reports of a multi-season run
type BatchReport struct {
	Seasons  []*SeasonReport `json:"seasons"`
	Failures []SeasonFailure `json:"failures,omitempty"`
}

// Mismatches aggregates the bracket mismatches of every season
func (b *BatchReport) Mismatches() []SeasonMismatch {
	var out []SeasonMismatch
	for _, r := range b.Seasons {
		out = append(out, r.Mismatches()...)
	}
	return out
}

// Options tune an Analyzer
type Options struct {
	// Parallelism is the number of seasons analyzed at once
	Parallelism int
	// Counterfactuals enables the recomputation of seeds without
	// scheduled-by-finish games
	Counterfactuals bool
}

// Analyzer computes seeds, standings and bracket checks for seasons loaded
// from a source
type Analyzer struct {
	source   schedules.Source
	topology *league.Topology
	logger   *logrus.Logger
	options  Options
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(source schedules.Source, topology *league.Topology, logger *logrus.Logger, options Options) *Analyzer {
	if options.Parallelism < 1 {
		options.Parallelism = 1
	}
	return &Analyzer{
		source:   source,
		topology: topology,
		logger:   logger,
		options:  options,
	}
}

// Seeder loads a season and returns a seeder over it
func (a *Analyzer) Seeder(ctx context.Context, year int) (*seeding.Seeder, *league.Season, error) {
	season, err := a.source.Season(ctx, year)
	if err != nil {
		return nil, nil, err
	}
	return seeding.NewSeeder(a.topology, season.Schedule, a.logger), season, nil
}

// AnalyzeSeason seeds both conferences of a season, ranks every division
// and checks the seeds against the recorded playoffs
func (a *Analyzer) AnalyzeSeason(ctx context.Context, year int) (*SeasonReport, error) {
	seeder, season, err := a.Seeder(ctx, year)
	if err != nil {
		return nil, err
	}

	rankings, err := seeder.RankDivisions()
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}

	report := &SeasonReport{
		Season:           year,
		Games:            countGames(season.Schedule),
		DivisionRankings: rankings,
	}

	for _, conf := range a.topology.Conferences() {
		seeds, err := seeder.Seeds(conf, year)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}
		check, err := bracket.Verify(season.Playoffs, seeds)
		if err != nil {
			return nil, fmt.Errorf("season %d %s bracket: %w", year, conf, err)
		}
		if !check.OK() {
			a.logger.WithFields(logrus.Fields{
				"season":     year,
				"conference": conf,
				"mismatches": check.Summary(),
			}).Warn("Seeds disagree with recorded playoffs")
		}
		report.Conferences = append(report.Conferences, ConferenceReport{
			Conference: conf,
			Seeds:      seeds,
			Bracket:    check,
		})
	}

	if a.options.Counterfactuals {
		a.counterfactuals(ctx, season, report)
	}

	return report, nil
}

// counterfactuals recomputes seeds with the games scheduled by the previous
// season's finish removed. Failures are recorded on the report and never
// fail the season.
func (a *Analyzer) counterfactuals(ctx context.Context, season *league.Season, report *SeasonReport) {
	year := season.Year
	if year <= rotation.FirstRotationSeason {
		return
	}

	logger := a.logger.WithField("season", year)
	recordAll := func(err error) {
		logger.WithError(err).Warn("Skipping counterfactual seeding")
		for i := range report.Conferences {
			report.Conferences[i].CounterfactualErrors = append(report.Conferences[i].CounterfactualErrors, err.Error())
		}
	}

	prevSeeder, _, err := a.Seeder(ctx, year-1)
	if err != nil {
		recordAll(fmt.Errorf("previous season: %w", err))
		return
	}
	prevRankings, err := prevSeeder.RankDivisions()
	if err != nil {
		recordAll(fmt.Errorf("previous season rankings: %w", err))
		return
	}

	if err := rotation.VerifyRankedGames(a.topology, season.Schedule, year, prevRankings); err != nil {
		logger.WithError(err).Warn("Place-ranked games missing from schedule")
		report.RankedGamesError = err.Error()
	}

	var withoutExtra league.Schedule
	if year >= league.SeventeenGameSeason {
		if withoutExtra, err = rotation.WithoutExtraGame(a.topology, season.Schedule, year, prevRankings); err != nil {
			recordAll(fmt.Errorf("removing 17th game: %w", err))
			withoutExtra = nil
		}
	}
	withoutRanked, err := rotation.WithoutRankedOpponents(a.topology, season.Schedule, year, prevRankings)
	if err != nil {
		recordAll(fmt.Errorf("removing place-ranked games: %w", err))
		withoutRanked = nil
	}

	seedsOf := func(schedule league.Schedule, conf string) ([]string, error) {
		return seeding.NewSeeder(a.topology, schedule, a.logger).Seeds(conf, year)
	}

	for i := range report.Conferences {
		conf := &report.Conferences[i]
		if withoutExtra != nil {
			seeds, err := seedsOf(withoutExtra, conf.Conference)
			if err != nil {
				conf.CounterfactualErrors = append(conf.CounterfactualErrors, fmt.Sprintf("without 17th game: %v", err))
			} else {
				conf.SeedsWithoutExtraGame = seeds
			}
		}
		if withoutRanked != nil {
			seeds, err := seedsOf(withoutRanked, conf.Conference)
			if err != nil {
				conf.CounterfactualErrors = append(conf.CounterfactualErrors, fmt.Sprintf("without place-ranked games: %v", err))
			} else {
				conf.SeedsWithoutRankedOpponents = seeds
			}
		}
	}
}

// AnalyzeSeasons analyzes seasons in parallel. A season that fails is
// recorded in the batch report and does not stop the others; only context
// cancellation aborts the run.
func (a *Analyzer) AnalyzeSeasons(ctx context.Context, years []int) (*BatchReport, error) {
	reports := make([]*SeasonReport, len(years))
	failures := make([]*SeasonFailure, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.options.Parallelism)

	var mu sync.Mutex
	done := 0
	for i, year := range years {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := a.AnalyzeSeason(gctx, year)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				a.logger.WithError(err).WithField("season", year).Error("Season analysis failed")
				failures[i] = &SeasonFailure{Season: year, Error: err.Error()}
				return nil
			}
			reports[i] = report

			mu.Lock()
			done++
			a.logger.WithFields(logrus.Fields{
				"season":   year,
				"progress": fmt.Sprintf("%d/%d", done, len(years)),
			}).Info("Season analyzed")
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchReport{}
	for i := range years {
		if reports[i] != nil {
			batch.Seasons = append(batch.Seasons, reports[i])
		}
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, *failures[i])
		}
	}
	return batch, nil
}

func countGames(schedule league.Schedule) int {
	total := 0
	for _, games := range schedule {
		total += len(games)
	}
	return total / 2
}
