package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/bracket"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no seeds are stored for a season and conference
var ErrNotFound = errors.New("no stored seeds")

// Store persists season analysis results in Postgres.
type Store struct {
	DB     *sql.DB
	logger *logrus.Logger
}

// New opens a Postgres connection and verifies it
func New(ctx context.Context, connStr string, logger *logrus.Logger) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger.Info("Connected to results database")
	return &Store{DB: db, logger: logger}, nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.DB.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conference_seeds (
		season      INT     NOT NULL,
		conference  TEXT    NOT NULL,
		seeds       TEXT[]  NOT NULL,
		bracket_ok  BOOLEAN NOT NULL,
		summary     TEXT    NOT NULL DEFAULT '',
		analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (season, conference)
	);`,
	`CREATE TABLE IF NOT EXISTS bracket_mismatches (
		id         SERIAL PRIMARY KEY,
		season     INT   NOT NULL,
		conference TEXT  NOT NULL,
		round      TEXT  NOT NULL,
		home       TEXT  NOT NULL,
		away       TEXT  NOT NULL,
		reason     TEXT  NOT NULL,
		detail     JSONB NOT NULL,
		FOREIGN KEY (season, conference) REFERENCES conference_seeds (season, conference) ON DELETE CASCADE
	);`,
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, q := range migrations {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

const (
	upsertSeeds = `
	INSERT INTO conference_seeds (season, conference, seeds, bracket_ok, summary, analyzed_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (season, conference)
	DO UPDATE SET seeds = EXCLUDED.seeds, bracket_ok = EXCLUDED.bracket_ok,
		summary = EXCLUDED.summary, analyzed_at = EXCLUDED.analyzed_at`
	clearMismatches = `DELETE FROM bracket_mismatches WHERE season = $1 AND conference = $2`
	insertMismatch  = `
	INSERT INTO bracket_mismatches (season, conference, round, home, away, reason, detail)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectSeeds      = `SELECT seeds FROM conference_seeds WHERE season = $1 AND conference = $2`
	selectMismatches = `SELECT season, conference, detail FROM bracket_mismatches ORDER BY season, conference, id`
)

// SaveReport replaces everything stored for the report's season in one transaction
func (s *Store) SaveReport(ctx context.Context, report *analysis.SeasonReport) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, conf := range report.Conferences {
		var summary string
		bracketOK := true
		var mismatches []bracket.Mismatch
		if conf.Bracket != nil {
			summary = conf.Bracket.Summary()
			bracketOK = conf.Bracket.OK()
			mismatches = conf.Bracket.Mismatches
		}

		if _, err := tx.ExecContext(ctx, upsertSeeds, report.Season, conf.Conference, pq.Array(conf.Seeds), bracketOK, summary); err != nil {
			return fmt.Errorf("saving %d %s seeds: %w", report.Season, conf.Conference, err)
		}
		if _, err := tx.ExecContext(ctx, clearMismatches, report.Season, conf.Conference); err != nil {
			return fmt.Errorf("clearing %d %s mismatches: %w", report.Season, conf.Conference, err)
		}
		for _, m := range mismatches {
			detail, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encoding mismatch: %w", err)
			}
			if _, err := tx.ExecContext(ctx, insertMismatch, report.Season, conf.Conference,
				string(m.Expected.Round), m.Expected.Home, m.Expected.Away, m.Reason, detail); err != nil {
				return fmt.Errorf("saving %d %s mismatch: %w", report.Season, conf.Conference, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing season %d: %w", report.Season, err)
	}
	s.logger.WithField("season", report.Season).Debug("Saved season report")
	return nil
}

// LoadSeeds returns the stored seed list of a season and conference
func (s *Store) LoadSeeds(ctx context.Context, season int, conference string) ([]string, error) {
	var seeds []string
	err := s.DB.QueryRowContext(ctx, selectSeeds, season, conference).Scan(pq.Array(&seeds))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("season %d %s: %w", season, conference, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading seeds: %w", err)
	}
	return seeds, nil
}

// ListMismatches returns every stored bracket mismatch ordered by season
func (s *Store) ListMismatches(ctx context.Context) ([]analysis.SeasonMismatch, error) {
	rows, err := s.DB.QueryContext(ctx, selectMismatches)
	if err != nil {
		return nil, fmt.Errorf("listing mismatches: %w", err)
	}
	defer rows.Close()

	var out []analysis.SeasonMismatch
	for rows.Next() {
		var (
			m      analysis.SeasonMismatch
			detail []byte
		)
		if err := rows.Scan(&m.Season, &m.Conference, &detail); err != nil {
			return nil, fmt.Errorf("scanning mismatch: %w", err)
		}
		if err := json.Unmarshal(detail, &m.Mismatch); err != nil {
			return nil, fmt.Errorf("decoding mismatch: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
