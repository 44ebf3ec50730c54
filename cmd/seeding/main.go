package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/app"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/config"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/httpapi"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("Error running seeding analysis")
		os.Exit(1)
	}
}

func run() error {
	seasonsPtr := flag.String("seasons", "", "Season list, e.g. 2002-2010,2015 (defaults to analysis.seasons)")
	storePtr := flag.Bool("store", false, "Save reports to the database at DATABASE_URL")
	servePtr := flag.Bool("serve", false, "Serve the REST API after the batch run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("No .env file loaded")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(settings.LogLevel)
	if err != nil {
		return err
	}

	seasonList := settings.Analysis.Seasons
	if *seasonsPtr != "" {
		seasonList = *seasonsPtr
	}
	years, err := analysis.ParseSeasons(seasonList)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topology := league.NFL()
	analyzer := app.NewAnalyzer(settings, topology, logger)

	batch, err := analyzer.AnalyzeSeasons(ctx, years)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"seasons":    len(batch.Seasons),
		"failures":   len(batch.Failures),
		"mismatches": len(batch.Mismatches()),
	}).Info("Season analysis finished")

	if *storePtr {
		if err := save(ctx, settings, batch, logger); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(batch); err != nil {
		return err
	}

	if *servePtr {
		return serve(ctx, settings.Server.Addr, httpapi.NewAPI(analyzer, topology, logger), logger)
	}
	return nil
}

func save(ctx context.Context, settings *config.Settings, batch *analysis.BatchReport, logger *logrus.Logger) error {
	if settings.Store.DatabaseURL == "" {
		return errors.New("-store needs DATABASE_URL or store.database_url")
	}
	db, err := store.New(ctx, settings.Store.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	for _, report := range batch.Seasons {
		if err := db.SaveReport(ctx, report); err != nil {
			return err
		}
	}
	logger.WithField("seasons", len(batch.Seasons)).Info("Saved season reports")
	return nil
}

func serve(ctx context.Context, addr string, api *httpapi.API, logger *logrus.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
