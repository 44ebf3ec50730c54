package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/schedules"
	"github.com/sirupsen/logrus"
)

// API serves season analysis over HTTP
type API struct {
	analyzer *analysis.Analyzer
	topology *league.Topology
	logger   *logrus.Logger
}

// NewAPI creates a new REST API backed by the analyzer
func NewAPI(analyzer *analysis.Analyzer, topology *league.Topology, logger *logrus.Logger) *API {
	return &API{
		analyzer: analyzer,
		topology: topology,
		logger:   logger,
	}
}

// Router returns the route table
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", a.health).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{season:[0-9]+}/seeds/{conference}", a.seeds).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{season:[0-9]+}/divisions", a.divisions).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{season:[0-9]+}/report", a.report).Methods(http.MethodGet)
	r.Use(a.logRequests)
	return r
}

type errorBody struct {
	Error string `json:"error"`
}

type seedsBody struct {
	Season     int      `json:"season"`
	Conference string   `json:"conference"`
	Seeds      []string `json:"seeds"`
}

type divisionsBody struct {
	Season    int                 `json:"season"`
	Divisions map[string][]string `json:"divisions"`
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("HTTP request")
		next.ServeHTTP(w, r)
	})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) seeds(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, ok := a.season(w, vars)
	if !ok {
		return
	}
	conference := strings.ToUpper(vars["conference"])
	if !a.topology.HasConference(conference) {
		a.writeError(w, http.StatusNotFound, "unknown conference "+vars["conference"])
		return
	}

	seeder, season, err := a.analyzer.Seeder(r.Context(), year)
	if err != nil {
		a.fail(w, year, err)
		return
	}
	seeds, err := seeder.Seeds(conference, season.Year)
	if err != nil {
		a.fail(w, year, err)
		return
	}
	a.writeJSON(w, http.StatusOK, seedsBody{Season: year, Conference: conference, Seeds: seeds})
}

func (a *API) divisions(w http.ResponseWriter, r *http.Request) {
	year, ok := a.season(w, mux.Vars(r))
	if !ok {
		return
	}
	seeder, _, err := a.analyzer.Seeder(r.Context(), year)
	if err != nil {
		a.fail(w, year, err)
		return
	}
	rankings, err := seeder.RankDivisions()
	if err != nil {
		a.fail(w, year, err)
		return
	}
	a.writeJSON(w, http.StatusOK, divisionsBody{Season: year, Divisions: rankings})
}

func (a *API) report(w http.ResponseWriter, r *http.Request) {
	year, ok := a.season(w, mux.Vars(r))
	if !ok {
		return
	}
	report, err := a.analyzer.AnalyzeSeason(r.Context(), year)
	if err != nil {
		a.fail(w, year, err)
		return
	}
	a.writeJSON(w, http.StatusOK, report)
}

func (a *API) season(w http.ResponseWriter, vars map[string]string) (int, bool) {
	years, err := analysis.ParseSeasons(vars["season"])
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return years[0], true
}

// fail maps analysis errors onto status codes
func (a *API) fail(w http.ResponseWriter, year int, err error) {
	a.logger.WithError(err).WithField("season", year).Error("Season request failed")
	status := http.StatusInternalServerError
	var sourceErr *schedules.SourceError
	if errors.As(err, &sourceErr) && sourceErr.Type == "season_not_found" {
		status = http.StatusNotFound
	}
	a.writeError(w, status, err.Error())
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, errorBody{Error: message})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.WithError(err).Error("Failed to encode response")
	}
}
