package schedules

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 10 * time.Second
)

// HTTPSource downloads <year>.csv files from a base URL. Requests share one
// rate limiter so batch runs stay polite to the host.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	topology   *league.Topology
	logger     *logrus.Logger
}

// NewHTTPSource creates a source that allows requestsPerSecond downloads
// with bursts of up to burst requests
func NewHTTPSource(baseURL string, requestsPerSecond float64, burst int, timeout time.Duration, topology *league.Topology, logger *logrus.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		topology: topology,
		logger:   logger,
	}
}

// makeRequest performs a rate-limited GET and returns the body
func (s *HTTPSource) makeRequest(ctx context.Context, endpoint string, year int) ([]byte, error) {
	url := fmt.Sprintf("%s%s", s.baseURL, endpoint)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	s.logger.WithField("url", url).Debug("Downloading season data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("HTTP request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read response body")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"url":         url,
		}).Error("Season download failed")

		errType := "api_error"
		if resp.StatusCode == http.StatusNotFound {
			errType = "season_not_found"
		}
		return nil, &SourceError{
			Type:       errType,
			Message:    fmt.Sprintf("download failed with status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Season:     year,
		}
	}

	return body, nil
}

// Season downloads and parses a season
func (s *HTTPSource) Season(ctx context.Context, year int) (*league.Season, error) {
	body, err := s.makeRequest(ctx, fmt.Sprintf("/%d.csv", year), year)
	if err != nil {
		return nil, fmt.Errorf("failed to get season %d: %w", year, err)
	}
	return Parse(bytes.NewReader(body), s.topology, year)
}
