package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"reco/internal/domain"
	"reco/internal/metrics"
)

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
	Logger      zerolog.Logger
}

// HTTPSource fetches the catalog from the shop backend's /products
// endpoint behind a circuit breaker.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]domain.Item]
	logger  zerolog.Logger
}

func NewHTTPSource(baseURL string, opts HTTPOptions) *HTTPSource {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 3
	}
	if opts.OpenTimeout == 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	s := &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: opts.Timeout},
		logger:  opts.Logger.With().Str("component", "catalog.http").Logger(),
	}

	const name = "catalog-http"
	metrics.BreakerState.WithLabelValues(name).Set(0)
	s.cb = gobreaker.NewCircuitBreaker[[]domain.Item](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return s
}

func (s *HTTPSource) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	items, err := s.cb.Execute(func() ([]domain.Item, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		metrics.CatalogFetchFailures.WithLabelValues("http").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("catalog backend circuit open: %w", err)
		}
		return nil, err
	}
	return items, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]domain.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog backend returned status %d", resp.StatusCode)
	}

	var items []domain.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("catalog response is not a product list: %w", err)
	}
	return items, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
