package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
)

const (
	DefaultRateBaseURL   = "https://api.frankfurter.app"
	DefaultRateTimeout   = 5 * time.Second
	DefaultRateRateLimit = 5 // requests per second
)

// HTTPRateProvider fetches rates from a Frankfurter-compatible JSON API.
// For dates without a published rate the API answers with the previous
// business day, which is reported through AsOf.
type HTTPRateProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    adapter.BalanceMetrics
}

// HTTPRateOption configures the provider.
type HTTPRateOption func(*HTTPRateProvider)

// WithRateBaseURL sets the API base URL.
func WithRateBaseURL(baseURL string) HTTPRateOption {
	return func(p *HTTPRateProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateTimeout sets the HTTP timeout.
func WithRateTimeout(timeout time.Duration) HTTPRateOption {
	return func(p *HTTPRateProvider) {
		p.httpClient.Timeout = timeout
	}
}

// WithRequestsPerSecond sets the outbound request budget.
func WithRequestsPerSecond(rps int) HTTPRateOption {
	return func(p *HTTPRateProvider) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithRateMetrics records lookups under the "api" source.
func WithRateMetrics(metrics adapter.BalanceMetrics) HTTPRateOption {
	return func(p *HTTPRateProvider) {
		p.metrics = metrics
	}
}

// NewHTTPRateProvider creates a new HTTP rate provider.
func NewHTTPRateProvider(opts ...HTTPRateOption) *HTTPRateProvider {
	p := &HTTPRateProvider{
		baseURL:    DefaultRateBaseURL,
		httpClient: &http.Client{Timeout: DefaultRateTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateRateLimit), DefaultRateRateLimit),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type frankfurterResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// GetRate implements adapter.ExchangeRateProvider.
func (p *HTTPRateProvider) GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		p.observe("error")
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	path := "latest"
	if on != nil {
		path = on.UTC().Format(time.DateOnly)
	}
	query := url.Values{"from": {from}, "to": {to}}
	reqURL := fmt.Sprintf("%s/%s?%s", p.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		p.observe("error")
		slog.WarnContext(ctx, "Exchange rate request failed", "from", from, "to", to, "elapsed", elapsed, "error", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Unknown currencies and dates before the first published rate come back as 404
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity {
		p.observe("miss")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		p.observe("error")
		slog.WarnContext(ctx, "Exchange rate API non-OK response", "from", from, "to", to, "status", resp.StatusCode)
		return nil, fmt.Errorf("exchange rate API error: status %d for %s/%s", resp.StatusCode, from, to)
	}

	var body frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.observe("error")
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	value, ok := body.Rates[to]
	if !ok {
		p.observe("miss")
		return nil, nil
	}
	asOf, err := time.Parse(time.DateOnly, body.Date)
	if err != nil {
		p.observe("error")
		return nil, fmt.Errorf("unexpected date %q in response: %w", body.Date, err)
	}

	p.observe("hit")
	slog.DebugContext(ctx, "Exchange rate fetched", "from", from, "to", to, "as_of", body.Date, "elapsed", elapsed)
	return entity.NewExchangeRate(from, to, value, asOf, entity.RateProviderAPI), nil
}

func (p *HTTPRateProvider) observe(outcome string) {
	if p.metrics != nil {
		p.metrics.ObserveRateLookup(entity.RateProviderAPI, outcome)
	}
}
