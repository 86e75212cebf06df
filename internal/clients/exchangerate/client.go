// Package exchangerate fetches currency exchange rates from exchangerate-api.com.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public v4 endpoint
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Client for exchangerate-api.com
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new exchangerate-api.com client.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "exchangerate-api").Logger(),
	}
}

// Rate returns to-currency units per from-currency unit. One request, no retries.
func (c *Client) Rate(ctx context.Context, fromCurrency, toCurrency string) domain.Quote {
	if strings.EqualFold(fromCurrency, toCurrency) {
		return domain.QuoteOf(1)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, strings.ToUpper(fromCurrency))
	c.log.Debug().Str("url", url).Msg("Fetching rates")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.QuoteFailed(domain.FailureTransport, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.QuoteFailed(domain.FailureTransport, fmt.Errorf("API request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.QuoteFailed(domain.FailureTransport, fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.QuoteFailed(domain.FailureInvalidValue, fmt.Errorf("failed to parse response: %w", err))
	}

	rate, exists := result.Rates[strings.ToUpper(toCurrency)]
	if !exists {
		return domain.QuoteFailed(domain.FailureNoData, fmt.Errorf("rate not found for %s->%s", fromCurrency, toCurrency))
	}

	c.log.Info().
		Str("from", fromCurrency).
		Str("to", toCurrency).
		Float64("rate", rate).
		Msg("Fetched rate")

	return domain.QuoteOf(rate)
}
