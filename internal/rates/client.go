// Package rates fetches official mid-market exchange rates from the NBP API.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/internal/currency"
)

// ErrRequestFailed is returned when the rate could not be fetched or decoded.
var ErrRequestFailed = errors.New("rates: request failed")

const (
	// DefaultBaseURL points at table A of the National Bank of Poland rates API.
	DefaultBaseURL = "http://api.nbp.pl/api/exchangerates/rates/A"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config configures the rate client.
type Config struct {
	BaseURL string        `yaml:"base_url" envconfig:"RATES_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"RATES_TIMEOUT"`
}

// Client queries the latest published mid-rate for a currency.
type Client struct {
	baseURL string
	http    *http.Client
}

type ratesResponse struct {
	Rates []struct {
		Mid *decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

// NewClient builds a client. A nil httpClient gets a plain client with the configured timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, http: httpClient}
}

// RateOf returns how many base currency units one unit of code is worth.
// Failures are not retried.
func (c *Client) RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	start := time.Now()
	rate, err := c.fetch(ctx, code)
	attrs := []slog.Attr{
		slog.String("currency", string(code)),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		logger.Warn(ctx, "service.rates", "rate.fetch",
			append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
		return decimal.Zero, err
	}
	logger.Debug(ctx, "service.rates", "rate.fetch",
		append(attrs, slog.String("status", "ok"), slog.String("rate", rate.String()))...)
	return rate, nil
}

func (c *Client) fetch(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s/?format=json", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return decimal.Zero, fmt.Errorf("%w: %s for %s", ErrRequestFailed, resp.Status, code)
	}

	var body ratesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode body: %v", ErrRequestFailed, err)
	}
	if len(body.Rates) == 0 || body.Rates[0].Mid == nil {
		return decimal.Zero, fmt.Errorf("%w: no mid rate for %s", ErrRequestFailed, code)
	}
	return *body.Rates[0].Mid, nil
}
