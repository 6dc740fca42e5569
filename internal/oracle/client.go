// Package oracle talks to the external price-lookup service. The oracle is a
// read-only collaborator: a missing symbol is a negative result, not a fault,
// and a slow or failing oracle must never be waited on while the ledger holds
// database locks.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/config"
	"papertrade/internal/domain"
)

var ErrSymbolNotFound = errors.New("symbol not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(conf *config.OracleConfig) *Client {
	timeout := time.Duration(conf.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(conf.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type quoteResponse struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Lookup fetches a fresh quote. The symbol is case-normalized before the
// call so "nflx" and "NFLX" hit the same instrument.
func (c *Client) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	endpoint := fmt.Sprintf("%v/quote?symbol=%v", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return domain.Quote{}, ErrSymbolNotFound
	default:
		return domain.Quote{}, fmt.Errorf("oracle returned status %v", resp.StatusCode)
	}

	var body quoteResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Quote{}, fmt.Errorf("json.Decode -> %w", err)
	}
	if body.Symbol == "" || body.Price.IsZero() {
		return domain.Quote{}, ErrSymbolNotFound
	}

	return domain.Quote{
		Symbol: strings.ToUpper(body.Symbol),
		Name:   body.Name,
		Price:  body.Price,
	}, nil
}
