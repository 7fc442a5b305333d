// Package client talks to a running vire-tracker over its REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

// TrackerClient communicates with the vire-tracker REST API.
type TrackerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTrackerClient creates a new client targeting the given server URL.
func NewTrackerClient(baseURL string) *TrackerClient {
	return &TrackerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// ListPortfolios fetches known portfolio IDs.
// GET /api/portfolios -> { status: "ok", data: [...] }
func (c *TrackerClient) ListPortfolios(ctx context.Context) ([]string, error) {
	var ids []string
	err := c.do(ctx, http.MethodGet, "/api/portfolios", nil, &ids)
	return ids, err
}

// Holdings fetches a portfolio's open positions.
func (c *TrackerClient) Holdings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	var hs []models.Holding
	err := c.do(ctx, http.MethodGet, portfolioPath(portfolioID, "holdings"), nil, &hs)
	return hs, err
}

// Valuation fetches a portfolio valuation.
func (c *TrackerClient) Valuation(ctx context.Context, portfolioID string) (*models.PortfolioValuation, error) {
	var v models.PortfolioValuation
	if err := c.do(ctx, http.MethodGet, portfolioPath(portfolioID, "valuation"), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Import posts raw rows and returns every backfilled row.
func (c *TrackerClient) Import(ctx context.Context, portfolioID string, raws []models.RawTransaction) ([]models.NormalizedTransaction, error) {
	body := map[string]interface{}{"transactions": raws}
	var resp struct {
		Rows []models.NormalizedTransaction `json:"rows"`
	}
	if err := c.do(ctx, http.MethodPost, portfolioPath(portfolioID, "import"), body, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

func portfolioPath(id, action string) string {
	return "/api/portfolios/" + url.PathEscape(id) + "/" + action
}

// do sends a JSON request and decodes the data field of the response envelope.
func (c *TrackerClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach vire-tracker: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Status string          `json:"status"`
		Error  string          `json:"error"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", interfaces.ErrNotFound, result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, result.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
