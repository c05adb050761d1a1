package engineapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/CortexTrack/config"
	"github.com/dyike/CortexTrack/internal/models"
)

// Client fetches pipeline progress from a remote engine's HTTP API instead
// of the local sqlite store. It implements tracker.Fetcher, so deployments
// where the engine runs as a service need no storage access at all.
type Client struct {
	client *resty.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.EngineBaseURL == "" {
		return nil, fmt.Errorf("engine base URL not configured")
	}

	client := resty.New()
	client.SetBaseURL(cfg.EngineBaseURL)
	client.SetTimeout(cfg.EngineTimeout())

	return &Client{client: client}, nil
}

// FetchPipelineData implements tracker.Fetcher. bypassCache maps to the
// engine's nocache query flag, forcing it to skip its own response cache.
func (c *Client) FetchPipelineData(ctx context.Context, symbol, tradeDate string, bypassCache bool) (*models.PipelineData, error) {
	req := c.client.R().SetContext(ctx)
	if bypassCache {
		req.SetQueryParam("nocache", "1")
	}

	resp, err := req.Get(fmt.Sprintf("/api/v1/progress/%s/%s", symbol, tradeDate))
	if err != nil {
		return nil, fmt.Errorf("fetch progress for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("engine API error %d: %s", resp.StatusCode(), resp.String())
	}

	var data models.PipelineData
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("parse progress response: %w", err)
	}
	if data.Symbol == "" {
		data.Symbol = symbol
	}
	if data.TradeDate == "" {
		data.TradeDate = tradeDate
	}
	return &data, nil
}
