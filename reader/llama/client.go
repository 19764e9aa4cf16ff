package llama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"llamaflow/config"
	"llamaflow/logger"
)

// Client fetches raw JSON payloads from the DeFi Llama API family. One
// request maps to one GET; there is no retry, caching or rate limiting.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	log        *logger.Log
}

// NewClient creates a Client using the configured timeout and User-Agent.
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
	}

	var rt http.RoundTripper = transport
	if cfg.Fetcher.UserAgent != "" {
		rt = userAgentTransport{agent: cfg.Fetcher.UserAgent, base: transport}
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   cfg.Fetcher.Timeout,
		},
		log: logger.GetLogger(),
	}
}

// Fetch performs a single blocking GET against url. Transport errors and
// non-2xx statuses are logged with the offending URL and degrade to a nil
// payload. A body that is not valid JSON is returned as an error; the run
// cannot meaningfully continue with an API speaking something else.
func (c *Client) Fetch(ctx context.Context, url string) (json.RawMessage, error) {
	log := c.log.WithComponent("llama_client").WithFields(logger.Fields{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.WithError(err).Warn("failed to build request")
		logger.IncrementFetch(false)
		return nil, nil
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("failed to fetch data")
		logger.IncrementFetch(false)
		return nil, nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		log.WithFields(logger.Fields{"status": res.StatusCode}).Warn("unexpected response status")
		logger.IncrementFetch(false)
		return nil, nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.WithError(err).Warn("failed to read response body")
		logger.IncrementFetch(false)
		return nil, nil
	}

	if !json.Valid(body) {
		logger.IncrementFetch(false)
		return nil, fmt.Errorf("invalid JSON response from %s", url)
	}

	logger.IncrementFetch(true)
	log.WithFields(logger.Fields{"bytes": len(body)}).Debug("fetched payload")
	return body, nil
}

// Protocols fetches the full protocol TVL listing.
func (c *Client) Protocols(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/protocols", c.config.API.BaseURL))
}

// DexOverview fetches trading volume data across all DEXs.
func (c *Client) DexOverview(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/overview/dexs", c.config.API.BaseURL))
}

// FeesOverview fetches fee and revenue data across all protocols.
func (c *Client) FeesOverview(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/overview/fees", c.config.API.BaseURL))
}

// Protocol fetches detailed TVL data for a single protocol.
func (c *Client) Protocol(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/protocol/%s", c.config.API.BaseURL, slug))
}

// DexSummary fetches the volume summary for a single DEX.
func (c *Client) DexSummary(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/summary/dexs/%s", c.config.API.BaseURL, slug))
}

// FeeSummary fetches the fee summary for a single protocol.
func (c *Client) FeeSummary(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/summary/fees/%s", c.config.API.BaseURL, slug))
}

// YieldPools fetches the yield pool listing from the yields API root.
func (c *Client) YieldPools(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/pools", c.config.API.YieldsURL))
}

// Stablecoins fetches the stablecoin listing from the stablecoins API root.
func (c *Client) Stablecoins(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/stablecoins", c.config.API.StablecoinsURL))
}
