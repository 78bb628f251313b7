// Package marketdata fetches token price data from the DexScreener API.
// It is a passthrough for the site's chart widget; responses are relayed as
// raw JSON and cached briefly so the widget cannot hammer the upstream API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hachiko/internal/cache"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.dexscreener.com"
	cacheTTL       = 30 * time.Second
)

// Client is a thin DexScreener API client.
type Client struct {
	http *resty.Client
}

// NewClient builds a client against the public DexScreener endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL exists for tests pointing at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
}

// TokenPairs returns the trading pairs for a token address, served from the
// short-lived Redis cache when possible.
func (c *Client) TokenPairs(ctx context.Context, address string) (json.RawMessage, error) {
	var payload json.RawMessage
	key := "token_data:" + address

	err := cache.CacheAside(ctx, key, &payload, cacheTTL, func() error {
		fresh, err := c.fetchTokenPairs(ctx, address)
		if err != nil {
			return err
		}
		payload = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) fetchTokenPairs(ctx context.Context, address string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("address", address).
		Get("/latest/dex/tokens/{address}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dexscreener returned status %d", resp.StatusCode())
	}
	return json.RawMessage(resp.Body()), nil
}
