/**
 * @description
 * Client for the external BTC/INR price feed.
 *
 * The feed returns {"bitcoin": {"inr": <price>}}. Every failure mode
 * (transport error, non-2xx status, undecodable body, missing or
 * non-positive price) collapses into domain.ErrFeedUnavailable so callers
 * apply their fallback policy without inspecting the cause.
 */
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

// FallbackPrice is the BTC/INR price used when the feed has never answered.
var FallbackPrice = decimal.NewFromInt(8_000_000)

// Client fetches the current BTC price in INR.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// NewClient creates a price feed client for the given feed URL.
func NewClient(feedURL string) *Client {
	return &Client{
		feedURL:    strings.TrimSpace(feedURL),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type feedResponse struct {
	Bitcoin struct {
		INR decimal.Decimal `json:"inr"`
	} `json:"bitcoin"`
}

// FetchPrice returns the current BTC/INR price from the feed.
func (c *Client) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	if c.feedURL == "" {
		return decimal.Zero, fmt.Errorf("%w: feed URL is not configured", domain.ErrFeedUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: feed returned status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	if body.Bitcoin.INR.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: feed returned non-positive price", domain.ErrFeedUnavailable)
	}

	return body.Bitcoin.INR, nil
}
