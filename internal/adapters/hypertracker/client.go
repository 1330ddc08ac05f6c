package hypertracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hypertracker/internal/domain/heatmap"
	"hypertracker/internal/domain/settings"
	"hypertracker/pkg/errors"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/237.84.2.178 Safari/537.36"

// Client fetches liquidation-heatmap snapshots from the HyperTracker
// aggregator. The aggregator base URL is operator-mutable runtime config, so
// it is resolved from the settings table on every call rather than at
// construction.
type Client struct {
	settingsRepo settings.Repository
	httpClient   *http.Client
}

// NewClient creates a new aggregator client
func NewClient(settingsRepo settings.Repository) *Client {
	return &Client{
		settingsRepo: settingsRepo,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Wire format of one heatmap bin (camelCase on the wire)
type wireBin struct {
	Coin                string  `json:"coin"`
	PriceBinStart       float64 `json:"priceBinStart"`
	PriceBinEnd         float64 `json:"priceBinEnd"`
	LiquidationValue    float64 `json:"liquidationValue"`
	PositionsCount      int     `json:"positionsCount"`
	MostImpactedSegment string  `json:"mostImpactedSegment"`
	PriceBinIndex       int     `json:"priceBinIndex"`
}

type heatmapResponse struct {
	Heatmap []wireBin `json:"heatmap"`
}

// GetHeatmap returns the current raw heatmap bins for a symbol
func (c *Client) GetHeatmap(ctx context.Context, symbol string) ([]heatmap.Entry, error) {
	baseURL, err := c.settingsRepo.Get(ctx, settings.KeyAggregatorURL)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/aggregator/assets/%s/liquidation-heatmap.json", baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create heatmap request")
	}

	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(errors.ErrUpstream, "aggregator: %s", resp.Status)
	}

	var body heatmapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode heatmap response")
	}

	entries := make([]heatmap.Entry, len(body.Heatmap))
	for i, bin := range body.Heatmap {
		entries[i] = heatmap.Entry{
			Coin:                bin.Coin,
			PriceBinStart:       bin.PriceBinStart,
			PriceBinEnd:         bin.PriceBinEnd,
			LiquidationValue:    bin.LiquidationValue,
			PositionsCount:      bin.PositionsCount,
			MostImpactedSegment: bin.MostImpactedSegment,
			PriceBinIndex:       bin.PriceBinIndex,
		}
	}

	return entries, nil
}
