package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hypertracker/internal/adapters/config"
	"hypertracker/pkg/errors"
)

// CoinGecko upstream does not whitelist default Go user agents
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/237.84.2.178 Safari/537.36"

// coinIDs maps tracked symbols to CoinGecko coin ids. Symbols outside this
// map fail with ErrUnsupportedSymbol before any network call.
var coinIDs = map[string]string{
	"ETH": "ethereum",
	"BTC": "bitcoin",
}

// Client fetches USD spot prices from the CoinGecko simple price API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new CoinGecko price oracle client
func NewClient(cfg config.OracleConfig) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CoinID resolves a tracked symbol to its CoinGecko coin id
func CoinID(symbol string) (string, error) {
	id, ok := coinIDs[symbol]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnsupportedSymbol, "symbol %q", symbol)
	}
	return id, nil
}

// GetPriceUSD returns the current USD spot price for a symbol
func (c *Client) GetPriceUSD(ctx context.Context, symbol string) (float64, error) {
	coinID, err := CoinID(symbol)
	if err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")
	q.Set("x_cg_demo_api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/api/v3/simple/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, errors.Wrap(err, "create price request")
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(errors.ErrUpstream, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, errors.Wrapf(errors.ErrUpstream, "coingecko: %s", resp.Status)
	}

	// Response is keyed by coin id: {"ethereum": {"usd": 3000.5}}
	var body map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, errors.Wrap(err, "decode price response")
	}

	quote, ok := body[coinID]
	if !ok {
		return 0, errors.Wrapf(errors.ErrUpstream, "coingecko: no quote for %s", coinID)
	}
	if quote.USD <= 0 {
		return 0, errors.Wrapf(errors.ErrUpstream, "coingecko: non-positive price %f for %s", quote.USD, coinID)
	}

	return quote.USD, nil
}
