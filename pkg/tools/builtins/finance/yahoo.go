package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Yahoo Finance API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const defaultTimeout = 10 * time.Second

// Config holds the upstream market data settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client queries the Yahoo Finance JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given configuration. Zero values
// fall back to the public host and a ten second timeout.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type quoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	Currency                   string  `json:"currency"`
	MarketState                string  `json:"marketState"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketTime          int64   `json:"regularMarketTime"`
	FiftyTwoWeekRange          string  `json:"fiftyTwoWeekRange"`
	MarketCap                  int64   `json:"marketCap"`
}

type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quoteResult  `json:"result"`
		Error  map[string]any `json:"error"`
	} `json:"quoteResponse"`
}

func (c *Client) quote(ctx context.Context, symbol string) (*quoteResult, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	var env quoteEnvelope
	if err := c.getJSON(ctx, u, &env); err != nil {
		return nil, err
	}
	if len(env.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote for %q", symbol)
	}
	return &env.QuoteResponse.Result[0], nil
}

type chartEnvelope struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error map[string]any `json:"error"`
	} `json:"chart"`
}

type pricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func (c *Client) chart(ctx context.Context, symbol string, period1, period2 int64, interval string) ([]pricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&includePrePost=false",
		c.baseURL, url.PathEscape(symbol), period1, period2, url.QueryEscape(interval))

	var env chartEnvelope
	if err := c.getJSON(ctx, u, &env); err != nil {
		return nil, err
	}
	if len(env.Chart.Result) == 0 || len(env.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %q", symbol)
	}

	res := env.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close

	points := make([]pricePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, pricePoint{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		})
	}
	return points, nil
}

type trendEnvelope struct {
	QuoteSummary struct {
		Result []struct {
			RecommendationTrend struct {
				Trend []map[string]any `json:"trend"`
			} `json:"recommendationTrend"`
		} `json:"result"`
		Error map[string]any `json:"error"`
	} `json:"quoteSummary"`
}

func (c *Client) recommendationTrend(ctx context.Context, symbol string) ([]map[string]any, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=recommendationTrend",
		c.baseURL, url.PathEscape(symbol))

	var env trendEnvelope
	if err := c.getJSON(ctx, u, &env); err != nil {
		return nil, err
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no recommendation trend for %q", symbol)
	}
	return env.QuoteSummary.Result[0].RecommendationTrend.Trend, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "daedap/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
