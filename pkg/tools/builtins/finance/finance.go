// Package finance provides the market data tool suite backed by the
// Yahoo Finance JSON API: spot quotes, recent price series, and analyst
// recommendation trends.
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jmkoo/daedap/pkg/tools"
)

type quoteArgs struct {
	Symbol string `json:"symbol"`
}

type seriesArgs struct {
	Symbol   string `json:"symbol"`
	Range    string `json:"range,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// Definitions returns the finance tool definitions bound to c.
func Definitions(c *Client) []tools.Definition {
	quoteSchema, err := jsonschema.For[quoteArgs](nil)
	if err != nil {
		panic(fmt.Sprintf("finance: quote schema: %v", err))
	}
	seriesSchema, err := jsonschema.For[seriesArgs](nil)
	if err != nil {
		panic(fmt.Sprintf("finance: series schema: %v", err))
	}

	return []tools.Definition{
		{
			Name:        "getQuote",
			Description: "Returns the latest market quote for a ticker symbol.",
			Parameters:  quoteSchema,
			Handler:     c.getQuote,
		},
		{
			Name:        "getRecentPriceSeries",
			Description: "Returns recent closing prices for a ticker symbol over a range such as 5d, 1mo, 3mo, 6mo, or 1y.",
			Parameters:  seriesSchema,
			Handler:     c.getRecentPriceSeries,
		},
		{
			Name:        "getRecommendationTrend",
			Description: "Returns the analyst recommendation trend for a ticker symbol.",
			Parameters:  quoteSchema,
			Handler:     c.getRecommendationTrend,
		},
	}
}

// Upstream failures come back as {error, symbol} result maps rather than
// handler errors, so the model can react to them in conversation.

func (c *Client) getQuote(ctx context.Context, args map[string]any) (any, error) {
	var in quoteArgs
	if err := tools.BindArgs(args, &in); err != nil {
		return nil, err
	}

	q, err := c.quote(ctx, in.Symbol)
	if err != nil {
		return map[string]any{"error": err.Error(), "symbol": in.Symbol}, nil
	}
	return map[string]any{
		"symbol":                     q.Symbol,
		"shortName":                  q.ShortName,
		"currency":                   q.Currency,
		"marketState":                q.MarketState,
		"regularMarketPrice":         q.RegularMarketPrice,
		"regularMarketChange":        q.RegularMarketChange,
		"regularMarketChangePercent": q.RegularMarketChangePercent,
		"regularMarketTime":          q.RegularMarketTime,
		"fiftyTwoWeekRange":          q.FiftyTwoWeekRange,
		"marketCap":                  q.MarketCap,
	}, nil
}

func (c *Client) getRecentPriceSeries(ctx context.Context, args map[string]any) (any, error) {
	var in seriesArgs
	if err := tools.BindArgs(args, &in); err != nil {
		return nil, err
	}

	rng := normalizeRange(in.Range)
	interval := normalizeInterval(in.Interval)
	period1, period2 := rangeWindow(rng)

	points, err := c.chart(ctx, in.Symbol, period1, period2, interval)
	if err != nil {
		return map[string]any{"error": err.Error(), "symbol": in.Symbol, "range": rng}, nil
	}
	if len(points) == 0 {
		return map[string]any{"error": "empty series", "symbol": in.Symbol, "range": rng}, nil
	}
	return map[string]any{
		"symbol":   in.Symbol,
		"range":    rng,
		"interval": interval,
		"points":   points,
	}, nil
}

func (c *Client) getRecommendationTrend(ctx context.Context, args map[string]any) (any, error) {
	var in quoteArgs
	if err := tools.BindArgs(args, &in); err != nil {
		return nil, err
	}

	trend, err := c.recommendationTrend(ctx, in.Symbol)
	if err != nil {
		return map[string]any{"error": err.Error(), "symbol": in.Symbol}, nil
	}
	return map[string]any{
		"symbol": in.Symbol,
		"trend":  trend,
	}, nil
}

func normalizeRange(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "5d", "1mo", "3mo", "6mo", "1y":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return "6mo"
	}
}

func normalizeInterval(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1h" || strings.Contains(s, "hour") {
		return "1h"
	}
	return "1d"
}

// rangeWindow converts a normalized range to a [period1, period2] epoch
// second window ending now.
func rangeWindow(rng string) (int64, int64) {
	end := time.Now()
	var start time.Time
	switch rng {
	case "5d":
		start = end.AddDate(0, 0, -5)
	case "1mo":
		start = end.AddDate(0, -1, 0)
	case "3mo":
		start = end.AddDate(0, -3, 0)
	case "1y":
		start = end.AddDate(-1, 0, 0)
	default: // 6mo
		start = end.AddDate(0, -6, 0)
	}
	return start.Unix(), end.Unix()
}
