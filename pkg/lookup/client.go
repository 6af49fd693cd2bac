package lookup

import (
	"context"
	"fmt"

	"axon-assistant/pkg/fetch"
)

// Client decodes the external services into typed values. Every call goes
// through the fetcher, so relays apply uniformly.
type Client struct {
	fetcher   fetch.Retriever
	endpoints Endpoints
}

func NewClient(fetcher fetch.Retriever, endpoints Endpoints) *Client {
	return &Client{
		fetcher:   fetcher,
		endpoints: endpoints.withDefaults(),
	}
}

func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Summary returns the page summary and the path that served it.
func (c *Client) Summary(ctx context.Context, subject string) (*Summary, string, error) {
	var out Summary
	source, err := c.get(ctx, c.endpoints.SummaryURL(subject), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocode, string, error) {
	var out ReverseGeocode
	source, err := c.get(ctx, c.endpoints.ReverseGeocodeURL(lat, lon), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Forecast, string, error) {
	var out Forecast
	source, err := c.get(ctx, c.endpoints.WeatherURL(lat, lon), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) ExchangeRates(ctx context.Context, base, symbol string) (*ExchangeRates, string, error) {
	var out ExchangeRates
	source, err := c.get(ctx, c.endpoints.ExchangeRateURL(base, symbol), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) Show(ctx context.Context, subject string) (*Show, string, error) {
	var out Show
	source, err := c.get(ctx, c.endpoints.ShowSearchURL(subject), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) WebSearch(ctx context.Context, query string) (*WebAnswer, string, error) {
	var out WebAnswer
	source, err := c.get(ctx, c.endpoints.WebSearchURL(query), &out)
	if err != nil {
		return nil, "", err
	}
	return &out, source, nil
}

func (c *Client) get(ctx context.Context, target string, v any) (string, error) {
	res, err := c.fetcher.Retrieve(ctx, target)
	if err != nil {
		return "", err
	}
	if err := res.Decode(v); err != nil {
		return res.Source, fmt.Errorf("unexpected payload from %s: %w", res.Source, err)
	}
	return res.Source, nil
}
