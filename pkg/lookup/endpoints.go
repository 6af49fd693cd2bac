package lookup

import (
	"net/url"
	"strconv"
)

// Endpoints holds the base URLs of the keyless services the assistant reads.
type Endpoints struct {
	Summary        string // path-parameterized by subject
	ReverseGeocode string
	Weather        string
	ExchangeRate   string
	ShowSearch     string
	WebSearch      string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Summary:        "https://en.wikipedia.org/api/rest_v1/page/summary/",
		ReverseGeocode: "https://nominatim.openstreetmap.org/reverse",
		Weather:        "https://api.open-meteo.com/v1/forecast",
		ExchangeRate:   "https://api.exchangerate.host/latest",
		ShowSearch:     "https://api.tvmaze.com/singlesearch/shows",
		WebSearch:      "https://api.duckduckgo.com/",
	}
}

// withDefaults fills blank fields so partial overrides work.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Summary == "" {
		e.Summary = d.Summary
	}
	if e.ReverseGeocode == "" {
		e.ReverseGeocode = d.ReverseGeocode
	}
	if e.Weather == "" {
		e.Weather = d.Weather
	}
	if e.ExchangeRate == "" {
		e.ExchangeRate = d.ExchangeRate
	}
	if e.ShowSearch == "" {
		e.ShowSearch = d.ShowSearch
	}
	if e.WebSearch == "" {
		e.WebSearch = d.WebSearch
	}
	return e
}

func (e Endpoints) SummaryURL(subject string) string {
	return e.Summary + url.PathEscape(subject)
}

func (e Endpoints) ReverseGeocodeURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", FormatNumber(lat))
	q.Set("lon", FormatNumber(lon))
	return e.ReverseGeocode + "?" + q.Encode()
}

func (e Endpoints) WeatherURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", FormatNumber(lat))
	q.Set("longitude", FormatNumber(lon))
	q.Set("current_weather", "true")
	return e.Weather + "?" + q.Encode()
}

func (e Endpoints) ExchangeRateURL(base, symbol string) string {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", symbol)
	return e.ExchangeRate + "?" + q.Encode()
}

func (e Endpoints) ShowSearchURL(subject string) string {
	q := url.Values{}
	q.Set("q", subject)
	return e.ShowSearch + "?" + q.Encode()
}

func (e Endpoints) WebSearchURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	return e.WebSearch + "?" + q.Encode()
}

// FormatNumber prints the shortest exact decimal, no exponent.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
