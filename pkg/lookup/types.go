package lookup

import "strings"

// Summary is the encyclopedia page summary.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Address holds the reverse-geocoding fields used for a place name.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type ReverseGeocode struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// PlaceName joins city, town, village, state and country with ", ",
// skipping blanks and repeats.
func (g ReverseGeocode) PlaceName() string {
	parts := make([]string, 0, 5)
	seen := make(map[string]bool)
	for _, v := range []string{g.Address.City, g.Address.Town, g.Address.Village, g.Address.State, g.Address.Country} {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}

type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
}

type Forecast struct {
	CurrentWeather *CurrentWeather `json:"current_weather"`
}

type ExchangeRates struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type ShowRating struct {
	Average *float64 `json:"average"`
}

type Show struct {
	Name   string     `json:"name"`
	Rating ShowRating `json:"rating"`
}

type Topic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type WebAnswer struct {
	AbstractText  string  `json:"AbstractText"`
	Heading       string  `json:"Heading"`
	RelatedTopics []Topic `json:"RelatedTopics"`
}

// Candidates returns up to max related topics that carry text.
func (a WebAnswer) Candidates(max int) []string {
	out := make([]string, 0, max)
	for _, t := range a.RelatedTopics {
		if len(out) == max {
			break
		}
		if t.Text == "" {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}
