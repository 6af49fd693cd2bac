package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"axon-assistant/pkg/device"
	"axon-assistant/pkg/fetch"
	"axon-assistant/pkg/intent"
	"axon-assistant/pkg/lookup"
	"axon-assistant/pkg/store"

	"github.com/google/uuid"
)

func (s *assistantService) lookupFailed(kind intent.Kind, err error) {
	details := map[string]interface{}{"intent": kind}
	if err != nil {
		details["error"] = err.Error()
	}
	s.logger.Warn("AssistantService", "Lookup failed", details)
}

func (s *assistantService) whoIs(ctx context.Context, subject string) outcome {
	summary, source, err := s.lookup.Summary(ctx, subject)
	if err != nil || strings.TrimSpace(summary.Extract) == "" {
		s.lookupFailed(intent.KindWhoIs, err)
		return outcome{text: msgWhoIsNotFound + subject}
	}
	return outcome{text: summary.Extract, source: source}
}

func (s *assistantService) whereAmI(ctx context.Context, locator device.Locator) outcome {
	pos, err := locator.CurrentPosition(ctx)
	if err != nil {
		var le *device.LocationError
		if errors.As(err, &le) && le.Reason == device.LocationUnsupported {
			return outcome{text: msgGeoUnsupported, source: sourceLocal}
		}
		return outcome{text: msgLocationPermission, source: sourceLocal}
	}

	geo, source, err := s.lookup.ReverseGeocode(ctx, pos.Latitude, pos.Longitude)
	if err == nil {
		if place := geo.PlaceName(); place != "" {
			return outcome{text: msgYouAreIn + place, source: source}
		}
	}
	s.lookupFailed(intent.KindWhereAmI, err)
	return outcome{text: fmt.Sprintf(msgCoordinates, pos.Latitude, pos.Longitude), source: sourceLocal}
}

func (s *assistantService) weather(ctx context.Context, locator device.Locator) outcome {
	pos, err := locator.CurrentPosition(ctx)
	if err != nil {
		return outcome{text: msgWeatherFailed}
	}
	forecast, source, err := s.lookup.Forecast(ctx, pos.Latitude, pos.Longitude)
	if err != nil || forecast.CurrentWeather == nil {
		s.lookupFailed(intent.KindWeather, err)
		return outcome{text: msgWeatherFailed}
	}
	cw := forecast.CurrentWeather
	return outcome{
		text:   fmt.Sprintf(msgWeather, lookup.FormatNumber(cw.Temperature), lookup.FormatNumber(cw.Windspeed)),
		source: source,
	}
}

func (s *assistantService) currency(ctx context.Context, pair string) outcome {
	base, symbol, ok := strings.Cut(pair, "/")
	if !ok {
		base, symbol, _ = strings.Cut(intent.PairUSDPKR, "/")
	}
	rates, source, err := s.lookup.ExchangeRates(ctx, base, symbol)
	if err != nil || rates.Rates[symbol] == 0 {
		s.lookupFailed(intent.KindCurrency, err)
		return outcome{text: msgCurrencyFailed}
	}
	return outcome{text: fmt.Sprintf(msgCurrency, rates.Rates[symbol]), source: source}
}

func (s *assistantService) rating(ctx context.Context, subject string) outcome {
	show, source, err := s.lookup.Show(ctx, subject)
	if err != nil || show.Rating.Average == nil || *show.Rating.Average == 0 {
		s.lookupFailed(intent.KindRating, err)
		return outcome{text: msgRatingFailed}
	}
	return outcome{
		text:   fmt.Sprintf(msgRating, show.Name, lookup.FormatNumber(*show.Rating.Average)),
		source: source,
	}
}

// search speaks the abstract when there is one, otherwise offers up to
// three related topics and waits for a selection.
func (s *assistantService) search(ctx context.Context, sessionId uuid.UUID, query string) outcome {
	answer, source, err := s.lookup.WebSearch(ctx, query)
	if err != nil {
		s.lookupFailed(intent.KindSearch, err)
		if fetch.IsRetrievalError(err) {
			return outcome{text: msgSearchUnreachable}
		}
		return outcome{text: msgNoAnswer, source: source}
	}

	if strings.TrimSpace(answer.AbstractText) != "" {
		return outcome{text: answer.AbstractText, source: source}
	}

	candidates := answer.Candidates(store.MaxCandidates)
	if len(candidates) == 0 {
		return outcome{text: msgNoAnswer, source: source}
	}

	s.sessions.Save(store.NewSession(sessionId.String(), query, candidates, s.now(), s.opts.SessionTTL))
	return outcome{text: msgChooseResult, source: source, candidates: candidates}
}
