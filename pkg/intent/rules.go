package intent

import (
	"regexp"
	"strings"
)

// Rule is one (predicate, constructor) pair. Match and Build both receive the
// lowercased text; Build also gets the text as typed.
type Rule struct {
	Name  string
	Match func(lower string) bool
	Build func(lower, original string) Intent
}

var (
	currencyPattern = regexp.MustCompile(`rate|usd|pkr|dollar`)
	ratingPattern   = regexp.MustCompile(`rating( of| for)?`)
)

const whoIsPrefix = "who is "

func containsAny(words ...string) func(string) bool {
	return func(lower string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

func always(kind Kind) func(string, string) Intent {
	return func(string, string) Intent {
		return Simple(kind)
	}
}

// DefaultRules is the priority order. Rules overlap ("who is the weather
// forecaster"), so order decides.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "who_is",
			Match: func(lower string) bool {
				return strings.HasPrefix(lower, whoIsPrefix)
			},
			Build: func(lower, _ string) Intent {
				return WhoIs(strings.TrimSpace(strings.TrimPrefix(lower, whoIsPrefix)))
			},
		},
		{Name: "where_am_i", Match: containsAny("where am", "my location"), Build: always(KindWhereAmI)},
		{Name: "weather", Match: containsAny("weather"), Build: always(KindWeather)},
		{
			Name:  "currency",
			Match: currencyPattern.MatchString,
			Build: func(string, string) Intent {
				return Currency(PairUSDPKR)
			},
		},
		{
			Name:  "rating",
			Match: containsAny("rating"),
			Build: func(lower, _ string) Intent {
				loc := ratingPattern.FindStringIndex(lower)
				subject := lower[:loc[0]] + lower[loc[1]:]
				return Rating(strings.TrimSpace(subject))
			},
		},
		{Name: "camera", Match: containsAny("open camera", "take picture", "camera"), Build: always(KindCamera)},
		{Name: "record", Match: containsAny("record voice", "recording"), Build: always(KindRecord)},
		{Name: "note", Match: containsAny("note"), Build: always(KindNote)},
		{Name: "todo", Match: containsAny("todo"), Build: always(KindTodo)},
		{Name: "capabilities", Match: containsAny("what can you do", "what are you"), Build: always(KindCapabilities)},
	}
}
