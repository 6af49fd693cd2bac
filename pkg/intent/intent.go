package intent

// Kind is the closed set of things an utterance can ask for.
type Kind string

const (
	KindWhoIs        Kind = "who_is"
	KindWhereAmI     Kind = "where_am_i"
	KindWeather      Kind = "weather"
	KindCurrency     Kind = "currency"
	KindRating       Kind = "rating"
	KindCamera       Kind = "camera"
	KindRecord       Kind = "record"
	KindNote         Kind = "note"
	KindTodo         Kind = "todo"
	KindCapabilities Kind = "capabilities"
	KindSearch       Kind = "search"
)

// PairUSDPKR is the only currency pair the assistant quotes.
const PairUSDPKR = "USD/PKR"

// Intent is the classified purpose of one utterance.
// Only the field matching Kind is populated.
type Intent struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject,omitempty"` // WhoIs, Rating
	Pair    string `json:"pair,omitempty"`    // Currency
	Query   string `json:"query,omitempty"`   // Search, original case preserved
}

func WhoIs(subject string) Intent { return Intent{Kind: KindWhoIs, Subject: subject} }
func Rating(subject string) Intent { return Intent{Kind: KindRating, Subject: subject} }
func Currency(pair string) Intent { return Intent{Kind: KindCurrency, Pair: pair} }
func Search(query string) Intent { return Intent{Kind: KindSearch, Query: query} }
func Simple(kind Kind) Intent { return Intent{Kind: kind} }
func (i Intent) String() string { return string(i.Kind) }
func (i Intent) IsSearch() bool { return i.Kind == KindSearch }
func (i Intent) NeedsNetwork() bool { return networkKinds[i.Kind] }

var networkKinds = map[Kind]bool{
	KindWhoIs:    true,
	KindWhereAmI: true,
	KindWeather:  true,
	KindCurrency: true,
	KindRating:   true,
	KindSearch:   true,
}
