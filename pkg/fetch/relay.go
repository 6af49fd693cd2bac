package fetch

import "net/url"

// Relay rewrites a target URL so a third-party relay fetches it on our behalf.
type Relay struct {
	Name string
	Wrap func(target string) string
}

// QueryRelay passes the escaped target as a query value appended to prefix.
func QueryRelay(name, prefix string) Relay {
	return Relay{
		Name: name,
		Wrap: func(target string) string {
			return prefix + url.QueryEscape(target)
		},
	}
}

// PathRelay appends the target verbatim to prefix.
func PathRelay(name, prefix string) Relay {
	return Relay{
		Name: name,
		Wrap: func(target string) string {
			return prefix + target
		},
	}
}

// DefaultRelays is the fallback chain in priority order.
func DefaultRelays() []Relay {
	return []Relay{
		QueryRelay("allorigins", "https://api.allorigins.win/get?url="),
		QueryRelay("allorigins-cf", "https://api.allorigins.cf/get?url="),
		PathRelay("thingproxy", "https://thingproxy.freeboard.io/fetch/"),
	}
}
