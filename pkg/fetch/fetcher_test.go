package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"axon-assistant/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(relays []Relay, timeout time.Duration) *Fetcher {
	return NewFetcher(Config{
		Timeout:      timeout,
		RelayTimeout: timeout,
		Relays:       relays,
	}, logger.NewNopLogger())
}

func serve(status int, contentType, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

// hang blocks until the client gives up.
func hang() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
}

func relayTo(name string, srv *httptest.Server) Relay {
	return QueryRelay(name, srv.URL+"/get?url=")
}

func TestRetrieve_PrimaryJSON(t *testing.T) {
	primary := serve(http.StatusOK, "application/json; charset=utf-8", `{"extract":"hello"}`)
	defer primary.Close()

	relayHit := false
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayHit = true
	}))
	defer relay.Close()

	f := newTestFetcher([]Relay{relayTo("r1", relay)}, time.Second)
	res, err := f.Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)

	obj, ok := res.Object()
	require.True(t, ok)
	assert.Equal(t, "hello", obj["extract"])
	assert.Equal(t, SourcePrimary, res.Source)
	assert.False(t, relayHit, "relays must not run when the primary succeeds")
}

func TestRetrieve_PrimaryTextNormalization(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind Kind
	}{
		{"json served as text", `{"a":1}`, KindStructured},
		{"plain text", "just words", KindText},
		{"empty body", "", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(http.StatusOK, "text/plain", tt.body)
			defer srv.Close()

			res, err := newTestFetcher([]Relay{}, time.Second).Retrieve(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind)
			if tt.wantKind == KindText {
				assert.Equal(t, tt.body, res.Text)
			}
		})
	}
}

func TestRetrieve_AllPathsFail(t *testing.T) {
	primary := serve(http.StatusInternalServerError, "", "boom")
	defer primary.Close()
	r1 := serve(http.StatusBadGateway, "", "")
	defer r1.Close()
	r2 := serve(http.StatusOK, "text/html", "<html>not json</html>")
	defer r2.Close()
	r3 := serve(http.StatusNotFound, "", "")
	defer r3.Close()

	f := newTestFetcher([]Relay{relayTo("r1", r1), relayTo("r2", r2), relayTo("r3", r3)}, time.Second)
	res, err := f.Retrieve(context.Background(), primary.URL)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsRetrievalError(err))
	assert.Equal(t, "fetch failed", err.Error())

	var re *RetrievalError
	require.True(t, errors.As(err, &re))
	assert.Len(t, re.Causes, 4)

	var se *StatusError
	require.True(t, errors.As(re.Causes[0], &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestRetrieve_PrimaryTimeoutSecondRelayWins(t *testing.T) {
	primary := hang()
	defer primary.Close()
	r1 := serve(http.StatusServiceUnavailable, "", "")
	defer r1.Close()
	r2 := serve(http.StatusOK, "application/json", `{"contents":"{\"rates\":{\"PKR\":278.456}}","status":{"http_code":200}}`)
	defer r2.Close()
	r3 := serve(http.StatusOK, "application/json", `{"contents":"third"}`)
	defer r3.Close()

	f := newTestFetcher([]Relay{relayTo("r1", r1), relayTo("r2", r2), relayTo("r3", r3)}, 100*time.Millisecond)
	res, err := f.Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)
	assert.Equal(t, "r2", res.Source)

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	require.NoError(t, res.Decode(&body))
	assert.InDelta(t, 278.456, body.Rates["PKR"], 0.0001)
}

func TestRetrieve_RelayHangIsBounded(t *testing.T) {
	primary := serve(http.StatusInternalServerError, "", "")
	defer primary.Close()
	r1 := hang()
	defer r1.Close()
	r2 := serve(http.StatusOK, "application/json", `{"contents":"plain relay text"}`)
	defer r2.Close()

	f := newTestFetcher([]Relay{relayTo("r1", r1), relayTo("r2", r2)}, 100*time.Millisecond)

	start := time.Now()
	res, err := f.Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, KindText, res.Kind)
	assert.Equal(t, "plain relay text", res.Text)
}

func TestRetrieve_RelayWithoutContentsReturnsBody(t *testing.T) {
	primary := serve(http.StatusForbidden, "", "")
	defer primary.Close()
	r1 := serve(http.StatusOK, "application/json", `{"name":"Friends","contents":""}`)
	defer r1.Close()

	res, err := newTestFetcher([]Relay{relayTo("r1", r1)}, time.Second).Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)
	obj, ok := res.Object()
	require.True(t, ok)
	assert.Equal(t, "Friends", obj["name"])
}

func TestRetrieve_PrimaryBadJSONFallsBack(t *testing.T) {
	primary := serve(http.StatusOK, "application/json", `{broken`)
	defer primary.Close()
	r1 := serve(http.StatusOK, "application/json", `{"contents":"[1,2]"}`)
	defer r1.Close()

	res, err := newTestFetcher([]Relay{relayTo("r1", r1)}, time.Second).Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, res.Value)
}

func TestDefaultRelays(t *testing.T) {
	relays := DefaultRelays()
	require.Len(t, relays, 3)

	target := "https://api.tvmaze.com/singlesearch/shows?q=friends"
	assert.Equal(t, "https://api.allorigins.win/get?url=https%3A%2F%2Fapi.tvmaze.com%2Fsinglesearch%2Fshows%3Fq%3Dfriends", relays[0].Wrap(target))
	assert.Contains(t, relays[1].Wrap(target), "https://api.allorigins.cf/get?url=")
	assert.Equal(t, "https://thingproxy.freeboard.io/fetch/"+target, relays[2].Wrap(target))
}

func TestRetrieve_OversizedBodyIsAFailure(t *testing.T) {
	primary := serve(http.StatusOK, "text/plain", "0123456789abcdef")
	defer primary.Close()
	relay := serve(http.StatusOK, "application/json", `{"contents":"small"}`)
	defer relay.Close()

	f := newTestFetcher([]Relay{relayTo("r1", relay)}, time.Second)
	f.maxBody = 8

	res, err := f.Retrieve(context.Background(), primary.URL)
	require.NoError(t, err)
	assert.Equal(t, "r1", res.Source)
	assert.Equal(t, KindText, res.Kind)
	assert.Equal(t, "small", res.Text)

	f.relays = nil
	_, err = f.Retrieve(context.Background(), primary.URL)
	require.True(t, IsRetrievalError(err))
	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, SourcePrimary, tooLarge.Source)
	assert.Equal(t, int64(8), tooLarge.Limit)
}
