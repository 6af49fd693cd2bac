package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"axon-assistant/internal/pkg/logger"
)

const (
	DefaultTimeout      = 7 * time.Second
	DefaultRelayTimeout = 7 * time.Second
	defaultUserAgent    = "axon-assistant"
	maxBodyBytes        = 4 << 20
)

// Retriever is what the dispatcher depends on.
type Retriever interface {
	Retrieve(ctx context.Context, rawURL string, opts ...Option) (*Result, error)
}

// Option tunes a single retrieval.
type Option func(*Options)

type Options struct {
	Timeout      time.Duration
	RelayTimeout time.Duration
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithRelayTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RelayTimeout = d
	}
}

// Config configures a Fetcher. Zero values pick defaults.
type Config struct {
	Timeout      time.Duration
	RelayTimeout time.Duration
	UserAgent    string
	Relays       []Relay
	Client       *http.Client
}

// Fetcher retrieves a URL directly and falls back through the relay chain.
type Fetcher struct {
	client       *http.Client
	relays       []Relay
	timeout      time.Duration
	relayTimeout time.Duration
	userAgent    string
	maxBody      int64
	logger       logger.ILogger
}

var _ Retriever = &Fetcher{}

func NewFetcher(cfg Config, log logger.ILogger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RelayTimeout <= 0 {
		cfg.RelayTimeout = DefaultRelayTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Relays == nil {
		cfg.Relays = DefaultRelays()
	}
	if cfg.Client == nil {
		// deadlines come from per-attempt contexts
		cfg.Client = &http.Client{}
	}
	return &Fetcher{
		client:       cfg.Client,
		relays:       cfg.Relays,
		timeout:      cfg.Timeout,
		relayTimeout: cfg.RelayTimeout,
		userAgent:    cfg.UserAgent,
		maxBody:      maxBodyBytes,
		logger:       log,
	}
}

// Retrieve fetches rawURL. Relays are only tried after the primary request fails,
// in order, once each. The error is a *RetrievalError when every path failed.
func (f *Fetcher) Retrieve(ctx context.Context, rawURL string, opts ...Option) (*Result, error) {
	options := &Options{
		Timeout:      f.timeout,
		RelayTimeout: f.relayTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}

	causes := make([]error, 0, len(f.relays)+1)

	res, err := f.primary(ctx, rawURL, options.Timeout)
	if err == nil {
		return res, nil
	}
	causes = append(causes, err)
	f.logger.Warn("Fetcher", "Primary retrieval failed, trying relays", map[string]interface{}{
		"url":   rawURL,
		"error": err.Error(),
	})

	for _, relay := range f.relays {
		if ctx.Err() != nil {
			causes = append(causes, ctx.Err())
			break
		}
		res, err := f.viaRelay(ctx, relay, rawURL, options.RelayTimeout)
		if err != nil {
			causes = append(causes, err)
			f.logger.Debug("Fetcher", "Relay attempt failed", map[string]interface{}{
				"relay": relay.Name,
				"error": err.Error(),
			})
			continue
		}
		f.logger.Info("Fetcher", "Served by relay", map[string]interface{}{
			"url":   rawURL,
			"relay": relay.Name,
		})
		return res, nil
	}

	f.logger.Error("Fetcher", "All retrieval paths exhausted", map[string]interface{}{
		"url":      rawURL,
		"attempts": len(causes),
	})
	return nil, &RetrievalError{URL: rawURL, Causes: causes}
}

func (f *Fetcher) primary(ctx context.Context, rawURL string, timeout time.Duration) (*Result, error) {
	body, contentType, err := f.get(ctx, rawURL, timeout, SourcePrimary)
	if err != nil {
		return nil, err
	}
	return normalize(body, contentType, SourcePrimary)
}

func (f *Fetcher) viaRelay(ctx context.Context, relay Relay, rawURL string, timeout time.Duration) (*Result, error) {
	body, _, err := f.get(ctx, relay.Wrap(rawURL), timeout, relay.Name)
	if err != nil {
		return nil, err
	}
	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode envelope: %w", relay.Name, err)
	}
	return unwrapEnvelope(envelope, relay.Name), nil
}

// get issues one GET bounded by its own deadline and returns the body of a 2xx response.
func (f *Fetcher) get(ctx context.Context, target string, timeout time.Duration, source string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: create request: %w", source, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: request failed: %w", source, err)
	}
	defer resp.Body.Close()

	f.logger.Debug("Fetcher", "Response received", map[string]interface{}{
		"source":  source,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return nil, "", &StatusError{Source: source, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, "", fmt.Errorf("%s: read body: %w", source, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, "", &TooLargeError{Source: source, Limit: f.maxBody}
	}
	return body, resp.Header.Get("Content-Type"), nil
}
