package fetch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags a normalized body.
type Kind string

const (
	KindStructured Kind = "structured"
	KindText       Kind = "text"
)

// SourcePrimary marks a result served by the requested URL itself.
const SourcePrimary = "primary"

// Result is the normalized body of a successful retrieval.
type Result struct {
	Kind   Kind
	Value  any    // decoded JSON when Kind is KindStructured
	Text   string // raw body when Kind is KindText
	Source string // SourcePrimary or the relay name
}

// Structured wraps an already decoded value.
func Structured(value any, source string) *Result {
	return &Result{Kind: KindStructured, Value: value, Source: source}
}

// Text wraps a raw body.
func Text(text, source string) *Result {
	return &Result{Kind: KindText, Text: text, Source: source}
}

// IsStructured reports whether the body decoded as JSON.
func (r *Result) IsStructured() bool {
	return r != nil && r.Kind == KindStructured
}

// Object returns the body as a JSON object when it is one.
func (r *Result) Object() (map[string]any, bool) {
	if !r.IsStructured() {
		return nil, false
	}
	obj, ok := r.Value.(map[string]any)
	return obj, ok
}

// Decode maps the body onto v. Text bodies get one more JSON attempt.
func (r *Result) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode: empty result")
	}
	if r.Kind == KindText {
		if err := json.Unmarshal([]byte(r.Text), v); err != nil {
			return fmt.Errorf("decode text body: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("re-encode structured body: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode structured body: %w", err)
	}
	return nil
}

func (r *Result) String() string {
	if r == nil {
		return ""
	}
	if r.Kind == KindText {
		return r.Text
	}
	raw, _ := json.Marshal(r.Value)
	return string(raw)
}

// normalize turns a primary response body into a Result.
// A declared JSON content type must decode; anything else is decoded
// opportunistically and kept as text when that fails.
func normalize(body []byte, contentType, source string) (*Result, error) {
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return Structured(v, source), nil
	}

	if v, ok := tryDecode(string(body)); ok {
		return Structured(v, source), nil
	}
	return Text(string(body), source), nil
}

// unwrapEnvelope applies the relay rule: a truthy "contents" field is the
// real payload, otherwise the relay body itself is.
func unwrapEnvelope(envelope any, source string) *Result {
	obj, ok := envelope.(map[string]any)
	if !ok {
		return Structured(envelope, source)
	}
	contents, ok := obj["contents"]
	if !ok || !truthy(contents) {
		return Structured(envelope, source)
	}
	text, isString := contents.(string)
	if !isString {
		return Structured(contents, source)
	}
	if v, ok := tryDecode(text); ok {
		return Structured(v, source)
	}
	return Text(text, source)
}

func tryDecode(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
