package store

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// MaxCandidates bounds how many search results are offered for selection.
const MaxCandidates = 3

// Session represents the pending disambiguation for one conversation
type Session struct {
	ID    string `json:"id"` // conversation id
	State string `json:"state"`

	// THE WAITING ROOM (results offered but not yet selected)
	Candidates []string `json:"candidates"`

	// Metadata for the query that produced the candidates
	LastQuery string    `json:"last_query"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

const (
	StateAwaitingSelection = "AWAITING_SELECTION"
)

func NewSession(id, query string, candidates []string, now time.Time, ttl time.Duration) *Session {
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	c := make([]string, len(candidates))
	copy(c, candidates)
	return &Session{
		ID:         id,
		State:      StateAwaitingSelection,
		Candidates: c,
		LastQuery:  query,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Select resolves a follow-up utterance against the candidates. A leading
// integer is a 1-based index; anything else is a case-insensitive substring
// match where the first candidate wins.
func (s *Session) Select(utterance string) (string, bool) {
	choice := strings.TrimSpace(utterance)
	if choice == "" {
		return "", false
	}
	if n, ok := leadingInt(choice); ok {
		idx := n - 1
		if idx < 0 || idx >= len(s.Candidates) {
			return "", false
		}
		return s.Candidates[idx], true
	}
	lower := strings.ToLower(choice)
	for _, c := range s.Candidates {
		if strings.Contains(strings.ToLower(c), lower) {
			return c, true
		}
	}
	return "", false
}

// IsIndex reports whether the utterance starts with a number, i.e. reads as
// a choice by position.
func IsIndex(utterance string) bool {
	_, ok := leadingInt(strings.TrimSpace(utterance))
	return ok
}

// leadingInt reads an optionally signed integer prefix ("2", "2nd", "-1").
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
