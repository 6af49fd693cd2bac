package facts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fact is one canned answer. Key is matched against the lowercased utterance.
type Fact struct {
	Key    string `yaml:"key" json:"key"`
	Answer string `yaml:"answer" json:"answer"`
}

// File is the on-disk layout of an extra facts file.
type File struct {
	Facts []Fact `yaml:"facts"`
}

const DefaultOwner = "Haider Ali"

// Defaults returns the built-in table in lookup order.
func Defaults(owner string) []Fact {
	if strings.TrimSpace(owner) == "" {
		owner = DefaultOwner
	}
	return []Fact{
		{Key: "albert einstein", Answer: "Albert Einstein (14 March 1879 – 18 April 1955) was a German-born theoretical physicist who developed the theory of relativity."},
		{Key: "who are you", Answer: "I am AXON, your personal AI assistant."},
		{Key: "who am i", Answer: fmt.Sprintf("You are %s.", owner)},
		{Key: "what can you do", Answer: "I can open camera, take picture, record voice, make calls, open WhatsApp, take notes, update todos, and search the web."},
	}
}

// Store answers before the classifier runs. The first key contained in the
// utterance wins.
type Store struct {
	facts []Fact
}

func NewStore(facts ...Fact) *Store {
	s := &Store{}
	for _, f := range facts {
		s.add(f)
	}
	return s
}

// NewDefaultStore builds the built-in table and appends facts from path when set.
func NewDefaultStore(owner, path string) (*Store, error) {
	s := NewStore(Defaults(owner)...)
	if path == "" {
		return s, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, f := range extra {
		s.add(f)
	}
	return s, nil
}

// LoadFile reads a YAML facts file.
func LoadFile(path string) ([]Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse facts file: %w", err)
	}
	for i, f := range file.Facts {
		if strings.TrimSpace(f.Key) == "" || strings.TrimSpace(f.Answer) == "" {
			return nil, fmt.Errorf("facts file entry %d: key and answer are required", i)
		}
	}
	return file.Facts, nil
}

// add keeps the first answer registered for a key.
func (s *Store) add(f Fact) {
	key := strings.ToLower(strings.TrimSpace(f.Key))
	if key == "" {
		return
	}
	for _, existing := range s.facts {
		if existing.Key == key {
			return
		}
	}
	s.facts = append(s.facts, Fact{Key: key, Answer: f.Answer})
}

// Lookup returns the canned answer for text, if any.
func (s *Store) Lookup(text string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return "", false
	}
	for _, f := range s.facts {
		if q == f.Key || strings.Contains(q, f.Key) {
			return f.Answer, true
		}
	}
	return "", false
}

// All returns the table in lookup order.
func (s *Store) All() []Fact {
	out := make([]Fact, len(s.facts))
	copy(out, s.facts)
	return out
}
