package intent

import "strings"

// Classifier evaluates rules in order and falls back to Search.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify never fails: anything no rule claims becomes a Search for the
// text exactly as typed.
func (c *Classifier) Classify(text string) Intent {
	intent, _ := c.ClassifyWithRule(text)
	return intent
}

// ClassifyWithRule also reports the name of the rule that fired ("search" for the fallback).
func (c *Classifier) ClassifyWithRule(text string) (Intent, string) {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		if rule.Match(lower) {
			return rule.Build(lower, text), rule.Name
		}
	}
	return Search(text), string(KindSearch)
}

// Rules returns a copy of the rule chain in priority order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
