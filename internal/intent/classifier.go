// Package intent maps free text to intents and extracts entities.
//
// Everything here is pure and deterministic: plain keyword and token matching
// over lower-cased text.
package intent

import (
	"strings"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Rule assigns Intent when any keyword occurs in the text.
type Rule struct {
	Intent   domain.Intent
	Keywords []string
}

// DefaultRules is the ordered rule list used by Classify.
var DefaultRules = []Rule{
	{Intent: domain.IntentCancellation, Keywords: []string{"cancel", "unsubscribe"}},
	{Intent: domain.IntentBilling, Keywords: []string{"billing", "charged", "refund", "bill"}},
	{Intent: domain.IntentUpgrade, Keywords: []string{"upgrade"}},
	{Intent: domain.IntentGetCustomer, Keywords: []string{"get customer information", "get customer", "customer information"}},
	{Intent: domain.IntentTickets, Keywords: []string{"ticket"}},
}

// Classifier evaluates an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules. Keywords are matched lower-case.
func NewClassifier(rules []Rule) *Classifier {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		normalized[i] = Rule{Intent: r.Intent, Keywords: kw}
	}
	return &Classifier{rules: normalized}
}

// Classify returns every matching intent in rule order, or {support} when
// nothing matches. The result is never empty.
func (c *Classifier) Classify(text string) domain.IntentSet {
	lower := strings.ToLower(text)
	intents := domain.IntentSet{}
	for _, r := range c.rules {
		if r.matches(lower) && !intents.Has(r.Intent) {
			intents = append(intents, r.Intent)
		}
	}
	if len(intents) == 0 {
		intents = append(intents, domain.IntentSupport)
	}
	return intents
}

func (r Rule) matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewClassifier(DefaultRules)

// Classify runs the default rules.
func Classify(text string) domain.IntentSet {
	return defaultClassifier.Classify(text)
}

// ContainsAny reports whether text contains any phrase, ignoring case.
func ContainsAny(text string, phrases ...string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
