package intent

import (
	"regexp"
	"strconv"
	"strings"
)

const tokenPunctuation = `.,;:!?#()[]{}<>"'`

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Entities are the values pulled out of a request.
type Entities struct {
	CustomerID *int64
	NewEmail   string
}

// Extract returns the customer id and email found in text.
func Extract(text string) Entities {
	var e Entities
	if id, ok := ExtractCustomerID(text); ok {
		e.CustomerID = &id
	}
	e.NewEmail = ExtractEmail(text)
	return e
}

// ExtractCustomerID returns the first whitespace token that is an unsigned
// integer once surrounding punctuation is trimmed.
func ExtractCustomerID(text string) (int64, bool) {
	for _, tok := range strings.Fields(text) {
		if id, ok := parseID(tok); ok {
			return id, true
		}
	}
	return 0, false
}

// fillers may sit between a customer marker and the number it labels.
var fillers = map[string]bool{
	"":       true,
	"id":     true,
	"is":     true,
	"number": true,
	"no":     true,
	"num":    true,
	"=":      true,
}

// ExtractMarkedCustomerID finds an integer introduced by "id" or "customer",
// as in "customer 12345", "ID: 5" or "my customer ID is 12345".
func ExtractMarkedCustomerID(text string) (int64, bool) {
	tokens := strings.Fields(strings.ToLower(text))
	for i, tok := range tokens {
		marker := strings.Trim(tok, tokenPunctuation)
		if marker != "id" && marker != "customer" {
			continue
		}
		for _, next := range tokens[i+1:] {
			if id, ok := parseID(next); ok {
				return id, true
			}
			if !fillers[strings.Trim(next, tokenPunctuation)] {
				break
			}
		}
	}
	return 0, false
}

// ExtractEmail returns the first token that looks like an email address.
func ExtractEmail(text string) string {
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, tokenPunctuation)
		if emailPattern.MatchString(tok) {
			return tok
		}
	}
	return ""
}

func parseID(tok string) (int64, bool) {
	tok = strings.Trim(tok, tokenPunctuation)
	if tok == "" {
		return 0, false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
