package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCustomerID(t *testing.T) {
	tests := []struct {
		text   string
		want   int64
		wantOK bool
	}{
		{"Get customer information for ID 5", 5, true},
		{"I'm customer 12345 and need help", 12345, true},
		{"show my ticket history for 12345", 12345, true},
		{"my id is 42.", 42, true},
		{"order #77, please", 77, true},
		{"no numbers here", 0, false},
		{"version 1.2 is out", 0, false},
		{"balance is -5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractCustomerID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCustomerIDIdempotent(t *testing.T) {
	text := "Customer 5 asked about ticket 9"
	first, ok1 := ExtractCustomerID(text)
	second, ok2 := ExtractCustomerID(text)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(5), first)
}

func TestExtractMarkedCustomerID(t *testing.T) {
	tests := []struct {
		text   string
		want   int64
		wantOK bool
	}{
		{"My customer ID is 12345", 12345, true},
		{"I'm customer 12345", 12345, true},
		{"ID: 5", 5, true},
		{"Customer ID number 7, thanks", 7, true},
		{"I want 3 refunds", 0, false},
		{"customer service is slow since 2019", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractMarkedCustomerID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "new@email.com", ExtractEmail("Update my email to new@email.com and show history"))
	assert.Equal(t, "evan.new@example.com", ExtractEmail("change it to evan.new@example.com."))
	assert.Equal(t, "", ExtractEmail("my email is broken"))
}

func TestExtract(t *testing.T) {
	e := Extract("Update my email to new@email.com for 12345")
	if assert.NotNil(t, e.CustomerID) {
		assert.Equal(t, int64(12345), *e.CustomerID)
	}
	assert.Equal(t, "new@email.com", e.NewEmail)

	assert.Nil(t, Extract("hello").CustomerID)
}
