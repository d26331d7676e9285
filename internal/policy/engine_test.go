package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpdate(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields map[string]any
		want   []string
	}{
		{"email allowed", map[string]any{"email": "new@email.com"}, nil},
		{"status allowed", map[string]any{"status": "disabled", "phone": "555-0100"}, nil},
		{"empty set", map[string]any{}, []string{"no fields to update"}},
		{"unknown field", map[string]any{"id": "7"}, []string{`field "id" is not updatable`}},
		{"bad status", map[string]any{"status": "banned"}, []string{`invalid status "banned"`}},
		{"bad email", map[string]any{"email": "nope"}, []string{`invalid email "nope"`}},
		{"non-string", map[string]any{"phone": 5550100}, []string{`field "phone" must be a string`}},
		{"blank name", map[string]any{"name": "  "}, []string{"name must not be empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CheckUpdate(ctx, tt.fields)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckUpdateReportsEveryViolation(t *testing.T) {
	got, err := MustDefault().CheckUpdate(context.Background(), map[string]any{
		"status": "banned",
		"secret": "x",
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNewEngineRejectsBrokenPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package customer_update\nviolations[msg] {")
	assert.Error(t, err)
}
