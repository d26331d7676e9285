// Package policy evaluates customer update requests against a Rego policy.
package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine for customer updates.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the given policy content. The policy must define the
// set rule data.customer_update.violations.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.customer_update.violations"),
		rego.Module("customer_update.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// MustDefault returns an engine for DefaultPolicy and panics if it does not compile.
func MustDefault() *Engine {
	e, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		panic(err)
	}
	return e
}

// CheckUpdate returns the policy violations for an update of fields.
// An empty result means the update is allowed.
func (e *Engine) CheckUpdate(ctx context.Context, fields map[string]any) ([]string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	input := map[string]any{"fields": fields}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return []string{}, nil
	}

	raw, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	violations := make([]string, 0, len(raw))
	for _, v := range raw {
		violations = append(violations, fmt.Sprint(v))
	}
	sort.Strings(violations)
	return violations, nil
}

// DefaultPolicy restricts updates to the known customer columns.
const DefaultPolicy = `
package customer_update

updatable := {"name", "email", "phone", "status"}

statuses := {"active", "disabled"}

violations[msg] {
	count(input.fields) == 0
	msg := "no fields to update"
}

violations[msg] {
	field := object.keys(input.fields)[_]
	not updatable[field]
	msg := sprintf("field %q is not updatable", [field])
}

violations[msg] {
	val := input.fields[field]
	updatable[field]
	not is_string(val)
	msg := sprintf("field %q must be a string", [field])
}

violations[msg] {
	status := input.fields.status
	is_string(status)
	not statuses[status]
	msg := sprintf("invalid status %q", [status])
}

violations[msg] {
	email := input.fields.email
	is_string(email)
	not regex.match("^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$", email)
	msg := sprintf("invalid email %q", [email])
}

violations[msg] {
	name := input.fields.name
	is_string(name)
	trim_space(name) == ""
	msg := "name must not be empty"
}
`
