// Package policy evaluates question heuristics through an embedded rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Verdicts produced by the question policy.
const (
	VerdictOK      = "ok"
	VerdictTooLong = "too_long"
	VerdictUnclear = "unclear"
)

// Engine is the prepared question policy.
type Engine struct {
	query  rego.PreparedEvalQuery
	maxLen int
}

// NewEngine prepares the given policy content for evaluation. maxLen is the
// question length cap handed to the policy as input.
func NewEngine(ctx context.Context, policyContent string, maxLen int) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat.question.verdict"),
		rego.Module("question_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query, maxLen: maxLen}, nil
}

// CheckQuestion evaluates the trimmed question and returns a verdict.
func (e *Engine) CheckQuestion(ctx context.Context, question string) (string, error) {
	input := map[string]interface{}{
		"question": question,
		"max_len":  e.maxLen,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so this should not happen.
		return VerdictOK, nil
	}

	if verdict, ok := results[0].Expressions[0].Value.(string); ok {
		return verdict, nil
	}
	return VerdictOK, nil
}

// DefaultPolicy rejects over-long questions and pure punctuation noise.
const DefaultPolicy = `
package chat.question

default verdict := "ok"

verdict := "too_long" if {
	count(input.question) > input.max_len
}

verdict := "unclear" if {
	count(input.question) <= input.max_len
	not regex.match(` + "`[\\p{L}\\p{N}]`" + `, input.question)
}
`
