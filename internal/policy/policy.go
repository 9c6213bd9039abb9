// Package policy evaluates expression-driven rules around the settlement
// path: whether a failed settle may be retried, and when a transaction must
// be escalated for manual reconciliation.
package policy

import (
	"fmt"
	"sort"

	"github.com/Knetic/govaluate"
)

// Decision is the outcome of a rule evaluation.
type Decision struct {
	AllowRetry     bool
	EscalateManual bool
	Reason         string
}

// Rule pairs a govaluate expression with the decision it produces when the
// expression evaluates to true. Lower Priority wins.
type Rule struct {
	ID         string
	Expression string
	Priority   int
	Decision   Decision
}

type compiledRule struct {
	rule       Rule
	expression *govaluate.EvaluableExpression
}

// Enforcer holds compiled rules, evaluated first-match in priority order.
type Enforcer struct {
	rules []compiledRule
}

// DefaultSettleRules is the stock policy: retry settle up to three
// attempts, then escalate for manual reconciliation.
func DefaultSettleRules() []Rule {
	return []Rule{
		{
			ID:         "settle_retry_budget",
			Expression: "!settle_success && attempt_number < 3",
			Priority:   1,
			Decision:   Decision{AllowRetry: true, Reason: "settle retry budget remaining"},
		},
		{
			ID:         "settle_exhausted_escalate",
			Expression: "!settle_success && attempt_number >= 3",
			Priority:   2,
			Decision:   Decision{AllowRetry: false, EscalateManual: true, Reason: "settle retries exhausted"},
		},
	}
}

// NewEnforcer compiles the rules. An empty expression or a compile failure
// is a configuration error.
func NewEnforcer(rules []Rule) (*Enforcer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Expression == "" {
			return nil, fmt.Errorf("policy rule %q has an empty expression", r.ID)
		}
		expr, err := govaluate.NewEvaluableExpression(r.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %q: %w", r.ID, err)
		}
		compiled = append(compiled, compiledRule{rule: r, expression: expr})
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].rule.Priority < compiled[j].rule.Priority
	})
	return &Enforcer{rules: compiled}, nil
}

// Parameters feeds a settle outcome into the rule expressions.
type Parameters struct {
	AttemptNumber int
	SettleSuccess bool
	Amount        int64
	Bank          string
}

// Evaluate returns the decision of the first matching rule. With no match
// the default is no retry, no escalation.
func (e *Enforcer) Evaluate(p Parameters) (Decision, error) {
	params := map[string]interface{}{
		"attempt_number": p.AttemptNumber,
		"settle_success": p.SettleSuccess,
		"amount":         p.Amount,
		"bank":           p.Bank,
	}
	for _, cr := range e.rules {
		result, err := cr.expression.Evaluate(params)
		if err != nil {
			return Decision{}, fmt.Errorf("evaluating rule %q: %w", cr.rule.ID, err)
		}
		matched, ok := result.(bool)
		if !ok {
			return Decision{}, fmt.Errorf("rule %q did not evaluate to a boolean", cr.rule.ID)
		}
		if matched {
			return cr.rule.Decision, nil
		}
	}
	return Decision{}, nil
}
