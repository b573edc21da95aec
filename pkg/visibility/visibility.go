package visibility

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Evaluator determines whether a field should be visible given the current
// responses.
type Evaluator interface {
	Eval(field template.FormField, ctx Context) bool
}

// Context provides inputs to an Evaluator. Responses is keyed by field id and
// belongs to the caller; evaluators must treat it as read-only. Extras lets
// callers inject context such as roles or feature flags for custom evaluators.
type Context struct {
	Responses map[string]any
	Extras    map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field template.FormField, ctx Context) bool

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field template.FormField, ctx Context) bool {
	return fn(field, ctx)
}

// Conditional evaluates template.Conditional rules:
//   - no rule: visible
//   - dependency without a response: hidden
//   - single value: response must equal it
//   - list: response must be one of its values
//
// Multi-valued responses ([]string, []any) match when any element matches.
type Conditional struct{}

// NewConditional returns the default rule evaluator.
func NewConditional() Conditional { return Conditional{} }

// Eval implements Evaluator.
func (Conditional) Eval(field template.FormField, ctx Context) bool {
	rule := field.Conditional
	if rule == nil {
		return true
	}
	value, ok := ctx.Responses[strings.TrimSpace(rule.DependsOn)]
	if !ok || value == nil {
		return false
	}
	return matches(rule.ShowIf, value)
}

func matches(rule template.ShowIf, value any) bool {
	switch typed := value.(type) {
	case string:
		return rule.Matches(typed)
	case []string:
		for _, v := range typed {
			if rule.Matches(v) {
				return true
			}
		}
		return false
	case []any:
		for _, v := range typed {
			if v != nil && matches(rule, v) {
				return true
			}
		}
		return false
	case fmt.Stringer:
		return rule.Matches(typed.String())
	case bool, int, int64, float64:
		return rule.Matches(fmt.Sprint(typed))
	default:
		return false
	}
}
