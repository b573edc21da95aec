package materialize

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Built-in rule names registered by NewRegistry.
const (
	RuleFreeResponse   = "free-response"
	RuleScale          = "scale"
	RuleMultipleChoice = "multiple-choice"
)

// Matcher decides whether a rule handles the supplied field.
type Matcher func(field template.FormField) bool

// Builder produces the question body for a field. The caller assigns ID.
type Builder func(field template.FormField) Question

type rule struct {
	name     string
	priority int
	match    Matcher
	build    Builder
	order    int
}

// Registry selects question builders for fields. Higher priority wins; ties
// fall back to registration order. An empty registry never resolves a field.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in field type rules.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry returns a registry without built-ins.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule. Blank names and nil functions are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher, build Builder) {
	if r == nil || matcher == nil || build == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		build:    build,
		order:    len(r.rules),
	})
}

// Resolve returns the rule name and builder for a field.
func (r *Registry) Resolve(field template.FormField) (string, Builder, bool) {
	if r == nil {
		return "", nil, false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", nil, false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, entry.build, true
		}
	}
	return "", nil, false
}

// Names lists registered rule names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rules))
	for _, entry := range r.rules {
		out = append(out, entry.name)
	}
	return out
}

func typeIn(types ...template.FieldType) Matcher {
	return func(field template.FormField) bool {
		for _, t := range types {
			if field.Type == t {
				return true
			}
		}
		return false
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(RuleScale, 30, typeIn(template.FieldTypeScale), buildScale)

	r.Register(RuleMultipleChoice, 20, typeIn(
		template.FieldTypeSelect,
		template.FieldTypeRadio,
		template.FieldTypeMultiselect,
		template.FieldTypeCheckbox,
	), buildMultipleChoice)

	r.Register(RuleFreeResponse, 10, typeIn(
		template.FieldTypeText,
		template.FieldTypeTextarea,
		template.FieldTypeEmail,
		template.FieldTypePhone,
		template.FieldTypeDate,
	), buildFreeResponse)
}

func buildFreeResponse(field template.FormField) Question {
	return Question{Type: QuestionFreeResponse, Question: field.Label}
}

func buildScale(field template.FormField) Question {
	q := Question{
		Type:     QuestionScale,
		Question: field.Label,
		ScaleMin: intPtr(DefaultScaleMin),
		ScaleMax: intPtr(DefaultScaleMax),
	}
	if field.Min != nil {
		q.ScaleMin = intPtr(*field.Min)
	}
	if field.Max != nil {
		q.ScaleMax = intPtr(*field.Max)
	}
	return q
}

func buildMultipleChoice(field template.FormField) Question {
	options := DefaultOptions()
	if len(field.Options) > 0 {
		options = append([]string(nil), field.Options...)
	}
	return Question{
		Type:     QuestionMultipleChoice,
		Question: field.Label,
		Options:  options,
	}
}
