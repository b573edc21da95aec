package materialize

import (
	"github.com/goliatone/go-formtemplate/pkg/template"
	"github.com/goliatone/go-formtemplate/pkg/visibility"
)

// UnmappedPolicy controls fields no registry rule claims.
type UnmappedPolicy int

const (
	// SkipUnmapped drops the field from the question list.
	SkipUnmapped UnmappedPolicy = iota
	// FallbackFreeResponse turns the field into a free-response question.
	FallbackFreeResponse
)

// Option customises a Materializer.
type Option func(*Materializer)

// WithRegistry replaces the field rule registry.
func WithRegistry(reg *Registry) Option {
	return func(m *Materializer) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// WithUnmappedPolicy selects how unmapped field types are handled.
func WithUnmappedPolicy(policy UnmappedPolicy) Option {
	return func(m *Materializer) {
		m.policy = policy
	}
}

// WithEvaluator replaces the visibility evaluator used by RenderPreview.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(m *Materializer) {
		if eval != nil {
			m.evaluator = eval
		}
	}
}

// Materializer holds only configuration; calls are safe to run concurrently.
type Materializer struct {
	registry  *Registry
	policy    UnmappedPolicy
	evaluator visibility.Evaluator
}

// New constructs a Materializer with the built-in registry.
func New(options ...Option) *Materializer {
	m := &Materializer{
		registry:  NewRegistry(),
		policy:    SkipUnmapped,
		evaluator: visibility.NewConditional(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var defaultMaterializer = New()

// Materialize converts t with the default configuration.
func Materialize(t template.FormTemplate) []Question {
	return defaultMaterializer.Materialize(t)
}

// RenderPreview evaluates visibility with the default configuration.
func RenderPreview(t template.FormTemplate, responses map[string]any) []RenderableField {
	return defaultMaterializer.RenderPreview(t, responses)
}

// Materialize walks sections then fields in declared order and emits one
// question per mappable field. The result is empty, never nil, when nothing
// maps.
func (m *Materializer) Materialize(t template.FormTemplate) []Question {
	out := make([]Question, 0, t.FieldCount())
	for si, section := range t.Sections {
		for fi, field := range section.Fields {
			q, ok := m.question(field)
			if !ok {
				continue
			}
			q.ID = QuestionID(si, fi)
			out = append(out, q)
		}
	}
	return out
}

func (m *Materializer) question(field template.FormField) (Question, bool) {
	if _, build, ok := m.registry.Resolve(field); ok {
		return build(field), true
	}
	if m.policy == FallbackFreeResponse {
		return buildFreeResponse(field), true
	}
	return Question{}, false
}
