package render

import (
	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/visibility"
)

// RenderOptions carry per-request preview state. Responses belongs to the
// caller and is never modified by renderers.
type RenderOptions struct {
	// Responses pre-populates controls and drives conditional visibility.
	Responses map[string]any
	// Evaluator overrides the default conditional rule evaluator.
	Evaluator visibility.Evaluator
	// IncludeHidden keeps fields whose conditions are not met in the output,
	// marked as hidden, instead of dropping them.
	IncludeHidden bool
}

// materializer returns the preview engine configured for these options.
func (o RenderOptions) materializer() *materialize.Materializer {
	if o.Evaluator == nil {
		return materialize.New()
	}
	return materialize.New(materialize.WithEvaluator(o.Evaluator))
}
