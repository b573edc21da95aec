package tui

import "github.com/goliatone/go-formtemplate/pkg/visibility"

// OutputFormat controls how collected responses are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by field id.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits "label: value" lines.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes.
type Theme struct {
	SectionPrefix string
	ErrorPrefix   string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithEvaluator replaces the visibility evaluator consulted between prompts.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(r *Renderer) {
		if eval != nil {
			r.evaluator = eval
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
