package template

import "io"

// TemplateRenderer is the seam HTML renderers execute templates through.
// Implementations write the result to every supplied writer as well as
// returning it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
