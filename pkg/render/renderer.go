package render

import (
	"context"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Renderer turns a template preview into bytes (HTML, plain text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tpl template.FormTemplate, options RenderOptions) ([]byte, error)
}
