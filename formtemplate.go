// Package formtemplate is the top-level entry point for the clinical form
// template engine: a validated catalog of templates, search and sort over it,
// and materialization into builder questions and previews.
package formtemplate

import (
	"context"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/query"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// FormTemplate aliases template.FormTemplate.
type FormTemplate = template.FormTemplate

// CommunityTemplate aliases template.CommunityTemplate.
type CommunityTemplate = template.CommunityTemplate

// Question aliases materialize.Question.
type Question = materialize.Question

// RenderableField aliases materialize.RenderableField.
type RenderableField = materialize.RenderableField

// Filter aliases query.Filter.
type Filter = query.Filter

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*catalog.Catalog, error) {
	return catalog.Default()
}

// Search filters built-in templates of the embedded catalog.
func Search(f Filter) ([]FormTemplate, error) {
	c, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	return query.Search(c.ListTemplates(), f), nil
}

// BrowseCommunity filters and sorts community templates of the embedded
// catalog. An empty sort key orders by popularity.
func BrowseCommunity(f Filter, sortKey string) ([]CommunityTemplate, error) {
	c, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	key, err := query.ParseSortKey(sortKey)
	if err != nil {
		return nil, err
	}
	return query.Browse(c.ListCommunityTemplates(), f, key)
}

// Materialize converts a template into builder questions.
func Materialize(t FormTemplate) []Question {
	return materialize.Materialize(t)
}

// RenderPreview evaluates every field of t against responses.
func RenderPreview(t FormTemplate, responses map[string]any) []RenderableField {
	return materialize.RenderPreview(t, responses)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders a catalog template with the html renderer.
func GenerateHTML(ctx context.Context, templateID string, options RenderOptions, opts ...orchestrator.Option) ([]byte, error) {
	out, err := orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
		TemplateID:    templateID,
		Renderer:      "html",
		RenderOptions: options,
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}
