package export

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Option customises Document.
type Option func(*documentConfig)

type documentConfig struct {
	title   string
	version string
}

// WithInfo overrides the document title and version.
func WithInfo(title, version string) Option {
	return func(c *documentConfig) {
		if title != "" {
			c.title = title
		}
		if version != "" {
			c.version = version
		}
	}
}

// SchemaName is the component name used for a template's response schema.
func SchemaName(id string) string {
	return id + ".responses"
}

// SubmissionPath is the operation path documented for a template.
func SubmissionPath(id string) string {
	return fmt.Sprintf("/templates/%s/responses", id)
}

// Document bundles the response schemas of templates into an OpenAPI
// document with one submission operation per template. Templates with an
// empty id are skipped.
func Document(templates []template.FormTemplate, options ...Option) *openapi3.T {
	cfg := documentConfig{title: "Form template responses", version: "1.0.0"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: cfg.title, Version: cfg.version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}

	for _, tpl := range templates {
		if tpl.ID == "" {
			continue
		}
		name := SchemaName(tpl.ID)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", ResponseSchema(tpl))

		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+name, nil))

		op := openapi3.NewOperation()
		op.OperationID = "submit-" + tpl.ID
		op.Summary = tpl.Name
		op.Tags = []string{string(tpl.Category)}
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(204, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission accepted"),
			}),
		)

		doc.Paths.Set(SubmissionPath(tpl.ID), &openapi3.PathItem{Post: op})
	}
	return doc
}
