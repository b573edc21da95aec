package render

import (
	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Section groups the renderable fields of one template section.
type Section struct {
	Index       int                           `json:"index"`
	ID          string                        `json:"id"`
	Title       string                        `json:"title"`
	Description string                        `json:"description,omitempty"`
	Fields      []materialize.RenderableField `json:"fields"`
}

// Preview evaluates tpl under options and groups the result by section.
// Sections left without fields are omitted unless IncludeHidden is set.
func Preview(tpl template.FormTemplate, options RenderOptions) []Section {
	fields := options.materializer().RenderPreview(tpl, options.Responses)

	sections := make([]Section, 0, len(tpl.Sections))
	for si, src := range tpl.Sections {
		sections = append(sections, Section{
			Index:       si,
			ID:          src.ID,
			Title:       src.Title,
			Description: src.Description,
		})
	}
	for _, field := range fields {
		if !field.Visible && !options.IncludeHidden {
			continue
		}
		section := &sections[field.SectionIndex]
		section.Fields = append(section.Fields, field)
	}

	out := sections[:0]
	for _, section := range sections {
		if len(section.Fields) == 0 && !options.IncludeHidden {
			continue
		}
		out = append(out, section)
	}
	return out
}
