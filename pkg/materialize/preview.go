package materialize

import (
	"github.com/goliatone/go-formtemplate/pkg/template"
	"github.com/goliatone/go-formtemplate/pkg/visibility"
)

// RenderableField is a template field positioned for preview with its
// computed visibility.
type RenderableField struct {
	ID           string             `json:"id"`
	SectionIndex int                `json:"sectionIndex"`
	FieldIndex   int                `json:"fieldIndex"`
	SectionID    string             `json:"sectionId"`
	SectionTitle string             `json:"sectionTitle"`
	Field        template.FormField `json:"field"`
	Visible      bool               `json:"visible"`
	Response     any                `json:"response,omitempty"`
}

// RenderPreview returns every field of t in declared order. responses is
// read, never written.
func (m *Materializer) RenderPreview(t template.FormTemplate, responses map[string]any) []RenderableField {
	ctx := visibility.Context{Responses: responses}
	out := make([]RenderableField, 0, t.FieldCount())
	for si, section := range t.Sections {
		for fi, field := range section.Fields {
			rf := RenderableField{
				ID:           QuestionID(si, fi),
				SectionIndex: si,
				FieldIndex:   fi,
				SectionID:    section.ID,
				SectionTitle: section.Title,
				Field:        field.Clone(),
				Visible:      m.evaluator.Eval(field, ctx),
			}
			if value, ok := responses[field.ID]; ok {
				rf.Response = copyResponse(value)
			}
			out = append(out, rf)
		}
	}
	return out
}

// VisibleFields filters a preview down to the fields currently shown.
func VisibleFields(fields []RenderableField) []RenderableField {
	out := make([]RenderableField, 0, len(fields))
	for _, f := range fields {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

func copyResponse(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		return append([]any(nil), typed...)
	default:
		return value
	}
}
