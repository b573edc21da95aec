// Package text renders a plain outline of a template preview, suited to
// terminals and logs.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Name is the registry name of the text renderer.
const Name = "text"

// Renderer writes the outline.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New() *Renderer { return &Renderer{} }

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the template heading followed by each section and its fields.
// Responses are shown under the field they answer.
func (r *Renderer) Render(ctx context.Context, tpl template.FormTemplate, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(tpl.Name))
	b.WriteByte('\n')
	if desc := strings.TrimSpace(tpl.Description); desc != "" {
		b.WriteString(desc)
		b.WriteByte('\n')
	}

	for _, section := range render.Preview(tpl, options) {
		b.WriteByte('\n')
		title := strings.TrimSpace(section.Title)
		if title == "" {
			title = section.ID
		}
		fmt.Fprintf(&b, "## %s\n", title)
		if desc := strings.TrimSpace(section.Description); desc != "" {
			b.WriteString(desc)
			b.WriteByte('\n')
		}
		for _, field := range section.Fields {
			writeField(&b, field)
		}
	}
	return []byte(b.String()), nil
}

func writeField(b *strings.Builder, rf materialize.RenderableField) {
	field := rf.Field
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	fmt.Fprintf(b, "- [%s] %s (%s)", rf.ID, label, describe(field))
	if !rf.Visible {
		b.WriteString(" hidden")
	}
	b.WriteByte('\n')

	if field.Conditional != nil {
		fmt.Fprintf(b, "  when %s is %s\n", field.Conditional.DependsOn, strings.Join(field.Conditional.ShowIf.Values, " or "))
	}
	if field.Type.HasOptions() {
		options := field.Options
		if len(options) == 0 {
			options = materialize.DefaultOptions()
		}
		fmt.Fprintf(b, "  options: %s\n", strings.Join(options, " | "))
	}
	if rf.Response != nil {
		fmt.Fprintf(b, "  answer: %s\n", answer(rf.Response))
	}
}

func describe(field template.FormField) string {
	if field.Type != template.FieldTypeScale {
		return string(field.Type)
	}
	lo, hi := materialize.DefaultScaleMin, materialize.DefaultScaleMax
	if field.Min != nil {
		lo = *field.Min
	}
	if field.Max != nil {
		hi = *field.Max
	}
	return fmt.Sprintf("scale %d-%d", lo, hi)
}

func answer(value any) string {
	switch typed := value.(type) {
	case []string:
		return strings.Join(typed, ", ")
	case []any:
		parts := make([]string, 0, len(typed))
		for _, v := range typed {
			parts = append(parts, fmt.Sprint(v))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(typed)
	}
}
