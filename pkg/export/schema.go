package export

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

const (
	// ExtensionDependsOn records the controlling field of a conditional field.
	ExtensionDependsOn = "x-depends-on"
	// ExtensionShowIf records the values that reveal a conditional field.
	ExtensionShowIf = "x-show-if"
	// ExtensionSection records the section a field belongs to.
	ExtensionSection = "x-section"
)

// ResponseSchema builds the object schema of a submission for tpl. Properties
// are keyed by field id. Only unconditional required fields are listed as
// required, because a conditional field may legitimately be absent. A repeated
// id keeps its first declaration; catalog validation rejects such templates.
func ResponseSchema(tpl template.FormTemplate) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = tpl.Name
	schema.Description = tpl.Description

	var required []string
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			if strings.TrimSpace(field.ID) == "" {
				continue
			}
			if _, exists := schema.Properties[field.ID]; exists {
				continue
			}
			prop := FieldSchema(field)
			if prop.Extensions == nil {
				prop.Extensions = map[string]any{}
			}
			prop.Extensions[ExtensionSection] = section.ID
			schema.WithProperty(field.ID, prop)
			if field.Required && field.Conditional == nil {
				required = append(required, field.ID)
			}
		}
	}
	schema.Required = required
	return schema
}

// FieldSchema describes a single field value.
func FieldSchema(field template.FormField) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case template.FieldTypeEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case template.FieldTypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case template.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case template.FieldTypeScale:
		lo, hi := materialize.DefaultScaleMin, materialize.DefaultScaleMax
		if field.Min != nil {
			lo = *field.Min
		}
		if field.Max != nil {
			hi = *field.Max
		}
		schema = openapi3.NewIntegerSchema().WithMin(float64(lo)).WithMax(float64(hi))
	case template.FieldTypeSelect, template.FieldTypeRadio:
		schema = openapi3.NewStringSchema().WithEnum(enumValues(field)...)
	case template.FieldTypeMultiselect, template.FieldTypeCheckbox:
		items := openapi3.NewStringSchema().WithEnum(enumValues(field)...)
		schema = openapi3.NewArraySchema().WithItems(items).WithUniqueItems(true)
	default:
		schema = openapi3.NewStringSchema()
	}

	schema.Title = field.Label
	schema.Description = field.Placeholder
	if field.Conditional != nil {
		values := make([]any, 0, len(field.Conditional.ShowIf.Values))
		for _, v := range field.Conditional.ShowIf.Values {
			values = append(values, v)
		}
		schema.Extensions = map[string]any{
			ExtensionDependsOn: field.Conditional.DependsOn,
			ExtensionShowIf:    values,
		}
	}
	return schema
}

func enumValues(field template.FormField) []any {
	options := field.Options
	if len(options) == 0 {
		options = materialize.DefaultOptions()
	}
	out := make([]any, 0, len(options))
	for _, opt := range options {
		out = append(out, opt)
	}
	return out
}
