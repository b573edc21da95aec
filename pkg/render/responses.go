package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Responses normalises raw submitted values (form posts, query strings, CLI
// assignments) into the response map previews consume. Keys that do not name
// a field of tpl are dropped. Multi-valued field types keep every non-empty
// value; all other types keep the first. Scale answers become ints and number
// answers float64; values that do not parse are kept as strings.
func Responses(tpl template.FormTemplate, raw map[string][]string) map[string]any {
	out := make(map[string]any)
	if len(raw) == 0 {
		return out
	}
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			values, ok := raw[field.ID]
			if !ok {
				continue
			}
			clean := cleanValues(values)
			if len(clean) == 0 {
				continue
			}
			if field.Type.MultiValued() {
				out[field.ID] = clean
				continue
			}
			out[field.ID] = coerce(field.Type, clean[0])
		}
	}
	return out
}

// ParseAssignments splits "key=value" pairs. Repeated keys accumulate in
// order.
func ParseAssignments(pairs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("render: invalid response %q, want key=value", pair)
		}
		out[key] = append(out[key], value)
	}
	return out, nil
}

// SortedResponseKeys returns the keys of responses in lexical order.
func SortedResponseKeys(responses map[string]any) []string {
	keys := make([]string, 0, len(responses))
	for key := range responses {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func coerce(t template.FieldType, value string) any {
	switch t {
	case template.FieldTypeScale:
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case template.FieldTypeNumber:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
