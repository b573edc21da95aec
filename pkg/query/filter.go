package query

import (
	"strings"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// All disables a category or specialty constraint.
const All = "all"

// Filter combines a free-text query with exact category and specialty
// constraints. Zero values and All match everything; constraints are ANDed.
type Filter struct {
	Query     string `json:"query,omitempty" query:"q"`
	Category  string `json:"category,omitempty" query:"category"`
	Specialty string `json:"specialty,omitempty" query:"specialty"`
}

// Active reports whether any constraint would narrow the results.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || !unconstrained(f.Category) || !unconstrained(f.Specialty)
}

// Matches reports whether a single listing satisfies the filter.
func (f Filter) Matches(item template.Listing) bool {
	summary := item.Summary()
	if !unconstrained(f.Category) && string(summary.Category) != strings.TrimSpace(f.Category) {
		return false
	}
	if !unconstrained(f.Specialty) && summary.Specialty != strings.TrimSpace(f.Specialty) {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Query))
	if needle == "" {
		return true
	}
	for _, text := range item.SearchText() {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

// Search returns the items that satisfy filter in their original order.
func Search[T template.Listing](items []T, filter Filter) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func unconstrained(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == All
}
