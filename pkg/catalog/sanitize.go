package catalog

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from community-submitted text and returns it as
// plain text. Entities produced by the policy are decoded again so values
// such as "OB/GYN & Women's Health" survive untouched.
func sanitizeText(raw string) string {
	if raw == "" || !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	cleaned := textSanitizer().Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// sanitizeCommunity applies fn to every free-text value of a community
// submission. Identifiers and option values used by conditionals are left
// alone so references keep resolving.
func sanitizeCommunity(tpl template.CommunityTemplate, fn func(string) string) template.CommunityTemplate {
	out := tpl.Clone()
	out.Name = fn(out.Name)
	out.Description = fn(out.Description)
	out.Specialty = fn(out.Specialty)
	out.Author.Name = fn(out.Author.Name)
	out.Author.Title = fn(out.Author.Title)
	out.Author.Hospital = fn(out.Author.Hospital)
	for i := range out.Tags {
		out.Tags[i] = fn(out.Tags[i])
	}
	for i := range out.Sections {
		section := &out.Sections[i]
		section.Title = fn(section.Title)
		section.Description = fn(section.Description)
		for j := range section.Fields {
			field := &section.Fields[j]
			field.Label = fn(field.Label)
			field.Placeholder = fn(field.Placeholder)
		}
	}
	return out
}
