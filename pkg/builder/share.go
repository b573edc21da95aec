package builder

import (
	"strings"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// SharingConfig is what the author chooses when publishing a form.
type SharingConfig struct {
	RequireApproval         bool     `json:"requireApproval"`
	AllowModifications      bool     `json:"allowModifications"`
	ShowHospitalAffiliation bool     `json:"showHospitalAffiliation"`
	NotifyOnDownload        bool     `json:"notifyOnDownload"`
	PublicDescription       string   `json:"publicDescription"`
	Tags                    []string `json:"tags"`
	Category                string   `json:"category"`
}

// DefaultSharingConfig mirrors the initial state of the sharing dialog.
func DefaultSharingConfig() SharingConfig {
	return SharingConfig{
		AllowModifications:      true,
		ShowHospitalAffiliation: true,
		Category:                string(template.CategoryAssessment),
	}
}

// Template converts the question list into a single-section template.
func (s *Session) Template() template.FormTemplate {
	fields := make([]template.FormField, 0, len(s.questions))
	for _, q := range s.questions {
		fields = append(fields, questionField(q))
	}
	return template.FormTemplate{
		ID:          s.id,
		Name:        s.title,
		Description: s.description,
		Category:    s.category,
		Sections: []template.FormSection{{
			ID:     "questions",
			Title:  s.title,
			Fields: fields,
		}},
	}
}

// Share produces the community submission for the session. The result is
// validated the same way catalog entries are.
func (s *Session) Share(cfg SharingConfig, author template.Author) (template.CommunityTemplate, error) {
	base := s.Template()
	if raw := strings.TrimSpace(cfg.Category); raw != "" {
		category, ok := template.ParseCategory(raw)
		if !ok {
			return template.CommunityTemplate{}, &template.ValidationError{Issues: []template.Issue{{
				TemplateID: base.ID,
				Path:       "category",
				Message:    "unknown category " + raw,
			}}}
		}
		base.Category = category
	}
	if desc := strings.TrimSpace(cfg.PublicDescription); desc != "" {
		base.Description = desc
	}
	base.Tags = normalizeTags(cfg.Tags)
	if !cfg.ShowHospitalAffiliation {
		author.Hospital = ""
	}

	status := template.StatusPublished
	if cfg.RequireApproval {
		status = template.StatusPendingApproval
	}

	shared := template.CommunityTemplate{
		FormTemplate: base,
		Author:       author,
		Stats: template.Stats{
			DatePublished: s.now().UTC().Format(template.DateLayout),
		},
		Permissions: template.Permissions{
			RequireApproval:         cfg.RequireApproval,
			AllowModifications:      cfg.AllowModifications,
			ShowHospitalAffiliation: cfg.ShowHospitalAffiliation,
			NotifyOnDownload:        cfg.NotifyOnDownload,
		},
		Status: status,
	}
	if err := template.ValidateCommunity(shared); err != nil {
		return template.CommunityTemplate{}, err
	}
	return shared, nil
}

func questionField(q materialize.Question) template.FormField {
	field := template.FormField{
		ID:    q.ID,
		Label: q.Question,
	}
	switch q.Type {
	case materialize.QuestionScale:
		field.Type = template.FieldTypeScale
		if q.ScaleMin != nil {
			v := *q.ScaleMin
			field.Min = &v
		}
		if q.ScaleMax != nil {
			v := *q.ScaleMax
			field.Max = &v
		}
	case materialize.QuestionMultipleChoice:
		field.Type = template.FieldTypeRadio
		field.Options = append([]string(nil), q.Options...)
	default:
		field.Type = template.FieldTypeTextarea
	}
	return field
}

// normalizeTags trims entries, drops blanks and keeps the first occurrence of
// each tag.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
