package template

import (
	"strings"
	"time"
)

// FieldType enumerates the input kinds a template field can declare.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeNumber      FieldType = "number"
	FieldTypeDate        FieldType = "date"
	FieldTypeScale       FieldType = "scale"
	FieldTypePhone       FieldType = "phone"
	FieldTypeEmail       FieldType = "email"
)

// Known reports whether the field type is one of the declared enum values.
// Unknown types are tolerated by the model; consumers decide how to treat them.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeMultiselect,
		FieldTypeRadio, FieldTypeCheckbox, FieldTypeNumber, FieldTypeDate,
		FieldTypeScale, FieldTypePhone, FieldTypeEmail:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the field type carries an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeMultiselect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// MultiValued reports whether a response to this field type is a list.
func (t FieldType) MultiValued() bool {
	return t == FieldTypeMultiselect || t == FieldTypeCheckbox
}

// Category groups templates by clinical workflow stage.
type Category string

const (
	CategoryIntake     Category = "intake"
	CategoryAssessment Category = "assessment"
	CategoryFollowUp   Category = "follow-up"
	CategoryScreening  Category = "screening"
	CategorySpecialty  Category = "specialty"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryIntake, CategoryAssessment, CategoryFollowUp, CategoryScreening, CategorySpecialty}
}

// ParseCategory resolves a category name, returning false for unknown values.
func ParseCategory(raw string) (Category, bool) {
	candidate := Category(strings.TrimSpace(raw))
	for _, known := range Categories() {
		if known == candidate {
			return known, true
		}
	}
	return "", false
}

// Status tracks the publication state of a community template.
type Status string

const (
	StatusPublished       Status = "published"
	StatusPendingApproval Status = "pending_approval"
	StatusDraft           Status = "draft"
)

// FormField is a single input definition inside a section.
type FormField struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Type        FieldType    `json:"type" yaml:"type" validate:"required"`
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *int         `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *int         `json:"max,omitempty" yaml:"max,omitempty"`
	Validation  string       `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// FormSection is a named, ordered group of fields.
type FormSection struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FormField `json:"fields" yaml:"fields" validate:"dive"`
}

// FormTemplate is the root definition of a clinical form.
type FormTemplate struct {
	ID            string        `json:"id" yaml:"id" validate:"required"`
	Name          string        `json:"name" yaml:"name" validate:"required"`
	Description   string        `json:"description" yaml:"description"`
	Specialty     string        `json:"specialty" yaml:"specialty"`
	Category      Category      `json:"category" yaml:"category" validate:"required,oneof=intake assessment follow-up screening specialty"`
	EstimatedTime string        `json:"estimatedTime" yaml:"estimatedTime"`
	Tags          []string      `json:"tags" yaml:"tags"`
	Sections      []FormSection `json:"sections" yaml:"sections" validate:"dive"`
}

// FieldCount returns the number of fields across all sections.
func (t FormTemplate) FieldCount() int {
	total := 0
	for _, section := range t.Sections {
		total += len(section.Fields)
	}
	return total
}

// Author identifies the clinician who submitted a community template.
type Author struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Title    string `json:"title" yaml:"title"`
	Hospital string `json:"hospital" yaml:"hospital"`
	Verified bool   `json:"verified" yaml:"verified"`
}

// Stats holds marketplace popularity figures.
type Stats struct {
	Downloads     int     `json:"downloads" yaml:"downloads" validate:"gte=0"`
	Rating        float64 `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int     `json:"reviewCount" yaml:"reviewCount" validate:"gte=0"`
	DatePublished string  `json:"datePublished" yaml:"datePublished" validate:"required,datetime=2006-01-02"`
}

// DateLayout is the layout of Stats.DatePublished.
const DateLayout = "2006-01-02"

// Published parses DatePublished.
func (s Stats) Published() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s.DatePublished))
}

// Permissions captures the sharing preferences chosen by the author.
type Permissions struct {
	RequireApproval         bool `json:"requireApproval" yaml:"requireApproval"`
	AllowModifications      bool `json:"allowModifications" yaml:"allowModifications"`
	ShowHospitalAffiliation bool `json:"showHospitalAffiliation" yaml:"showHospitalAffiliation"`
	NotifyOnDownload        bool `json:"notifyOnDownload" yaml:"notifyOnDownload"`
}

// CommunityTemplate is a FormTemplate submitted by a third party. It embeds
// the base template so every FormTemplate consumer accepts it through the
// embedded value.
type CommunityTemplate struct {
	FormTemplate `yaml:",inline"`
	Author       Author      `json:"author" yaml:"author"`
	Stats        Stats       `json:"stats" yaml:"stats"`
	Permissions  Permissions `json:"permissions" yaml:"permissions"`
	Status       Status      `json:"status" yaml:"status" validate:"required,oneof=published pending_approval draft"`
}
