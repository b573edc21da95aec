package template_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

func smokingTemplate() template.FormTemplate {
	return template.FormTemplate{
		ID:       "social",
		Name:     "Social History",
		Category: template.CategoryIntake,
		Sections: []template.FormSection{
			{
				ID: "habits",
				Fields: []template.FormField{
					{ID: "smoking", Type: template.FieldTypeRadio, Label: "Do you smoke?", Options: []string{"Never", "Former smoker", "Current smoker"}},
					{ID: "smokingDetails", Type: template.FieldTypeText, Label: "Details", Conditional: &template.Conditional{
						DependsOn: "smoking",
						ShowIf:    template.OneOf("Former smoker", "Current smoker"),
					}},
				},
			},
		},
	}
}

func TestValidateAcceptsBackwardDependency(t *testing.T) {
	t.Parallel()

	if err := template.Validate(smokingTemplate()); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateRejectsForwardDependency(t *testing.T) {
	t.Parallel()

	tpl := smokingTemplate()
	fields := tpl.Sections[0].Fields
	tpl.Sections[0].Fields = []template.FormField{fields[1], fields[0]}

	err := template.Validate(tpl)
	if !errors.Is(err, template.ErrMalformedTemplate) {
		t.Fatalf("expected ErrMalformedTemplate, got %v", err)
	}
	var verr *template.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if got := len(verr.Issues); got != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", got, verr.Issues)
	}
	if !strings.Contains(verr.Issues[0].Message, "later field") {
		t.Fatalf("unexpected message: %s", verr.Issues[0].Message)
	}
	if verr.Issues[0].Path != "sections[0].fields[0].conditional.dependsOn" {
		t.Fatalf("unexpected path: %s", verr.Issues[0].Path)
	}
}

func TestValidateRejectsDanglingAndSelfDependency(t *testing.T) {
	t.Parallel()

	tpl := smokingTemplate()
	tpl.Sections = append(tpl.Sections, template.FormSection{
		ID: "extra",
		Fields: []template.FormField{
			{ID: "ghost", Type: template.FieldTypeText, Conditional: &template.Conditional{DependsOn: "missing", ShowIf: template.Equals("Yes")}},
			{ID: "loop", Type: template.FieldTypeText, Conditional: &template.Conditional{DependsOn: "loop", ShowIf: template.Equals("Yes")}},
		},
	})

	var verr *template.ValidationError
	if !errors.As(template.Validate(tpl), &verr) {
		t.Fatalf("expected validation error")
	}
	got := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		got = append(got, issue.Message)
	}
	want := []string{
		`dependsOn "missing" does not resolve to any field`,
		`field "loop" depends on itself`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDependencyAcrossSections(t *testing.T) {
	t.Parallel()

	tpl := smokingTemplate()
	tpl.Sections = append(tpl.Sections, template.FormSection{
		ID: "followup",
		Fields: []template.FormField{
			{ID: "quit", Type: template.FieldTypeDate, Conditional: &template.Conditional{DependsOn: "smoking", ShowIf: template.Equals("Former smoker")}},
		},
	})
	if err := template.Validate(tpl); err != nil {
		t.Fatalf("earlier-section dependency should be valid: %v", err)
	}
}

func TestValidateRejectsDuplicateIDsAcrossSections(t *testing.T) {
	t.Parallel()

	tpl := smokingTemplate()
	tpl.Sections = append(tpl.Sections, template.FormSection{
		ID:     "review",
		Fields: []template.FormField{{ID: "smoking", Type: template.FieldTypeText}},
	})

	var verr *template.ValidationError
	if !errors.As(template.Validate(tpl), &verr) {
		t.Fatalf("expected validation error")
	}
	want := []template.Issue{{
		TemplateID: "social",
		Path:       "sections[1].fields[0]",
		Message:    `duplicate field id "smoking", first declared in section "habits"`,
	}}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStructConstraints(t *testing.T) {
	t.Parallel()

	tpl := template.FormTemplate{
		ID:       "broken",
		Category: "misc",
		Sections: []template.FormSection{{ID: "s", Fields: []template.FormField{{Type: template.FieldTypeText}}}},
	}
	var verr *template.ValidationError
	if !errors.As(template.Validate(tpl), &verr) {
		t.Fatalf("expected validation error")
	}
	paths := map[string]bool{}
	for _, issue := range verr.Issues {
		paths[issue.Path] = true
	}
	for _, want := range []string{"Name", "Category", "Sections[0].Fields[0].ID"} {
		if !paths[want] {
			t.Fatalf("expected issue for %s, got %v", want, verr.Issues)
		}
	}
}

func TestValidateCommunityMetadata(t *testing.T) {
	t.Parallel()

	ct := template.CommunityTemplate{
		FormTemplate: smokingTemplate(),
		Author:       template.Author{Name: "Dr. Test"},
		Stats:        template.Stats{Rating: 5.5, DatePublished: "June 2024"},
		Status:       "archived",
	}
	var verr *template.ValidationError
	if !errors.As(template.ValidateCommunity(ct), &verr) {
		t.Fatalf("expected validation error")
	}
	paths := map[string]bool{}
	for _, issue := range verr.Issues {
		paths[issue.Path] = true
	}
	for _, want := range []string{"Stats.Rating", "Stats.DatePublished", "Status"} {
		if !paths[want] {
			t.Fatalf("expected issue for %s, got %v", want, verr.Issues)
		}
	}
}

func TestShowIfDecodesScalarAndList(t *testing.T) {
	t.Parallel()

	var fromJSON []template.Conditional
	raw := `[{"dependsOn":"hasPain","showIf":"Yes"},{"dependsOn":"smoking","showIf":["Former smoker","Current smoker"]}]`
	if err := json.Unmarshal([]byte(raw), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}

	var fromYAML []template.Conditional
	doc := "- dependsOn: hasPain\n  showIf: \"Yes\"\n- dependsOn: smoking\n  showIf: [Former smoker, Current smoker]\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	want := []template.Conditional{
		{DependsOn: "hasPain", ShowIf: template.Equals("Yes")},
		{DependsOn: "smoking", ShowIf: template.OneOf("Former smoker", "Current smoker")},
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != raw {
		t.Fatalf("round trip mismatch:\n%s\n%s", raw, encoded)
	}
}

func TestCommunitySearchTextIncludesAuthor(t *testing.T) {
	t.Parallel()

	ct := template.CommunityTemplate{
		FormTemplate: template.FormTemplate{Name: "N", Description: "D", Specialty: "S", Tags: []string{"a", "b"}},
		Author:       template.Author{Name: "Dr. Sarah Mitchell"},
	}
	want := []string{"N", "D", "S", "a", "b", "Dr. Sarah Mitchell"}
	if diff := cmp.Diff(want, ct.SearchText()); diff != "" {
		t.Fatalf("search text mismatch (-want +got):\n%s", diff)
	}
	if got := ct.Summary().Name; got != "N" {
		t.Fatalf("summary should come from embedded template, got %q", got)
	}
}

func TestFieldTypeHelpers(t *testing.T) {
	t.Parallel()

	if template.FieldType("signature").Known() {
		t.Fatalf("signature should not be a known type")
	}
	if !template.FieldTypeCheckbox.HasOptions() || !template.FieldTypeCheckbox.MultiValued() {
		t.Fatalf("checkbox should carry options and be multi-valued")
	}
	if template.FieldTypeRadio.MultiValued() {
		t.Fatalf("radio is single-valued")
	}
	if _, ok := template.ParseCategory("follow-up"); !ok {
		t.Fatalf("follow-up should parse")
	}
}
