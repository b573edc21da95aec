package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

const intakeYAML = `
templates:
- id: intake
  name: Patient Intake
  description: General intake
  specialty: General
  category: intake
  estimatedTime: 5 minutes
  tags: [intake]
  sections:
  - id: basics
    title: Basics
    fields:
    - id: name
      type: text
      label: Full name
      required: true
`

const cardioJSON = `{
  "templates": [{
    "id": "heart",
    "name": "Chest Pain Review",
    "description": "Review of chest discomfort",
    "specialty": "Cardiology",
    "category": "assessment",
    "estimatedTime": "10 minutes",
    "tags": ["chest"],
    "sections": [{"id": "s", "title": "S", "fields": [{"id": "f", "type": "scale", "label": "Pain", "min": 0, "max": 10}]}]
  }]
}`

const communityYAML = `
community:
- id: shared
  name: Shared <b>Form</b>
  description: Submitted by a clinician
  specialty: OB/GYN & Women's Health
  category: screening
  estimatedTime: 3 minutes
  tags: [shared]
  author: {name: Dr. Ada Lovelace, title: MD, hospital: General, verified: true}
  stats: {downloads: 10, rating: 4.2, reviewCount: 3, datePublished: '2024-01-02'}
  permissions: {requireApproval: false, allowModifications: true}
  status: published
  sections:
  - id: s
    title: S
    fields:
    - id: q
      type: radio
      label: Question
      options: ['Yes', 'No']
`

func TestLoadFSMergesDocumentsInLexicalOrder(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"b/intake.yaml":   {Data: []byte(intakeYAML)},
		"a/cardio.json":   {Data: []byte(cardioJSON)},
		"c/shared.yml":    {Data: []byte(communityYAML)},
		"notes/README.md": {Data: []byte("ignored")},
	}

	c, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	var ids []string
	for _, tpl := range c.ListTemplates() {
		ids = append(ids, tpl.ID)
	}
	if diff := cmp.Diff([]string{"heart", "intake"}, ids); diff != "" {
		t.Fatalf("template order mismatch (-want +got):\n%s", diff)
	}

	community := c.ListCommunityTemplates()
	if len(community) != 1 {
		t.Fatalf("expected one community template, got %d", len(community))
	}
	if got := community[0].Name; got != "Shared Form" {
		t.Fatalf("expected markup stripped from name, got %q", got)
	}
	if got := community[0].Specialty; got != "OB/GYN & Women's Health" {
		t.Fatalf("expected entities preserved, got %q", got)
	}

	heart, err := c.Template("heart")
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if heart.Sections[0].Fields[0].Max == nil || *heart.Sections[0].Fields[0].Max != 10 {
		t.Fatalf("expected scale max 10, got %+v", heart.Sections[0].Fields[0].Max)
	}
}

func TestLoadFSUnavailable(t *testing.T) {
	t.Parallel()

	cases := map[string]fstest.MapFS{
		"empty file": {"a.yaml": {Data: []byte("   ")}},
		"garbage":    {"a.json": {Data: []byte("{not: [valid")}},
	}
	for name, fsys := range cases {
		fsys := fsys
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c, err := LoadFS(fsys)
			if !errors.Is(err, ErrCatalogUnavailable) {
				t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
			}
			if c != nil {
				t.Fatalf("expected no partial catalog")
			}
		})
	}

	if _, err := LoadFS(nil); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("nil fs: expected ErrCatalogUnavailable, got %v", err)
	}
	if _, err := LoadDir("/definitely/not/here"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("missing dir: expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestLoadFSRejectsMalformedTemplates(t *testing.T) {
	t.Parallel()

	forward := `
templates:
- id: bad
  name: Bad
  category: intake
  sections:
  - id: s
    fields:
    - id: details
      type: text
      conditional: {dependsOn: smoking, showIf: 'Yes'}
    - id: smoking
      type: radio
      options: ['Yes', 'No']
`
	_, err := LoadFS(fstest.MapFS{"bad.yaml": {Data: []byte(forward)}})
	if !errors.Is(err, template.ErrMalformedTemplate) {
		t.Fatalf("expected ErrMalformedTemplate, got %v", err)
	}
	var verr *template.ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 1 {
		t.Fatalf("expected a single issue, got %v", err)
	}
	if verr.Issues[0].TemplateID != "bad" {
		t.Fatalf("expected issue for template bad, got %+v", verr.Issues[0])
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	tpl := template.FormTemplate{ID: "dup", Name: "Dup", Category: template.CategoryIntake}
	_, err := New([]template.FormTemplate{tpl, tpl}, nil)
	if !errors.Is(err, template.ErrMalformedTemplate) {
		t.Fatalf("expected duplicate id failure, got %v", err)
	}
}

func TestListingsAreCopies(t *testing.T) {
	t.Parallel()

	c, err := LoadFS(fstest.MapFS{"intake.yaml": {Data: []byte(intakeYAML)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	first := c.ListTemplates()
	first[0].Name = "mutated"
	first[0].Sections[0].Fields[0].Label = "mutated"
	first[0].Tags[0] = "mutated"

	again := c.ListTemplates()
	if diff := cmp.Diff(c.mustTemplate(t, "intake"), again[0]); diff != "" {
		t.Fatalf("catalog changed after caller mutation (-want +got):\n%s", diff)
	}
	if again[0].Name != "Patient Intake" || again[0].Tags[0] != "intake" {
		t.Fatalf("catalog leaked mutation: %+v", again[0])
	}
}

func (c *Catalog) mustTemplate(t *testing.T, id string) template.FormTemplate {
	t.Helper()
	tpl, err := c.Template(id)
	if err != nil {
		t.Fatalf("Template(%q): %v", id, err)
	}
	return tpl
}

func TestLookupFallsBackToCommunity(t *testing.T) {
	t.Parallel()

	c, err := LoadFS(fstest.MapFS{
		"intake.yaml": {Data: []byte(intakeYAML)},
		"shared.yaml": {Data: []byte(communityYAML)},
	})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	if tpl, err := c.Lookup("shared"); err != nil || tpl.ID != "shared" {
		t.Fatalf("Lookup(shared) = %+v, %v", tpl.ID, err)
	}
	if _, err := c.Lookup("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	templates, community := c.Len()
	if templates != 10 || community != 6 {
		t.Fatalf("expected 10 built-in and 6 community templates, got %d/%d", templates, community)
	}

	specialties := c.Specialties()
	if specialties[0] != AllFilter {
		t.Fatalf("expected facet to start with %q, got %v", AllFilter, specialties)
	}
	seen := map[string]int{}
	for _, s := range specialties {
		seen[s]++
		if seen[s] > 1 {
			t.Fatalf("duplicate facet value %q in %v", s, specialties)
		}
	}
	if _, ok := seen["Cardiology"]; !ok {
		t.Fatalf("expected Cardiology facet, got %v", specialties)
	}

	want := []string{"all", "intake", "assessment", "follow-up", "screening", "specialty"}
	if diff := cmp.Diff(want, Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizerCanBeDisabled(t *testing.T) {
	t.Parallel()

	c, err := LoadFS(fstest.MapFS{"shared.yaml": {Data: []byte(communityYAML)}}, WithSanitizer(nil))
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := c.ListCommunityTemplates()[0].Name; got != "Shared <b>Form</b>" {
		t.Fatalf("expected raw name, got %q", got)
	}
}
