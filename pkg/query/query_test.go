package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

func community(id string, downloads int, rating float64, published string) template.CommunityTemplate {
	return template.CommunityTemplate{
		FormTemplate: template.FormTemplate{ID: id, Name: id, Category: template.CategoryAssessment},
		Stats:        template.Stats{Downloads: downloads, Rating: rating, DatePublished: published},
		Status:       template.StatusPublished,
	}
}

func ids(items []template.CommunityTemplate) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestSearchMatchesSpecialtyCaseInsensitively(t *testing.T) {
	t.Parallel()

	items := []template.FormTemplate{
		{ID: "intake", Name: "Intake", Specialty: "General", Category: template.CategoryIntake},
		{ID: "heart", Name: "Heart Review", Specialty: "Cardiology", Category: template.CategoryAssessment},
	}

	got := Search(items, Filter{Query: "cardio", Category: All, Specialty: All})
	if len(got) != 1 || got[0].ID != "heart" {
		t.Fatalf("expected only heart, got %+v", got)
	}
	got = Search(items, Filter{Query: "  CARDIO "})
	if len(got) != 1 || got[0].ID != "heart" {
		t.Fatalf("expected trimmed case-insensitive match, got %+v", got)
	}
}

func TestSearchFieldsAndAuthor(t *testing.T) {
	t.Parallel()

	base := template.FormTemplate{
		ID:          "t",
		Name:        "Name",
		Description: "Knee rehab plan",
		Specialty:   "Ortho",
		Category:    template.CategoryFollowUp,
		Tags:        []string{"post-op"},
	}
	shared := template.CommunityTemplate{FormTemplate: base, Author: template.Author{Name: "Dr. Sarah Mitchell"}}

	for _, q := range []string{"knee", "POST-OP", "ortho", "name"} {
		if len(Search([]template.FormTemplate{base}, Filter{Query: q})) != 1 {
			t.Fatalf("expected %q to match base template", q)
		}
	}
	if len(Search([]template.FormTemplate{base}, Filter{Query: "mitchell"})) != 0 {
		t.Fatalf("author must not be searched for built-in templates")
	}
	if len(Search([]template.CommunityTemplate{shared}, Filter{Query: "mitchell"})) != 1 {
		t.Fatalf("expected author match for community template")
	}
}

func TestSearchIsConjunction(t *testing.T) {
	t.Parallel()

	items := []template.FormTemplate{
		{ID: "a", Name: "Pain", Specialty: "General", Category: template.CategoryAssessment},
		{ID: "b", Name: "Pain", Specialty: "Surgery", Category: template.CategoryAssessment},
		{ID: "c", Name: "Pain", Specialty: "General", Category: template.CategoryIntake},
		{ID: "d", Name: "Mood", Specialty: "General", Category: template.CategoryAssessment},
	}
	filter := Filter{Query: "pain", Category: "assessment", Specialty: "General"}

	got := Search(items, filter)
	for _, item := range got {
		for _, single := range []Filter{{Query: filter.Query}, {Category: filter.Category}, {Specialty: filter.Specialty}} {
			if !single.Matches(item) {
				t.Fatalf("%s passed combined filter but fails %+v", item.ID, single)
			}
		}
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only a, got %+v", got)
	}
	if len(Search(items, Filter{Category: "all", Specialty: "all"})) != len(items) {
		t.Fatalf("all sentinel must not filter")
	}
	if len(Search(items, Filter{Category: "Assessment"})) != 0 {
		t.Fatalf("category match must be exact")
	}
}

func TestSearchEmptyResult(t *testing.T) {
	t.Parallel()

	got := Search([]template.FormTemplate{{ID: "a", Name: "A"}}, Filter{Query: "zzz"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSortByRatingIsStable(t *testing.T) {
	t.Parallel()

	items := []template.CommunityTemplate{
		community("A", 1, 4.5, "2024-01-01"),
		community("B", 1, 4.9, "2024-01-01"),
		community("C", 1, 4.5, "2024-01-01"),
	}

	got, err := Sort(items, SortRating)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "A", "C"}, ids(got)); diff != "" {
		t.Fatalf("rating order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ids(items)); diff != "" {
		t.Fatalf("input was reordered (-want +got):\n%s", diff)
	}

	again, err := Sort(got, SortRating)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if diff := cmp.Diff(ids(got), ids(again)); diff != "" {
		t.Fatalf("sort not idempotent (-want +got):\n%s", diff)
	}
}

func TestSortPopularAndNewest(t *testing.T) {
	t.Parallel()

	items := []template.CommunityTemplate{
		community("old", 500, 4.0, "2023-12-31"),
		community("hot", 1500, 3.0, "2024-02-01"),
		community("new", 10, 5.0, "2024-06-02"),
	}

	popular, err := Sort(items, SortPopular)
	if err != nil {
		t.Fatalf("Sort popular: %v", err)
	}
	if diff := cmp.Diff([]string{"hot", "old", "new"}, ids(popular)); diff != "" {
		t.Fatalf("popular order mismatch (-want +got):\n%s", diff)
	}

	newest, err := Sort(items, SortNewest)
	if err != nil {
		t.Fatalf("Sort newest: %v", err)
	}
	if diff := cmp.Diff([]string{"new", "hot", "old"}, ids(newest)); diff != "" {
		t.Fatalf("newest order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNewestComparesInstants(t *testing.T) {
	t.Parallel()

	items := []template.CommunityTemplate{
		community("undated", 0, 0, "soon"),
		community("utc", 0, 0, "2024-03-02T01:00:00Z"),
		community("est", 0, 0, "2024-03-01T23:30:00-05:00"),
		community("blank", 0, 0, ""),
		community("day", 0, 0, "2024-03-01"),
	}

	got, err := Sort(items, SortNewest)
	if err != nil {
		t.Fatalf("Sort newest: %v", err)
	}
	if diff := cmp.Diff([]string{"est", "utc", "day", "undated", "blank"}, ids(got)); diff != "" {
		t.Fatalf("newest order mismatch (-want +got):\n%s", diff)
	}
	if items[0].ID != "undated" {
		t.Fatalf("input slice was reordered")
	}
}

func TestInvalidSortKey(t *testing.T) {
	t.Parallel()

	if _, err := Sort(nil, SortKey("alphabetical")); !errors.Is(err, ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
	if _, err := ParseSortKey("alphabetical"); !errors.Is(err, ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
	key, err := ParseSortKey(" Rating ")
	if err != nil || key != SortRating {
		t.Fatalf("ParseSortKey = %q, %v", key, err)
	}
	if key, _ := ParseSortKey(""); key != SortPopular {
		t.Fatalf("expected default popular, got %q", key)
	}
}

func TestBrowseFiltersThenSorts(t *testing.T) {
	t.Parallel()

	items := []template.CommunityTemplate{
		community("x", 1, 4.1, "2024-01-01"),
		community("y", 2, 4.8, "2024-01-01"),
		community("z", 3, 4.9, "2024-01-01"),
	}
	items[2].Category = template.CategoryIntake

	got, err := Browse(items, Filter{Category: "assessment"}, SortRating)
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if diff := cmp.Diff([]string{"y", "x"}, ids(got)); diff != "" {
		t.Fatalf("browse mismatch (-want +got):\n%s", diff)
	}
}
