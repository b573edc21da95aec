package template

// Summary is the metadata shared by every template variant.
type Summary struct {
	ID          string
	Name        string
	Description string
	Specialty   string
	Category    Category
	Tags        []string
}

// Listing is implemented by FormTemplate and CommunityTemplate so the query
// engine can filter either without caring which one it received.
type Listing interface {
	Summary() Summary
	// SearchText returns every string a free-text query is matched against.
	SearchText() []string
}

var (
	_ Listing = FormTemplate{}
	_ Listing = CommunityTemplate{}
)

// Summary implements Listing.
func (t FormTemplate) Summary() Summary {
	return Summary{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Specialty:   t.Specialty,
		Category:    t.Category,
		Tags:        t.Tags,
	}
}

// SearchText implements Listing.
func (t FormTemplate) SearchText() []string {
	out := make([]string, 0, 3+len(t.Tags))
	out = append(out, t.Name, t.Description, t.Specialty)
	out = append(out, t.Tags...)
	return out
}

// SearchText extends the base template fields with the author name.
func (t CommunityTemplate) SearchText() []string {
	return append(t.FormTemplate.SearchText(), t.Author.Name)
}
