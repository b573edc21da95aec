package catalog

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// AllFilter is the facet sentinel that disables a category or specialty filter.
const AllFilter = "all"

var (
	// ErrCatalogUnavailable signals the catalog source could not be read or
	// parsed. Loaders never return a partial catalog alongside it.
	ErrCatalogUnavailable = errors.New("catalog: catalog unavailable")
	// ErrTemplateNotFound is returned by lookups for unknown ids.
	ErrTemplateNotFound = errors.New("catalog: template not found")
)

// Catalog is an immutable, validated collection of built-in and community
// templates. It is safe for concurrent readers; every accessor returns copies.
type Catalog struct {
	templates   []template.FormTemplate
	community   []template.CommunityTemplate
	templateIdx map[string]int
	communityIx map[string]int
}

// New validates the supplied templates and freezes them into a Catalog.
// Insertion order is preserved. Malformed templates fail the whole catalog
// with a *template.ValidationError.
func New(templates []template.FormTemplate, community []template.CommunityTemplate, options ...Option) (*Catalog, error) {
	cfg := newConfig(options...)

	c := &Catalog{
		templates:   make([]template.FormTemplate, 0, len(templates)),
		community:   make([]template.CommunityTemplate, 0, len(community)),
		templateIdx: make(map[string]int, len(templates)),
		communityIx: make(map[string]int, len(community)),
	}

	var errs []error
	for _, tpl := range templates {
		id := strings.TrimSpace(tpl.ID)
		if _, exists := c.templateIdx[id]; exists && id != "" {
			errs = append(errs, duplicateIssue(id))
			continue
		}
		if err := template.Validate(tpl); err != nil {
			errs = append(errs, err)
			continue
		}
		c.templateIdx[id] = len(c.templates)
		c.templates = append(c.templates, tpl.Clone())
	}

	for _, tpl := range community {
		if cfg.sanitize != nil {
			tpl = sanitizeCommunity(tpl, cfg.sanitize)
		}
		id := strings.TrimSpace(tpl.ID)
		_, clashBase := c.templateIdx[id]
		if _, exists := c.communityIx[id]; (exists || clashBase) && id != "" {
			errs = append(errs, duplicateIssue(id))
			continue
		}
		if err := template.ValidateCommunity(tpl); err != nil {
			errs = append(errs, err)
			continue
		}
		c.communityIx[id] = len(c.community)
		c.community = append(c.community, tpl.Clone())
	}

	if err := template.Merge(errs...); err != nil {
		cfg.logger.Warn("catalog rejected", zap.Error(err))
		return nil, err
	}

	cfg.logger.Debug("catalog built",
		zap.Int("templates", len(c.templates)),
		zap.Int("community", len(c.community)),
	)
	return c, nil
}

func duplicateIssue(id string) error {
	return &template.ValidationError{Issues: []template.Issue{{
		TemplateID: id,
		Message:    fmt.Sprintf("duplicate template id %q", id),
	}}}
}

// ListTemplates returns every built-in template in insertion order.
func (c *Catalog) ListTemplates() []template.FormTemplate {
	if c == nil {
		return nil
	}
	out := make([]template.FormTemplate, len(c.templates))
	for i, tpl := range c.templates {
		out[i] = tpl.Clone()
	}
	return out
}

// ListCommunityTemplates returns every community template in insertion order.
func (c *Catalog) ListCommunityTemplates() []template.CommunityTemplate {
	if c == nil {
		return nil
	}
	out := make([]template.CommunityTemplate, len(c.community))
	for i, tpl := range c.community {
		out[i] = tpl.Clone()
	}
	return out
}

// Template looks up a built-in template by id.
func (c *Catalog) Template(id string) (template.FormTemplate, error) {
	if c != nil {
		if idx, ok := c.templateIdx[strings.TrimSpace(id)]; ok {
			return c.templates[idx].Clone(), nil
		}
	}
	return template.FormTemplate{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
}

// CommunityTemplate looks up a community template by id.
func (c *Catalog) CommunityTemplate(id string) (template.CommunityTemplate, error) {
	if c != nil {
		if idx, ok := c.communityIx[strings.TrimSpace(id)]; ok {
			return c.community[idx].Clone(), nil
		}
	}
	return template.CommunityTemplate{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
}

// Lookup resolves an id against built-in templates first, then community
// templates, returning the base template either way.
func (c *Catalog) Lookup(id string) (template.FormTemplate, error) {
	if tpl, err := c.Template(id); err == nil {
		return tpl, nil
	}
	ct, err := c.CommunityTemplate(id)
	if err != nil {
		return template.FormTemplate{}, err
	}
	return ct.FormTemplate, nil
}

// Len reports the number of built-in and community templates.
func (c *Catalog) Len() (templates, community int) {
	if c == nil {
		return 0, 0
	}
	return len(c.templates), len(c.community)
}

// Specialties returns the built-in specialty facet: "all" followed by each
// distinct specialty in first-seen order.
func (c *Catalog) Specialties() []string {
	if c == nil {
		return []string{AllFilter}
	}
	values := make([]string, 0, len(c.templates))
	for _, tpl := range c.templates {
		values = append(values, tpl.Specialty)
	}
	return facet(values)
}

// CommunitySpecialties is the community counterpart to Specialties.
func (c *Catalog) CommunitySpecialties() []string {
	if c == nil {
		return []string{AllFilter}
	}
	values := make([]string, 0, len(c.community))
	for _, tpl := range c.community {
		values = append(values, tpl.Specialty)
	}
	return facet(values)
}

// Categories returns the category facet: "all" followed by every category.
func Categories() []string {
	out := []string{AllFilter}
	for _, category := range template.Categories() {
		out = append(out, string(category))
	}
	return out
}

func facet(values []string) []string {
	out := []string{AllFilter}
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
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
