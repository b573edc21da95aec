package html

import (
	"context"
	"fmt"
	stdhtml "html"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/render"
	rendertemplate "github.com/goliatone/go-formtemplate/pkg/render/template"
	"github.com/goliatone/go-formtemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

// StylesheetAsset is the theme asset key resolved for the page stylesheet.
const StylesheetAsset = "preview.stylesheet"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// preview.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies theme name, variant, CSS variables and stylesheet.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// Renderer produces a static, disabled HTML preview of a template.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     themeView
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		e, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".tpl"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		engine = e
	}
	return &Renderer{templates: engine, theme: buildThemeView(cfg.theme)}, nil
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, tpl template.FormTemplate, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template engine is nil")
	}
	out, err := r.templates.RenderTemplate("preview", map[string]any{
		"form":  buildFormView(tpl, render.Preview(tpl, options)),
		"theme": r.theme,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

type formView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Sections    []sectionView `json:"sections"`
}

type sectionView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Input       string       `json:"input"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Required    bool         `json:"required"`
	Multiple    bool         `json:"multiple"`
	Hidden      bool         `json:"hidden"`
	DependsOn   string       `json:"dependsOn"`
	Min         string       `json:"min"`
	Max         string       `json:"max"`
	Value       string       `json:"value"`
	Options     []optionView `json:"options"`
}

type optionView struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	CSSVars    string `json:"cssVars"`
	Stylesheet string `json:"stylesheet"`
}

func buildFormView(tpl template.FormTemplate, sections []render.Section) formView {
	view := formView{
		ID:          tpl.ID,
		Name:        plain(tpl.Name),
		Description: plain(tpl.Description),
		Sections:    make([]sectionView, 0, len(sections)),
	}
	for _, section := range sections {
		sv := sectionView{
			ID:          section.ID,
			Title:       plain(section.Title),
			Description: plain(section.Description),
			Fields:      make([]fieldView, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			sv.Fields = append(sv.Fields, buildFieldView(field))
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func buildFieldView(rf materialize.RenderableField) fieldView {
	field := rf.Field
	view := fieldView{
		ID:          rf.ID,
		Name:        field.ID,
		Type:        string(field.Type),
		Input:       inputType(field.Type),
		Label:       plain(field.Label),
		Placeholder: plain(field.Placeholder),
		Required:    field.Required,
		Multiple:    field.Type == template.FieldTypeMultiselect,
		Hidden:      !rf.Visible,
	}
	if field.Conditional != nil {
		view.DependsOn = field.Conditional.DependsOn
	}
	if field.Type == template.FieldTypeScale {
		view.Min = strconv.Itoa(intOr(field.Min, materialize.DefaultScaleMin))
		view.Max = strconv.Itoa(intOr(field.Max, materialize.DefaultScaleMax))
	} else {
		if field.Min != nil {
			view.Min = strconv.Itoa(*field.Min)
		}
		if field.Max != nil {
			view.Max = strconv.Itoa(*field.Max)
		}
	}

	selected := responseValues(rf.Response)
	if field.Type.HasOptions() {
		options := field.Options
		if len(options) == 0 {
			options = materialize.DefaultOptions()
		}
		for _, option := range options {
			_, ok := selected[option]
			view.Options = append(view.Options, optionView{Value: plain(option), Selected: ok})
		}
		return view
	}
	if len(selected) > 0 {
		values := make([]string, 0, len(selected))
		for value := range selected {
			values = append(values, value)
		}
		sort.Strings(values)
		view.Value = strings.Join(values, ", ")
	}
	return view
}

func inputType(t template.FieldType) string {
	switch t {
	case template.FieldTypeTextarea:
		return "textarea"
	case template.FieldTypeSelect, template.FieldTypeMultiselect:
		return "select"
	case template.FieldTypeRadio:
		return "radio"
	case template.FieldTypeCheckbox:
		return "checkbox"
	case template.FieldTypeNumber:
		return "number"
	case template.FieldTypeDate:
		return "date"
	case template.FieldTypeScale:
		return "range"
	case template.FieldTypePhone:
		return "tel"
	case template.FieldTypeEmail:
		return "email"
	default:
		return "text"
	}
}

func responseValues(value any) map[string]struct{} {
	out := make(map[string]struct{})
	switch typed := value.(type) {
	case nil:
	case string:
		if typed != "" {
			out[typed] = struct{}{}
		}
	case []string:
		for _, v := range typed {
			out[v] = struct{}{}
		}
	case []any:
		for _, v := range typed {
			if v != nil {
				out[fmt.Sprint(v)] = struct{}{}
			}
		}
	default:
		out[fmt.Sprint(typed)] = struct{}{}
	}
	return out
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	view := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSSVars: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return view
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(plain(key))
		b.WriteString(": ")
		b.WriteString(plain(vars[key]))
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// plain strips markup from template text. The engine escapes on output, so
// entities introduced by the policy are decoded here to avoid double escaping.
func plain(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(stdhtml.UnescapeString(labelPolicy.Sanitize(raw)))
}
