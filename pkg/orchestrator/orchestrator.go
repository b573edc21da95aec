package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/renderers/html"
	"github.com/goliatone/go-formtemplate/pkg/renderers/text"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

const defaultRendererName = html.Name

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithCatalog sets the template source. The embedded catalog is used when
// none is supplied.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = c
	}
}

// WithRegistry replaces the renderer registry. The default registry holds the
// html and text renderers.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer names the renderer used when a request leaves it empty.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer installs a transformer applied to every resolved template.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithMaterializer overrides the materializer used by Questions.
func WithMaterializer(m *materialize.Materializer) Option {
	return func(o *Orchestrator) {
		o.materializer = m
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator resolves templates from a catalog and renders them. It is safe
// for concurrent use once constructed.
type Orchestrator struct {
	catalog         *catalog.Catalog
	registry        *render.Registry
	materializer    *materialize.Materializer
	defaultRenderer string
	transformer     Transformer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator, filling missing dependencies with the
// built-in implementations. Initialisation failures surface on first use.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a render.
type Request struct {
	// TemplateID selects a built-in or community template. Ignored when
	// Template is set.
	TemplateID string

	// Template lets callers render a template that is not in the catalog,
	// such as one produced by a builder session.
	Template *template.FormTemplate

	// Renderer names the renderer to use, falling back to the default.
	Renderer string

	// RenderOptions carries responses and visibility overrides.
	RenderOptions render.RenderOptions
}

// Output is a rendered payload.
type Output struct {
	Body        []byte
	ContentType string
	Renderer    string
}

// Catalog exposes the template source.
func (o *Orchestrator) Catalog() *catalog.Catalog { return o.catalog }

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Resolve returns the template a request refers to, after the transformer
// has run on a private copy.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (template.FormTemplate, error) {
	if ctx == nil {
		return template.FormTemplate{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return template.FormTemplate{}, err
	}
	if err := o.initialiseErr; err != nil {
		return template.FormTemplate{}, err
	}

	var tpl template.FormTemplate
	switch {
	case req.Template != nil:
		tpl = req.Template.Clone()
	case req.TemplateID != "":
		found, err := o.catalog.Lookup(req.TemplateID)
		if err != nil {
			return template.FormTemplate{}, fmt.Errorf("orchestrator: resolve template: %w", err)
		}
		tpl = found
	default:
		return template.FormTemplate{}, errors.New("orchestrator: template id is required")
	}

	if err := o.applyTransformer(ctx, &tpl); err != nil {
		return template.FormTemplate{}, err
	}
	return tpl, nil
}

// Generate resolves the template and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Output, error) {
	tpl, err := o.Resolve(ctx, req)
	if err != nil {
		return Output{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Output{}, err
	}

	body, err := renderer.Render(ctx, tpl, req.RenderOptions)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("template rendered",
		zap.String("template", tpl.ID),
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(body)),
	)
	return Output{Body: body, ContentType: renderer.ContentType(), Renderer: renderer.Name()}, nil
}

// Questions resolves the template and materializes its builder questions.
func (o *Orchestrator) Questions(ctx context.Context, req Request) ([]materialize.Question, error) {
	tpl, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.materializer.Materialize(tpl), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyTransformer(ctx context.Context, tpl *template.FormTemplate) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, tpl); err != nil {
		return fmt.Errorf("orchestrator: transform template: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.materializer == nil {
		o.materializer = materialize.New()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default catalog: %w", err)
			return
		}
		o.catalog = c
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
		o.registry.MustRegister(text.New())
	}
}
