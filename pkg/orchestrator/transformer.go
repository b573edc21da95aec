package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// Transformer rewrites a resolved template before it is rendered. The
// template is a private copy, so implementations may mutate it freely.
type Transformer interface {
	Transform(ctx context.Context, tpl *template.FormTemplate) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, tpl *template.FormTemplate) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, tpl *template.FormTemplate) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, tpl)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, tpl *template.FormTemplate) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, tpl); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies declarative overrides read from a YAML or JSON
// document. Fields are addressed by id, or by "section.field" when the id
// repeats across sections:
//
//	name: Clinic intake
//	fields:
//	  smoking:
//	    label: Do you smoke?
//	  social.packs:
//	    required: true
//	templates:
//	  pain-assessment:
//	    fields:
//	      painLevel: {label: Rate your pain}
//
// Top-level patches apply to every template; entries under templates apply
// only to the named id.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	presetPatch `yaml:",inline"`
	Templates   map[string]presetPatch `yaml:"templates"`
}

type presetPatch struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Fields      map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Label       string   `yaml:"label"`
	Placeholder string   `yaml:"placeholder"`
	Required    *bool    `yaml:"required"`
	Options     []string `yaml:"options"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the shared patch, then the template-specific one. Patches
// naming a missing field fail the transform, except shared patches, which
// skip templates that lack the field.
func (t *PresetTransformer) Transform(ctx context.Context, tpl *template.FormTemplate) error {
	if tpl == nil {
		return errors.New("preset transformer: template is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := applyPatch(tpl, t.document.presetPatch, false); err != nil {
		return err
	}
	if patch, ok := t.document.Templates[tpl.ID]; ok {
		if err := applyPatch(tpl, patch, true); err != nil {
			return err
		}
	}
	return nil
}

func applyPatch(tpl *template.FormTemplate, patch presetPatch, strict bool) error {
	if patch.Name != "" {
		tpl.Name = patch.Name
	}
	if patch.Description != "" {
		tpl.Description = patch.Description
	}

	paths := make([]string, 0, len(patch.Fields))
	for path := range patch.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		field := findField(tpl, path)
		if field == nil {
			if strict {
				return fmt.Errorf("preset transformer: field %q not found in %q", path, tpl.ID)
			}
			continue
		}
		applyFieldPatch(field, patch.Fields[path])
	}
	return nil
}

func applyFieldPatch(field *template.FormField, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if len(patch.Options) > 0 && field.Type.HasOptions() {
		field.Options = append([]string(nil), patch.Options...)
	}
}

func findField(tpl *template.FormTemplate, path string) *template.FormField {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	sectionID, fieldID, scoped := strings.Cut(path, ".")
	if !scoped {
		fieldID = sectionID
	}
	for si := range tpl.Sections {
		section := &tpl.Sections[si]
		if scoped && section.ID != sectionID {
			continue
		}
		for fi := range section.Fields {
			if section.Fields[fi].ID == fieldID {
				return &section.Fields[fi]
			}
		}
	}
	return nil
}
