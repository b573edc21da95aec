package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
	"github.com/goliatone/go-formtemplate/pkg/visibility"
)

// Name is the registry name of the TUI renderer.
const Name = "tui"

// Renderer walks a template in the terminal, prompting for every field that
// is visible given the answers collected so far. Visibility is re-evaluated
// after each answer, so follow-up questions appear as soon as their
// condition is met.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	evaluator    visibility.Evaluator
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		evaluator:    visibility.NewConditional(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return Name }

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for responses and returns them serialized. The evaluator in
// options, when set, takes precedence over the renderer's own.
func (r *Renderer) Render(ctx context.Context, tpl template.FormTemplate, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state, err := r.Collect(ctx, tpl, options)
	if err != nil {
		return nil, err
	}
	return r.serialize(tpl, state.Responses())
}

// Collect runs the prompt session and returns the resulting state.
func (r *Renderer) Collect(ctx context.Context, tpl template.FormTemplate, options render.RenderOptions) (*State, error) {
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	eval := r.evaluator
	if options.Evaluator != nil {
		eval = options.Evaluator
	}

	state := NewState(options.Responses)
	for si, section := range tpl.Sections {
		announced := false
		for _, field := range section.Fields {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !eval.Eval(field, visibility.Context{Responses: state.view()}) {
				// An answer given before the condition changed no longer applies.
				state.Set(field.ID, nil)
				continue
			}
			if !announced {
				if err := r.driver.Info(ctx, r.theme.SectionPrefix+sectionHeading(section, si)); err != nil {
					return nil, err
				}
				announced = true
			}
			if err := r.promptField(ctx, field, state); err != nil {
				return nil, err
			}
		}
	}
	return state, nil
}

func (r *Renderer) promptField(ctx context.Context, field template.FormField, state *State) error {
	switch field.Type {
	case template.FieldTypeSelect, template.FieldTypeRadio:
		return r.promptChoice(ctx, field, state)
	case template.FieldTypeMultiselect, template.FieldTypeCheckbox:
		return r.promptMulti(ctx, field, state)
	case template.FieldTypeScale:
		return r.promptScale(ctx, field, state)
	case template.FieldTypeTextarea:
		return r.promptText(ctx, field, state, true)
	default:
		return r.promptText(ctx, field, state, false)
	}
}

func (r *Renderer) promptText(ctx context.Context, field template.FormField, state *State, multiline bool) error {
	label := displayLabel(field)
	current := currentString(state, field.ID)

	for {
		var (
			answer string
			err    error
		)
		if multiline {
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: field.Placeholder})
		} else {
			answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: field.Placeholder})
		}
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			if field.Required {
				r.invalid(ctx, field, "a response is required")
				continue
			}
			state.Set(field.ID, nil)
			return nil
		}
		if err := checkFormat(field.Type, answer); err != nil {
			r.invalid(ctx, field, err.Error())
			continue
		}
		state.Set(field.ID, answer)
		return nil
	}
}

func (r *Renderer) promptScale(ctx context.Context, field template.FormField, state *State) error {
	lo, hi := scaleBounds(field)
	label := fmt.Sprintf("%s (%d-%d)", displayLabel(field), lo, hi)
	current := currentString(state, field.ID)

	for {
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current})
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" && !field.Required {
			state.Set(field.ID, nil)
			return nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < lo || n > hi {
			r.invalid(ctx, field, fmt.Sprintf("enter a whole number between %d and %d", lo, hi))
			continue
		}
		state.Set(field.ID, n)
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field template.FormField, state *State) error {
	options := fieldOptions(field)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      options,
		DefaultIndex: indexOf(options, currentString(state, field.ID)),
		Help:         field.Placeholder,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		state.Set(field.ID, nil)
		return nil
	}
	state.Set(field.ID, options[idx])
	return nil
}

func (r *Renderer) promptMulti(ctx context.Context, field template.FormField, state *State) error {
	options := fieldOptions(field)
	var defaults []int
	if current, ok := state.Get(field.ID); ok {
		defaults = indicesOf(options, toStrings(current))
	}

	for {
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  options,
			Defaults: defaults,
			Help:     field.Placeholder,
		})
		if err != nil {
			return err
		}
		values := valuesAt(options, picked)
		if len(values) == 0 {
			if field.Required {
				r.invalid(ctx, field, "select at least one option")
				continue
			}
			state.Set(field.ID, nil)
			return nil
		}
		state.Set(field.ID, values)
		return nil
	}
}

func (r *Renderer) invalid(ctx context.Context, field template.FormField, msg string) {
	_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, field.ID, msg))
}

func (r *Renderer) serialize(tpl template.FormTemplate, responses map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(tpl, responses)), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(responses); err != nil {
		return nil, fmt.Errorf("tui: encode responses: %w", err)
	}
	return buf.Bytes(), nil
}

func prettyPrint(tpl template.FormTemplate, responses map[string]any) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(responses))
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			value, ok := responses[field.ID]
			if !ok {
				continue
			}
			seen[field.ID] = struct{}{}
			fmt.Fprintf(&b, "%s: %s\n", displayLabel(field), formatValue(value))
		}
	}
	var extra []string
	for key := range responses {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, formatValue(responses[key]))
	}
	return b.String()
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case []string:
		return strings.Join(typed, ", ")
	default:
		return strings.Join(toStrings(typed), ", ")
	}
}

func sectionHeading(section template.FormSection, index int) string {
	if title := strings.TrimSpace(section.Title); title != "" {
		return title
	}
	if section.ID != "" {
		return section.ID
	}
	return fmt.Sprintf("Section %d", index+1)
}

func displayLabel(field template.FormField) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	return label
}

func fieldOptions(field template.FormField) []string {
	if len(field.Options) == 0 {
		return materialize.DefaultOptions()
	}
	return append([]string(nil), field.Options...)
}

func scaleBounds(field template.FormField) (int, int) {
	lo, hi := materialize.DefaultScaleMin, materialize.DefaultScaleMax
	if field.Min != nil {
		lo = *field.Min
	}
	if field.Max != nil {
		hi = *field.Max
	}
	return lo, hi
}

func currentString(state *State, id string) string {
	value, ok := state.Get(id)
	if !ok {
		return ""
	}
	parts := toStrings(value)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func toStrings(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return []string{typed}
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, v := range typed {
			if v != nil {
				out = append(out, fmt.Sprint(v))
			}
		}
		return out
	default:
		return []string{fmt.Sprint(typed)}
	}
}

var (
	formatOnce  sync.Once
	formatCheck *validator.Validate
)

var formatTags = map[template.FieldType]string{
	template.FieldTypeEmail:  "email",
	template.FieldTypeDate:   "datetime=" + template.DateLayout,
	template.FieldTypeNumber: "numeric",
	template.FieldTypePhone:  "phoneish",
}

func checkFormat(t template.FieldType, value string) error {
	tag, ok := formatTags[t]
	if !ok {
		return nil
	}
	formatOnce.Do(func() {
		formatCheck = validator.New()
		_ = formatCheck.RegisterValidation("phoneish", func(fl validator.FieldLevel) bool {
			digits := 0
			for _, r := range fl.Field().String() {
				switch {
				case r >= '0' && r <= '9':
					digits++
				case strings.ContainsRune(" +-().", r):
				default:
					return false
				}
			}
			return digits >= 7
		})
	})
	if err := formatCheck.Var(value, tag); err != nil {
		switch t {
		case template.FieldTypeDate:
			return fmt.Errorf("use the %s format", template.DateLayout)
		case template.FieldTypeNumber:
			return errors.New("enter a number")
		default:
			return fmt.Errorf("not a valid %s", t)
		}
	}
	return nil
}
