package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	textAreas    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	multiPos     int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func historyTemplate() template.FormTemplate {
	lo, hi := 1, 5
	return template.FormTemplate{
		ID: "history",
		Sections: []template.FormSection{
			{ID: "social", Title: "Social History", Fields: []template.FormField{
				{ID: "smoking", Type: template.FieldTypeRadio, Label: "Smoking", Required: true, Options: []string{"Never", "Former smoker", "Current smoker"}},
				{ID: "packs", Type: template.FieldTypeNumber, Label: "Packs per day", Conditional: &template.Conditional{DependsOn: "smoking", ShowIf: template.OneOf("Former smoker", "Current smoker")}},
			}},
			{ID: "mood", Title: "Mood", Fields: []template.FormField{
				{ID: "stress", Type: template.FieldTypeScale, Label: "Stress", Min: &lo, Max: &hi},
				{ID: "symptoms", Type: template.FieldTypeCheckbox, Label: "Symptoms", Options: []string{"Anxiety", "Insomnia"}},
				{ID: "notes", Type: template.FieldTypeTextarea, Label: "Notes"},
			}},
		},
	}
}

func TestRendererCollectsVisibleFields(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{2},
		inputs:    []string{"abc", "1.5", "9", "4"},
		multiIdx:  [][]int{{0, 1}},
		textAreas: []string{"  sleeps poorly "},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), historyTemplate(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"smoking":  "Current smoker",
		"packs":    "1.5",
		"stress":   float64(4),
		"symptoms": []any{"Anxiety", "Insomnia"},
		"notes":    "sleeps poorly",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("responses mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{
		"Social History",
		"Invalid packs: enter a number",
		"Mood",
		"Invalid stress: enter a whole number between 1 and 5",
	}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererSkipsHiddenFollowUps(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		inputs:    []string{""},
		multiIdx:  [][]int{{}},
		textAreas: []string{""},
	}
	prefill := map[string]any{"packs": "2"}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), historyTemplate(), render.RenderOptions{Responses: prefill})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, prompt := range driver.prompts {
		if strings.HasPrefix(prompt, "Packs") {
			t.Fatalf("hidden follow-up was prompted")
		}
	}
	if strings.TrimSpace(string(out)) != "Smoking *: Never" {
		t.Fatalf("unexpected pretty output %q", out)
	}
	if prefill["packs"] != "2" {
		t.Fatalf("caller prefill was modified")
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRendererPropagatesAbort(t *testing.T) {
	driver := &stubDriver{}
	r := New(WithPromptDriver(driver))
	if _, err := r.Render(context.Background(), historyTemplate(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to surface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, historyTemplate(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStateCopiesPrefill(t *testing.T) {
	prefill := map[string]any{"symptoms": []string{"Anxiety"}}
	state := NewState(prefill)
	state.Set("symptoms", []string{"Insomnia"})
	state.Set("missing", nil)

	if diff := cmp.Diff([]string{"Anxiety"}, prefill["symptoms"]); diff != "" {
		t.Fatalf("prefill mutated (-want +got):\n%s", diff)
	}
	got := state.Responses()
	got["symptoms"] = "changed"
	if v, _ := state.Get("symptoms"); cmp.Diff([]string{"Insomnia"}, v) != "" {
		t.Fatalf("Responses must return a copy, got %v", v)
	}
}
