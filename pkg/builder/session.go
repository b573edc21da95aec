package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formtemplate/pkg/materialize"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

const (
	// PlaceholderQuestion is the prompt given to new questions.
	PlaceholderQuestion = "Enter your question here..."
	// DefaultTitle names a session that has not been titled yet.
	DefaultTitle = "Untitled Form"

	minQuestions = 1
	minOptions   = 2
)

var (
	ErrQuestionNotFound    = errors.New("builder: question not found")
	ErrLastQuestion        = errors.New("builder: a form keeps at least one question")
	ErrMinimumOptions      = errors.New("builder: a multiple-choice question keeps at least two options")
	ErrNoOptions           = errors.New("builder: question has no options")
	ErrOptionIndex         = errors.New("builder: option index out of range")
	ErrInvalidQuestionType = errors.New("builder: invalid question type")
)

// Option customises a Session.
type Option func(*Session)

// WithIDGenerator replaces the question id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces the clock used when sharing.
func WithClock(fn func() time.Time) Option {
	return func(s *Session) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithMaterializer replaces the materializer used by ApplyTemplate.
func WithMaterializer(m *materialize.Materializer) Option {
	return func(s *Session) {
		if m != nil {
			s.materializer = m
		}
	}
}

// Session is the in-progress form. It is owned by a single caller and is not
// safe for concurrent use.
type Session struct {
	id          string
	title       string
	description string
	category    template.Category
	sourceID    string
	questions   []materialize.Question

	newID        func() string
	now          func() time.Time
	materializer *materialize.Materializer
}

// New starts a session holding one free-response placeholder question.
func New(options ...Option) *Session {
	s := &Session{
		title:        DefaultTitle,
		category:     template.CategoryAssessment,
		newID:        uuid.NewString,
		now:          time.Now,
		materializer: materialize.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.id = s.newID()
	s.questions = []materialize.Question{{
		ID:       s.newID(),
		Type:     materialize.QuestionFreeResponse,
		Question: PlaceholderQuestion,
	}}
	return s
}

// ID identifies the session and the template it produces.
func (s *Session) ID() string { return s.id }

// Title returns the form title.
func (s *Session) Title() string { return s.title }

// Description returns the form description.
func (s *Session) Description() string { return s.description }

// SourceTemplateID returns the id of the last template applied, if any.
func (s *Session) SourceTemplateID() string { return s.sourceID }

// SetTitle renames the form. Blank titles reset to DefaultTitle.
func (s *Session) SetTitle(title string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = DefaultTitle
	}
	s.title = trimmed
}

// SetDescription replaces the form description.
func (s *Session) SetDescription(description string) {
	s.description = strings.TrimSpace(description)
}

// SetCategory selects the category the produced template is filed under.
func (s *Session) SetCategory(raw string) error {
	category, ok := template.ParseCategory(raw)
	if !ok {
		return fmt.Errorf("builder: unknown category %q", raw)
	}
	s.category = category
	return nil
}

// Questions returns a copy of the current question list.
func (s *Session) Questions() []materialize.Question {
	out := make([]materialize.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

// ApplyTemplate replaces the question list with the materialized template.
// When the template yields no questions the current list is kept and false
// is returned.
func (s *Session) ApplyTemplate(t template.FormTemplate) bool {
	questions := s.materializer.Materialize(t)
	if len(questions) == 0 {
		return false
	}
	s.questions = questions
	s.sourceID = t.ID
	if name := strings.TrimSpace(t.Name); name != "" {
		s.title = name
	}
	s.description = strings.TrimSpace(t.Description)
	if _, ok := template.ParseCategory(string(t.Category)); ok {
		s.category = t.Category
	}
	return true
}

// AddQuestion appends a question of kind with placeholder content and
// returns it.
func (s *Session) AddQuestion(kind materialize.QuestionType) (materialize.Question, error) {
	if !kind.Valid() {
		return materialize.Question{}, fmt.Errorf("%w: %q", ErrInvalidQuestionType, kind)
	}
	q := materialize.Question{
		ID:       s.newID(),
		Type:     kind,
		Question: PlaceholderQuestion,
	}
	applyKindDefaults(&q)
	s.questions = append(s.questions, q)
	return q.Clone(), nil
}

// QuestionUpdate carries the fields to change; nil fields are left alone.
type QuestionUpdate struct {
	Question *string
	Type     *materialize.QuestionType
	ScaleMin *int
	ScaleMax *int
}

// UpdateQuestion applies update to the question with id.
func (s *Session) UpdateQuestion(id string, update QuestionUpdate) (materialize.Question, error) {
	idx, err := s.index(id)
	if err != nil {
		return materialize.Question{}, err
	}
	q := s.questions[idx].Clone()
	if update.Type != nil {
		if !update.Type.Valid() {
			return materialize.Question{}, fmt.Errorf("%w: %q", ErrInvalidQuestionType, *update.Type)
		}
		if q.Type != *update.Type {
			q.Type = *update.Type
			applyKindDefaults(&q)
		}
	}
	if update.Question != nil {
		q.Question = *update.Question
	}
	if q.Type == materialize.QuestionScale {
		if update.ScaleMin != nil {
			v := *update.ScaleMin
			q.ScaleMin = &v
		}
		if update.ScaleMax != nil {
			v := *update.ScaleMax
			q.ScaleMax = &v
		}
	}
	s.questions[idx] = q
	return q.Clone(), nil
}

// DeleteQuestion removes the question with id. The last remaining question
// cannot be removed.
func (s *Session) DeleteQuestion(id string) error {
	idx, err := s.index(id)
	if err != nil {
		return err
	}
	if len(s.questions) <= minQuestions {
		return ErrLastQuestion
	}
	s.questions = append(s.questions[:idx], s.questions[idx+1:]...)
	return nil
}

// AddOption appends "Option N" to a multiple-choice question.
func (s *Session) AddOption(id string) (string, error) {
	idx, err := s.optionQuestion(id)
	if err != nil {
		return "", err
	}
	q := &s.questions[idx]
	option := fmt.Sprintf("Option %d", len(q.Options)+1)
	q.Options = append(q.Options, option)
	return option, nil
}

// UpdateOption replaces the option at index.
func (s *Session) UpdateOption(id string, index int, value string) error {
	idx, err := s.optionQuestion(id)
	if err != nil {
		return err
	}
	q := &s.questions[idx]
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, index)
	}
	q.Options[index] = value
	return nil
}

// RemoveOption deletes the option at index, keeping at least two options.
func (s *Session) RemoveOption(id string, index int) error {
	idx, err := s.optionQuestion(id)
	if err != nil {
		return err
	}
	q := &s.questions[idx]
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, index)
	}
	if len(q.Options) <= minOptions {
		return ErrMinimumOptions
	}
	q.Options = append(q.Options[:index], q.Options[index+1:]...)
	return nil
}

func (s *Session) index(id string) (int, error) {
	for i, q := range s.questions {
		if q.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
}

func (s *Session) optionQuestion(id string) (int, error) {
	idx, err := s.index(id)
	if err != nil {
		return -1, err
	}
	if s.questions[idx].Options == nil {
		return -1, fmt.Errorf("%w: %q", ErrNoOptions, id)
	}
	return idx, nil
}

func applyKindDefaults(q *materialize.Question) {
	switch q.Type {
	case materialize.QuestionMultipleChoice:
		q.ScaleMin, q.ScaleMax = nil, nil
		if len(q.Options) == 0 {
			q.Options = materialize.DefaultOptions()
		}
	case materialize.QuestionScale:
		q.Options = nil
		if q.ScaleMin == nil {
			v := materialize.DefaultScaleMin
			q.ScaleMin = &v
		}
		if q.ScaleMax == nil {
			v := materialize.DefaultScaleMax
			q.ScaleMax = &v
		}
	default:
		q.Options = nil
		q.ScaleMin, q.ScaleMax = nil, nil
	}
}
