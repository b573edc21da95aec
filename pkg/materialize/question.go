package materialize

import (
	"fmt"
	"strconv"
	"strings"
)

// QuestionType is the builder-facing question kind.
type QuestionType string

const (
	QuestionFreeResponse   QuestionType = "free-response"
	QuestionScale          QuestionType = "scale"
	QuestionMultipleChoice QuestionType = "multiple-choice"
)

// Valid reports whether t is one of the declared question kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionFreeResponse, QuestionScale, QuestionMultipleChoice:
		return true
	default:
		return false
	}
}

const (
	DefaultScaleMin = 1
	DefaultScaleMax = 10
)

// DefaultOptions returns the placeholder choices used when a choice field
// declares none.
func DefaultOptions() []string {
	return []string{"Option 1", "Option 2"}
}

// Question is a builder entry. Options is set only for multiple-choice and
// the scale bounds only for scale questions.
type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	ScaleMin *int         `json:"scaleMin,omitempty"`
	ScaleMax *int         `json:"scaleMax,omitempty"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.ScaleMin != nil {
		v := *q.ScaleMin
		out.ScaleMin = &v
	}
	if q.ScaleMax != nil {
		v := *q.ScaleMax
		out.ScaleMax = &v
	}
	return out
}

// QuestionID returns the traceable id for the field at the given indexes.
func QuestionID(sectionIndex, fieldIndex int) string {
	return fmt.Sprintf("%d-%d", sectionIndex, fieldIndex)
}

// ParseQuestionID reverses QuestionID.
func ParseQuestionID(id string) (sectionIndex, fieldIndex int, ok bool) {
	left, right, found := strings.Cut(id, "-")
	if !found {
		return 0, 0, false
	}
	s, err := strconv.Atoi(left)
	if err != nil || s < 0 {
		return 0, 0, false
	}
	f, err := strconv.Atoi(right)
	if err != nil || f < 0 {
		return 0, 0, false
	}
	return s, f, true
}

func intPtr(v int) *int { return &v }
