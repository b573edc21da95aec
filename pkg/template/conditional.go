package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Conditional makes a field visible only when the response to DependsOn
// matches ShowIf.
type Conditional struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn" validate:"required"`
	ShowIf    ShowIf `json:"showIf" yaml:"showIf"`
}

// ShowIf holds the value (or values) a dependency must match. Documents may
// spell it as a scalar or a list; the original spelling round-trips.
type ShowIf struct {
	Values []string
	List   bool
}

// Equals builds a single-value rule.
func Equals(value string) ShowIf {
	return ShowIf{Values: []string{value}}
}

// OneOf builds a set-membership rule.
func OneOf(values ...string) ShowIf {
	return ShowIf{Values: append([]string(nil), values...), List: true}
}

// Matches reports whether value satisfies the rule. Comparison is exact.
func (s ShowIf) Matches(value string) bool {
	for _, candidate := range s.Values {
		if candidate == value {
			return true
		}
	}
	return false
}

// Empty reports whether the rule carries no values.
func (s ShowIf) Empty() bool {
	return len(s.Values) == 0
}

func (s ShowIf) String() string {
	if s.List {
		return "[" + strings.Join(s.Values, ", ") + "]"
	}
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

// MarshalJSON emits a string for single-value rules and an array otherwise.
func (s ShowIf) MarshalJSON() ([]byte, error) {
	if !s.List && len(s.Values) == 1 {
		return json.Marshal(s.Values[0])
	}
	values := s.Values
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// UnmarshalJSON accepts a string or an array of strings.
func (s *ShowIf) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = Equals(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("template: showIf must be a string or list of strings: %w", err)
	}
	*s = OneOf(list...)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (s ShowIf) MarshalYAML() (any, error) {
	if !s.List && len(s.Values) == 1 {
		return s.Values[0], nil
	}
	return s.Values, nil
}

// UnmarshalYAML accepts a scalar or a sequence node.
func (s *ShowIf) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = Equals(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("template: decode showIf list: %w", err)
		}
		*s = OneOf(list...)
		return nil
	default:
		return fmt.Errorf("template: showIf must be a string or list of strings (line %d)", node.Line)
	}
}
