package template

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedTemplate is the sentinel every ValidationError unwraps to.
var ErrMalformedTemplate = errors.New("template: malformed template")

// Issue is a single validation failure.
type Issue struct {
	TemplateID string `json:"templateId"`
	Path       string `json:"path"`
	Message    string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.TemplateID, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.TemplateID, i.Path, i.Message)
}

// ValidationError aggregates every issue found in one or more templates.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrMalformedTemplate.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s: %s", ErrMalformedTemplate.Error(), strings.Join(parts, "; "))
}

// Unwrap exposes ErrMalformedTemplate to errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedTemplate
}

// Merge appends the issues of other validation errors, returning nil when
// nothing was collected.
func Merge(errs ...error) error {
	var merged []Issue
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			merged = append(merged, verr.Issues...)
			continue
		}
		merged = append(merged, Issue{Message: err.Error()})
	}
	if len(merged) == 0 {
		return nil
	}
	return &ValidationError{Issues: merged}
}

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structCheck = validator.New(validator.WithRequiredStructEnabled())
	})
	return structCheck
}

// Validate checks struct constraints and conditional dependencies. A
// conditional must reference a field that appears earlier in traversal
// order (sections in order, then fields in order).
func Validate(t FormTemplate) error {
	issues := structIssues(t.ID, t)
	issues = append(issues, dependencyIssues(t)...)
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// ValidateCommunity runs Validate plus the community metadata checks.
func ValidateCommunity(t CommunityTemplate) error {
	issues := structIssues(t.ID, t)
	issues = append(issues, dependencyIssues(t.FormTemplate)...)
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func structIssues(id string, value any) []Issue {
	err := structValidator().Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{TemplateID: id, Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			TemplateID: id,
			Path:       trimNamespace(fe.Namespace()),
			Message:    describeTag(fe),
		})
	}
	return issues
}

func trimNamespace(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	return strings.TrimPrefix(ns, "FormTemplate.")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s layout", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

func dependencyIssues(t FormTemplate) []Issue {
	declared := make(map[string]struct{})
	for _, section := range t.Sections {
		for _, field := range section.Fields {
			declared[field.ID] = struct{}{}
		}
	}

	var issues []Issue
	// Field ids key responses and conditionals, so they are unique across
	// the whole template, not just within a section.
	seen := make(map[string]struct{}, len(declared))
	owner := make(map[string]string, len(declared))
	for si, section := range t.Sections {
		for fi, field := range section.Fields {
			path := fmt.Sprintf("sections[%d].fields[%d]", si, fi)
			if first, dup := owner[field.ID]; dup && field.ID != "" {
				issues = append(issues, Issue{TemplateID: t.ID, Path: path, Message: fmt.Sprintf("duplicate field id %q, first declared in section %q", field.ID, first)})
			} else {
				owner[field.ID] = section.ID
			}

			if cond := field.Conditional; cond != nil {
				target := strings.TrimSpace(cond.DependsOn)
				switch {
				case target == "":
				case target == field.ID:
					issues = append(issues, Issue{TemplateID: t.ID, Path: path + ".conditional", Message: fmt.Sprintf("field %q depends on itself", field.ID)})
				default:
					if _, earlier := seen[target]; !earlier {
						msg := fmt.Sprintf("dependsOn %q does not resolve to any field", target)
						if _, later := declared[target]; later {
							msg = fmt.Sprintf("dependsOn %q refers to a later field", target)
						}
						issues = append(issues, Issue{TemplateID: t.ID, Path: path + ".conditional.dependsOn", Message: msg})
					}
				}
				if cond.ShowIf.Empty() {
					issues = append(issues, Issue{TemplateID: t.ID, Path: path + ".conditional.showIf", Message: "showIf requires at least one value"})
				}
			}
			seen[field.ID] = struct{}{}
		}
	}
	return issues
}
