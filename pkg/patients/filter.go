package patients

import (
	"strings"
	"time"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// DefaultCutoff splits recent visits from overdue checkups when no cutoff is
// configured.
const DefaultCutoff = "2024-01-12"

// Chip ids understood by Filter.
const (
	ChipActive   = "active"
	ChipFollowUp = "follow-up"
	ChipCritical = "critical"
	ChipRecent   = "recent"
	ChipOverdue  = "overdue"
)

// ChipKind groups chips for display.
type ChipKind string

const (
	ChipKindStatus     ChipKind = "status"
	ChipKindDepartment ChipKind = "department"
	ChipKindTime       ChipKind = "time"
)

// Chip describes a toggleable search filter.
type Chip struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  ChipKind `json:"type"`
}

var departments = []string{"Cardiology", "Dermatology", "Orthopedics", "Pediatrics", "Neurology"}

// Chips lists the filter chips offered by the search screen.
func Chips() []Chip {
	out := []Chip{
		{ID: ChipActive, Label: "Active Patients", Kind: ChipKindStatus},
		{ID: ChipFollowUp, Label: "Follow-up Required", Kind: ChipKindStatus},
		{ID: ChipCritical, Label: "Critical Care", Kind: ChipKindStatus},
	}
	for _, dept := range departments {
		out = append(out, Chip{ID: strings.ToLower(dept), Label: dept, Kind: ChipKindDepartment})
	}
	return append(out,
		Chip{ID: ChipRecent, Label: "Recent Visits", Kind: ChipKindTime},
		Chip{ID: ChipOverdue, Label: "Overdue Checkup", Kind: ChipKindTime},
	)
}

// Query is a patient search request.
type Query struct {
	Text   string   `json:"query" query:"q"`
	Chips  []string `json:"filters" query:"filter"`
	Cutoff string   `json:"cutoff,omitempty" query:"cutoff"`
}

// Filter returns the patients matching q in input order. The text must
// appear, case-insensitively, in the name, condition or department. When
// chips are active a patient must also satisfy at least one of them.
func Filter(patients []Patient, q Query) []Patient {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	cutoff, hasCutoff := parseDay(q.Cutoff)
	if strings.TrimSpace(q.Cutoff) == "" {
		cutoff, hasCutoff = parseDay(DefaultCutoff)
	}

	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if !matchesText(p, needle) {
			continue
		}
		if len(q.Chips) > 0 && !matchesAnyChip(p, q.Chips, cutoff, hasCutoff) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesText(p Patient, needle string) bool {
	if needle == "" {
		return true
	}
	for _, hay := range []string{p.Name, p.Condition, p.Department} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func matchesAnyChip(p Patient, chips []string, cutoff time.Time, hasCutoff bool) bool {
	for _, raw := range chips {
		chip := strings.ToLower(strings.TrimSpace(raw))
		switch chip {
		case ChipActive, ChipFollowUp, ChipCritical:
			if strings.EqualFold(p.Status, chip) {
				return true
			}
		case ChipRecent, ChipOverdue:
			visit, ok := parseDay(p.LastVisit)
			if !ok || !hasCutoff {
				continue
			}
			if chip == ChipRecent && visit.After(cutoff) {
				return true
			}
			if chip == ChipOverdue && visit.Before(cutoff) {
				return true
			}
		default:
			if isDepartmentChip(chip) && strings.EqualFold(p.Department, chip) {
				return true
			}
		}
	}
	return false
}

func isDepartmentChip(chip string) bool {
	for _, dept := range departments {
		if strings.ToLower(dept) == chip {
			return true
		}
	}
	return false
}

func parseDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(template.DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
