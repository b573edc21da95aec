package patients

import "errors"

// ErrPatientNotFound is returned by Get for unknown ids.
var ErrPatientNotFound = errors.New("patients: patient not found")

// Patient is a single patient record. Optional text columns are empty when
// unset and stored as NULL.
type Patient struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Age              *int   `json:"age"`
	Department       string `json:"department,omitempty"`
	Status           string `json:"status,omitempty"`
	LastVisit        string `json:"last_visit,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Condition        string `json:"condition,omitempty"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}
