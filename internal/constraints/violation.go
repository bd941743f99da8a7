package constraints

import "fmt"

// Severity grades a violation. Errors make a plan infeasible; warnings are
// reported but tolerated.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one detected constraint breach.
type Violation struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	ActionIds []string `json:"action_ids,omitempty"`

	RequiredGapSec float64 `json:"required_gap_sec,omitempty"`
	ActualGapSec   float64 `json:"actual_gap_sec,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Type, v.Message)
}

// HasErrors reports whether any violation carries error severity.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}
