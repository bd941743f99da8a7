package constraints

import (
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
)

var log = logging.Get()

// Checker aggregates every constraint family over a committed plan.
type Checker struct {
	transition TransitionConstraint
	antenna    AntennaResourceConstraint
	uplink     UplinkPrecedenceConstraint
}

// NewChecker builds a checker with the configured uplink precedence gap.
func NewChecker(minGapAfterUplinkSec float64) *Checker {
	return &Checker{
		uplink: UplinkPrecedenceConstraint{MinGapAfterUplinkSec: minGapAfterUplinkSec},
	}
}

// Report is the outcome of a full validation pass. Feasible means no
// violation of error severity; warnings do not block a plan.
type Report struct {
	Violations []Violation `json:"violations"`
	Feasible   bool        `json:"feasible"`
}

// Errors returns the error-severity subset.
func (r Report) Errors() []Violation {
	var errs []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			errs = append(errs, v)
		}
	}
	return errs
}

// Warnings returns the warning-severity subset.
func (r Report) Warnings() []Violation {
	var warns []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarning {
			warns = append(warns, v)
		}
	}
	return warns
}

// Check validates a complete plan: satellite transitions, antenna resources
// and uplink precedence.
func (c *Checker) Check(satellites []*model.Satellite, stations []*model.TTCStation, tasks []*model.ImagingTask, uplinks []*model.UplinkAction, downlinks []*model.DownlinkAction) Report {
	var violations []Violation
	violations = append(violations, c.transition.CheckAllTransitions(satellites, tasks, downlinks)...)
	violations = append(violations, c.antenna.CheckSchedule(stations, uplinks, downlinks)...)
	violations = append(violations, c.uplink.CheckAllTasks(tasks, uplinks)...)

	report := Report{
		Violations: violations,
		Feasible:   !HasErrors(violations),
	}

	log.Debug().
		Int("violations", len(violations)).
		Bool("feasible", report.Feasible).
		Msg("constraint check complete")

	return report
}
