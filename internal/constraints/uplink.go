package constraints

import (
	"fmt"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

// UplinkPrecedenceConstraint enforces that a task's commands reach the
// satellite before the task executes, with a minimum gap between uplink
// completion and imaging start.
type UplinkPrecedenceConstraint struct {
	MinGapAfterUplinkSec float64
}

// CheckTask finds the uplink carrying the task's commands and checks it
// completes early enough. A missing uplink is an error; a present but
// too-close uplink is a warning.
func (c UplinkPrecedenceConstraint) CheckTask(task *model.ImagingTask, uplinks []*model.UplinkAction) []Violation {
	var carrier *model.UplinkAction
	for _, u := range uplinks {
		if u.SatelliteId != task.SatelliteId {
			continue
		}
		if !u.ContainsTask(task.Id) {
			continue
		}
		if carrier == nil || u.End.Before(carrier.End) {
			carrier = u
		}
	}

	if carrier == nil {
		return []Violation{{
			Type:      "missing_uplink",
			Severity:  SeverityError,
			Message:   fmt.Sprintf("task %s has no scheduled command uplink", task.Id),
			ActionIds: []string{task.Id},
		}}
	}

	gap := task.Start.Sub(carrier.End).Seconds()
	if gap < 0 {
		return []Violation{{
			Type:     "missing_uplink",
			Severity: SeverityError,
			Message: fmt.Sprintf("uplink %s for task %s completes after the task starts",
				carrier.Id, task.Id),
			ActionIds: []string{carrier.Id, task.Id},
		}}
	}
	if gap < c.MinGapAfterUplinkSec {
		return []Violation{{
			Type:     "insufficient_uplink_gap",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("uplink %s completes %.1fs before task %s, recommended %.1fs",
				carrier.Id, gap, task.Id, c.MinGapAfterUplinkSec),
			ActionIds:      []string{carrier.Id, task.Id},
			RequiredGapSec: c.MinGapAfterUplinkSec,
			ActualGapSec:   gap,
		}}
	}
	return nil
}

// CheckAllTasks runs the precedence check for every task.
func (c UplinkPrecedenceConstraint) CheckAllTasks(tasks []*model.ImagingTask, uplinks []*model.UplinkAction) []Violation {
	var violations []Violation
	for _, t := range tasks {
		violations = append(violations, c.CheckTask(t, uplinks)...)
	}
	return violations
}
