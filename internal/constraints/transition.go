package constraints

import (
	"fmt"
	"sort"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

// TransitionConstraint checks the minimum gaps a satellite needs between
// consecutive on-board activities: retargeting between two imaging tasks,
// antenna retargeting between downlinks to different stations, and the
// payload-to-transmitter handover between an imaging task and the downlink
// of its data.
type TransitionConstraint struct{}

// CheckImagingSequence verifies the retarget gap between consecutive imaging
// tasks of one satellite. Tasks of other satellites are ignored.
func (TransitionConstraint) CheckImagingSequence(satellite *model.Satellite, tasks []*model.ImagingTask) []Violation {
	var own []*model.ImagingTask
	for _, t := range tasks {
		if t.SatelliteId == satellite.Id {
			own = append(own, t)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].Start.Before(own[j].Start) })

	required := satellite.ImagingSwitchTime()
	var violations []Violation
	for i := 1; i < len(own); i++ {
		gap := own[i].Start.Sub(own[i-1].End).Seconds()
		if gap < required {
			violations = append(violations, Violation{
				Type:     "imaging_transition",
				Severity: SeverityError,
				Message: fmt.Sprintf("satellite %s: %.1fs between tasks %s and %s, needs %.1fs",
					satellite.Id, gap, own[i-1].Id, own[i].Id, required),
				ActionIds:      []string{own[i-1].Id, own[i].Id},
				RequiredGapSec: required,
				ActualGapSec:   gap,
			})
		}
	}
	return violations
}

// CheckDownlinkSequence verifies the antenna retarget gap between consecutive
// downlinks of one satellite. Back-to-back downlinks to the same station need
// no retargeting and are exempt.
func (TransitionConstraint) CheckDownlinkSequence(satellite *model.Satellite, actions []*model.DownlinkAction) []Violation {
	var own []*model.DownlinkAction
	for _, a := range actions {
		if a.SatelliteId == satellite.Id {
			own = append(own, a)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].Start.Before(own[j].Start) })

	required := satellite.DownlinkSwitchTime()
	var violations []Violation
	for i := 1; i < len(own); i++ {
		if own[i].StationId == own[i-1].StationId {
			continue
		}
		gap := own[i].Start.Sub(own[i-1].End).Seconds()
		if gap < required {
			violations = append(violations, Violation{
				Type:     "downlink_transition",
				Severity: SeverityError,
				Message: fmt.Sprintf("satellite %s: %.1fs between downlinks %s and %s, needs %.1fs",
					satellite.Id, gap, own[i-1].Id, own[i].Id, required),
				ActionIds:      []string{own[i-1].Id, own[i].Id},
				RequiredGapSec: required,
				ActualGapSec:   gap,
			})
		}
	}
	return violations
}

// CheckImagingToDownlink verifies the payload handover gap between the
// satellite's last imaging task and its first subsequent downlink. Downlinks
// that start before the last task ends are interleaved with imaging and are
// not this check's concern.
func (TransitionConstraint) CheckImagingToDownlink(satellite *model.Satellite, tasks []*model.ImagingTask, actions []*model.DownlinkAction) []Violation {
	var lastTask *model.ImagingTask
	for _, t := range tasks {
		if t.SatelliteId != satellite.Id {
			continue
		}
		if lastTask == nil || t.End.After(lastTask.End) {
			lastTask = t
		}
	}
	var firstDownlink *model.DownlinkAction
	for _, a := range actions {
		if a.SatelliteId != satellite.Id {
			continue
		}
		if firstDownlink == nil || a.Start.Before(firstDownlink.Start) {
			firstDownlink = a
		}
	}
	if lastTask == nil || firstDownlink == nil {
		return nil
	}

	gap := firstDownlink.Start.Sub(lastTask.End).Seconds()
	if gap <= 0 {
		return nil
	}

	required := satellite.ImagingToDownlinkTime()
	if gap >= required {
		return nil
	}
	return []Violation{{
		Type:     "imaging_to_downlink",
		Severity: SeverityError,
		Message: fmt.Sprintf("satellite %s: downlink %s starts %.1fs after task %s ends, needs %.1fs",
			satellite.Id, firstDownlink.Id, gap, lastTask.Id, required),
		ActionIds:      []string{lastTask.Id, firstDownlink.Id},
		RequiredGapSec: required,
		ActualGapSec:   gap,
	}}
}

// CheckAllTransitions runs every transition check for every satellite.
func (c TransitionConstraint) CheckAllTransitions(satellites []*model.Satellite, tasks []*model.ImagingTask, downlinks []*model.DownlinkAction) []Violation {
	var violations []Violation
	for _, sat := range satellites {
		violations = append(violations, c.CheckImagingSequence(sat, tasks)...)
		violations = append(violations, c.CheckDownlinkSequence(sat, downlinks)...)
		violations = append(violations, c.CheckImagingToDownlink(sat, tasks, downlinks)...)
	}
	return violations
}
