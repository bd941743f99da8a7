package model

import (
	"math"
	"time"
)

// UplinkRequest asks the scheduler to place one command uplink for a batch
// of tasks. Earliest is when the commands are ready; Latest is when the
// uplink must be complete for the first task to still meet its precedence
// gap.
type UplinkRequest struct {
	SatelliteId string    `json:"satellite_id"`
	TaskIds     []string  `json:"task_ids"`
	Earliest    time.Time `json:"earliest"`
	Latest      time.Time `json:"latest"`
	Priority    int       `json:"priority"`
}

// NumTasks is the size of the command batch.
func (r UplinkRequest) NumTasks() int { return len(r.TaskIds) }

// UplinkAction is one committed command uplink. Immutable once created.
type UplinkAction struct {
	Id          string `json:"id"`
	SatelliteId string `json:"satellite_id"`
	StationId   string `json:"station_id"`
	AntennaId   string `json:"antenna_id"`

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_sec"`

	TaskIds []string `json:"task_ids"`
}

// ContainsTask reports whether this uplink carries commands for the task.
func (a *UplinkAction) ContainsTask(taskId string) bool {
	for _, id := range a.TaskIds {
		if id == taskId {
			return true
		}
	}
	return false
}

// DownlinkAction is one committed data transfer. For aggregated transfers
// AntennaIds lists every dish and RateMbps is the summed rate; AntennaId
// stays the primary dish for single-antenna compatibility. Immutable once
// created.
type DownlinkAction struct {
	Id          string `json:"id"`
	SatelliteId string `json:"satellite_id"`
	StationId   string `json:"station_id"`
	AntennaId   string `json:"antenna_id"`
	TaskId      string `json:"task_id,omitempty"`

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_sec"`

	DataVolumeGb float64 `json:"data_volume_gb"`
	RateMbps     float64 `json:"rate_mbps"`

	AntennaIds   []string `json:"antenna_ids,omitempty"`
	IsAggregated bool     `json:"is_aggregated"`

	// Set for segmented transfers only.
	Segment            *DownlinkSegment `json:"segment,omitempty"`
	SegmentOverheadSec float64          `json:"segment_overhead_sec,omitempty"`
}

// NumAntennas returns how many dishes serve the transfer.
func (a *DownlinkAction) NumAntennas() int {
	if len(a.AntennaIds) == 0 {
		return 1
	}
	return len(a.AntennaIds)
}

// DownlinkSegment is one piece of a task's data volume in a segmented plan.
// TotalSegments is back-filled once the whole plan is known.
type DownlinkSegment struct {
	SegmentId      string  `json:"segment_id"`
	ParentTaskId   string  `json:"parent_task_id"`
	SequenceNumber int     `json:"sequence_number"`
	TotalSegments  int     `json:"total_segments"`
	DataVolumeGb   float64 `json:"data_volume_gb"`
	DataOffsetGb   float64 `json:"data_offset_gb"`
}

// IsFirst reports whether the segment opens the plan.
func (s *DownlinkSegment) IsFirst() bool { return s.SequenceNumber == 1 }

// IsLast reports whether the segment closes the plan.
func (s *DownlinkSegment) IsLast() bool { return s.SequenceNumber == s.TotalSegments }

// VolumeTolerance bounds the float drift allowed when summing segment
// volumes against the requested total.
const VolumeTolerance = 0.001

// DownlinkPlan groups the actions that jointly move one task's data volume.
type DownlinkPlan struct {
	PlanId      string  `json:"plan_id"`
	SatelliteId string  `json:"satellite_id"`
	TaskId      string  `json:"task_id"`
	TotalDataGb float64 `json:"total_data_gb"`

	Actions []*DownlinkAction `json:"actions"`

	IsSegmented  bool `json:"is_segmented"`
	IsAggregated bool `json:"is_aggregated"`
}

// CompletedDataGb sums the volume carried by the plan's actions.
func (p *DownlinkPlan) CompletedDataGb() float64 {
	total := 0.0
	for _, a := range p.Actions {
		total += a.DataVolumeGb
	}
	return total
}

// IsComplete reports whether the plan covers the requested volume within
// the float tolerance.
func (p *DownlinkPlan) IsComplete() bool {
	return math.Abs(p.CompletedDataGb()-p.TotalDataGb) < VolumeTolerance
}

// TotalDurationSec sums the durations of the plan's actions.
func (p *DownlinkPlan) TotalDurationSec() float64 {
	total := 0.0
	for _, a := range p.Actions {
		total += a.DurationSec
	}
	return total
}

// EarliestStart returns the plan's first action start, or the zero time for
// an empty plan.
func (p *DownlinkPlan) EarliestStart() time.Time {
	var earliest time.Time
	for _, a := range p.Actions {
		if earliest.IsZero() || a.Start.Before(earliest) {
			earliest = a.Start
		}
	}
	return earliest
}

// LatestEnd returns the plan's last action end, or the zero time for an
// empty plan.
func (p *DownlinkPlan) LatestEnd() time.Time {
	var latest time.Time
	for _, a := range p.Actions {
		if a.End.After(latest) {
			latest = a.End
		}
	}
	return latest
}
