package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

const (
	defaultSegmentOverheadSec = 15.0
	defaultMaxSegments        = 10
)

// AggregatedDownlinkResult reports a multi-antenna parallel transfer attempt.
type AggregatedDownlinkResult struct {
	Success            bool
	Action             *model.DownlinkAction
	AntennaIds         []string
	AggregatedRateMbps float64
	Message            string
}

// SegmentedDownlinkResult reports a split-across-passes transfer attempt.
type SegmentedDownlinkResult struct {
	Success          bool
	Plan             *model.DownlinkPlan
	Actions          []*model.DownlinkAction
	TotalOverheadSec float64
	Message          string
}

// HybridDownlinkResult reports the combined strategy outcome. The plan may
// carry an aggregated action, segmented actions, or both.
type HybridDownlinkResult struct {
	Success bool
	Plan    *model.DownlinkPlan
	Message string
}

// AdvancedDownlinkScheduler layers aggregated (multi-antenna) and segmented
// (multi-pass) transfer strategies on top of the base scheduler's slot
// bookkeeping, so both kinds of action compete for the same antenna time.
type AdvancedDownlinkScheduler struct {
	base *TTCScheduler

	// MaxSegments bounds how many pieces one transfer may be split into.
	MaxSegments int

	// SegmentOverheadSec applies when the satellite type carries no
	// overhead of its own.
	SegmentOverheadSec float64

	planCounter int
}

// NewAdvancedDownlinkScheduler wraps an existing base scheduler.
func NewAdvancedDownlinkScheduler(base *TTCScheduler) *AdvancedDownlinkScheduler {
	return &AdvancedDownlinkScheduler{
		base:               base,
		MaxSegments:        defaultMaxSegments,
		SegmentOverheadSec: defaultSegmentOverheadSec,
	}
}

// Base exposes the underlying scheduler, mainly for clearing and reporting.
func (a *AdvancedDownlinkScheduler) Base() *TTCScheduler {
	return a.base
}

func (a *AdvancedDownlinkScheduler) nextPlanId() string {
	a.planCounter++
	return fmt.Sprintf("PLAN_%04d", a.planCounter)
}

// rated pairs a candidate window with the rate actually achievable on its
// antenna.
type rated struct {
	window  model.CandidateWindow
	antenna *model.Antenna
	rate    float64
}

// ScheduleAggregatedDownlink transmits dataVolumeGb in parallel over several
// antennas of one station during a single pass. Antennas are taken in
// descending rate order until the summed rate completes the transfer inside
// the window; all selected antennas get identical slots under one action id.
func (a *AdvancedDownlinkScheduler) ScheduleAggregatedDownlink(satellite *model.Satellite, dataVolumeGb float64, stationId string, window model.CandidateWindow, earliest time.Time) AggregatedDownlinkResult {
	if satellite.Type == nil || !satellite.Type.MultiAntennaCapable {
		return AggregatedDownlinkResult{
			Success: false,
			Message: fmt.Sprintf("satellite %s does not support multi-antenna downlink", satellite.Id),
		}
	}

	sched := a.base
	sched.mu.Lock()
	defer sched.mu.Unlock()

	station := sched.stations[stationId]
	if station == nil {
		return AggregatedDownlinkResult{
			Success: false,
			Message: fmt.Sprintf("unknown station %s", stationId),
		}
	}

	start := window.Start
	if !earliest.IsZero() && earliest.After(start) {
		start = earliest
	}
	if !start.Before(window.End) {
		return AggregatedDownlinkResult{
			Success: false,
			Message: "window already elapsed",
		}
	}
	windowSec := window.End.Sub(start).Seconds()

	heap := binaryheap.NewWith(func(x, y interface{}) int {
		ra := x.(rated).rate
		rb := y.(rated).rate
		if ra > rb {
			return -1
		}
		if ra < rb {
			return 1
		}
		return 0
	})
	for _, antenna := range station.Antennas {
		rate := window.RateMbps
		if antenna.MaxDataRateMbps < rate {
			rate = antenna.MaxDataRateMbps
		}
		if rate <= 0 {
			continue
		}
		heap.Push(rated{window: window, antenna: antenna, rate: rate})
	}

	maxAntennas := satellite.Type.MaxSimultaneousAntennas
	if maxAntennas <= 0 {
		maxAntennas = 1
	}

	var selected []rated
	totalRate := 0.0
	for len(selected) < maxAntennas {
		value, ok := heap.Pop()
		if !ok {
			break
		}
		candidate := value.(rated)

		// Probe the duration the pool would need with this antenna added.
		probeSec := transferDurationSec(dataVolumeGb, totalRate+candidate.rate)
		end := start.Add(secondsToDuration(probeSec))
		if end.After(window.End) && probeSec > windowSec {
			// Still too slow; keep the antenna anyway, more rate can only help.
			if available, _ := sched.slotAvailable(candidate.antenna, start, window.End, satellite.Id); !available {
				continue
			}
			selected = append(selected, candidate)
			totalRate += candidate.rate
			continue
		}
		if available, _ := sched.slotAvailable(candidate.antenna, start, end, satellite.Id); !available {
			continue
		}
		selected = append(selected, candidate)
		totalRate += candidate.rate
		break
	}

	if totalRate <= 0 {
		return AggregatedDownlinkResult{
			Success: false,
			Message: "no usable antennas at the station during the window",
		}
	}

	durationSec := transferDurationSec(dataVolumeGb, totalRate)
	end := start.Add(secondsToDuration(durationSec))
	if end.After(window.End) {
		return AggregatedDownlinkResult{
			Success:            false,
			AggregatedRateMbps: totalRate,
			Message: fmt.Sprintf("aggregate rate %.1f Mbps cannot complete %.2f GB inside the window",
				totalRate, dataVolumeGb),
		}
	}

	// Re-check every selected antenna against the final interval before
	// committing anything.
	for _, sel := range selected {
		if available, reason := sched.slotAvailable(sel.antenna, start, end, satellite.Id); !available {
			return AggregatedDownlinkResult{
				Success: false,
				Message: reason,
			}
		}
	}

	actionId := sched.nextActionId("ADL")
	antennaIds := make([]string, 0, len(selected))
	for _, sel := range selected {
		antennaIds = append(antennaIds, sel.antenna.Id)
		sched.addSlot(sel.antenna.Id, slot{
			start:       start,
			end:         end,
			actionId:    actionId,
			satelliteId: satellite.Id,
		})
	}
	sort.Strings(antennaIds)

	action := &model.DownlinkAction{
		Id:           actionId,
		SatelliteId:  satellite.Id,
		StationId:    stationId,
		AntennaId:    antennaIds[0],
		AntennaIds:   antennaIds,
		IsAggregated: len(antennaIds) > 1,
		Start:        start,
		End:          end,
		DurationSec:  durationSec,
		DataVolumeGb: dataVolumeGb,
		RateMbps:     totalRate,
	}
	sched.downlinks = append(sched.downlinks, action)

	log.Debug().
		Str("action", actionId).
		Str("satellite", satellite.Id).
		Strs("antennas", antennaIds).
		Float64("rate_mbps", totalRate).
		Msg("aggregated downlink scheduled")

	return AggregatedDownlinkResult{
		Success:            true,
		Action:             action,
		AntennaIds:         antennaIds,
		AggregatedRateMbps: totalRate,
		Message:            fmt.Sprintf("aggregated over %d antennas", len(antennaIds)),
	}
}

// plannedSegment is a segment candidate that has passed the slot check but
// has not been committed yet.
type plannedSegment struct {
	window   model.CandidateWindow
	antenna  *model.Antenna
	start    time.Time
	end      time.Time
	volumeGb float64
	rate     float64
	overhead float64
}

// PlanSegmentedDownlink splits the task's dataVolumeGb across several
// passes. Windows are consumed chronologically and greedily: each segment
// carries as much as its window allows after the re-acquisition overhead
// (charged on every segment after the first). All segments are validated
// before any slot is committed, so a failed plan leaves the schedule
// untouched.
func (a *AdvancedDownlinkScheduler) PlanSegmentedDownlink(satellite *model.Satellite, taskId string, dataVolumeGb float64, windows []model.CandidateWindow, earliest time.Time) SegmentedDownlinkResult {
	if satellite.Type == nil || !satellite.Type.SegmentedDownlinkCapable {
		return SegmentedDownlinkResult{
			Success: false,
			Message: fmt.Sprintf("satellite %s does not support segmented downlink", satellite.Id),
		}
	}

	overheadSec := satellite.Type.SegmentOverheadSec
	if overheadSec <= 0 {
		overheadSec = a.SegmentOverheadSec
	}
	if overheadSec <= 0 {
		overheadSec = defaultSegmentOverheadSec
	}

	sched := a.base
	sched.mu.Lock()
	defer sched.mu.Unlock()

	ordered := make([]model.CandidateWindow, len(windows))
	copy(ordered, windows)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })

	var segments []plannedSegment
	remainingGb := dataVolumeGb
	totalOverhead := 0.0

	maxSegments := a.MaxSegments
	if maxSegments <= 0 {
		maxSegments = defaultMaxSegments
	}

	for _, win := range ordered {
		if remainingGb <= model.VolumeTolerance {
			break
		}
		if len(segments) >= maxSegments {
			break
		}

		station := sched.stations[win.StationId]
		if station == nil {
			continue
		}
		antenna := station.GetAntenna(win.AntennaId)
		if antenna == nil {
			continue
		}

		rate := win.RateMbps
		if antenna.MaxDataRateMbps < rate {
			rate = antenna.MaxDataRateMbps
		}
		if rate <= 0 {
			continue
		}

		start := win.Start
		if !earliest.IsZero() && earliest.After(start) {
			start = earliest
		}

		overhead := 0.0
		if len(segments) > 0 {
			overhead = overheadSec
		}
		usableSec := win.End.Sub(start).Seconds() - overhead
		if usableSec <= 0 {
			continue
		}

		capacityGb := rate * usableSec / 8 / 1024
		segmentGb := remainingGb
		if capacityGb < segmentGb {
			segmentGb = capacityGb
		}
		if segmentGb <= model.VolumeTolerance {
			continue
		}

		transferSec := transferDurationSec(segmentGb, rate)
		end := start.Add(secondsToDuration(overhead + transferSec))

		if available, _ := sched.slotAvailable(antenna, start, end, satellite.Id); !available {
			continue
		}
		if overlapsPlanned(segments, antenna.Id, start, end) {
			continue
		}

		segments = append(segments, plannedSegment{
			window:   win,
			antenna:  antenna,
			start:    start,
			end:      end,
			volumeGb: segmentGb,
			rate:     rate,
			overhead: overhead,
		})
		totalOverhead += overhead
		remainingGb -= segmentGb
	}

	if remainingGb > model.VolumeTolerance {
		return SegmentedDownlinkResult{
			Success: false,
			Message: fmt.Sprintf("available windows cover only %.3f of %.3f GB, %.3f GB remaining",
				dataVolumeGb-remainingGb, dataVolumeGb, remainingGb),
		}
	}

	planId := a.nextPlanId()
	total := len(segments)
	actions := make([]*model.DownlinkAction, 0, total)
	offsetGb := 0.0

	for i, seg := range segments {
		actionId := sched.nextActionId("DL")
		action := &model.DownlinkAction{
			Id:           actionId,
			SatelliteId:  satellite.Id,
			StationId:    seg.window.StationId,
			TaskId:       taskId,
			AntennaId:    seg.antenna.Id,
			AntennaIds:   []string{seg.antenna.Id},
			Start:        seg.start,
			End:          seg.end,
			DurationSec:  seg.end.Sub(seg.start).Seconds(),
			DataVolumeGb: seg.volumeGb,
			RateMbps:     seg.rate,
			Segment: &model.DownlinkSegment{
				SegmentId:      fmt.Sprintf("%s_SEG_%02d", planId, i+1),
				ParentTaskId:   taskId,
				SequenceNumber: i + 1,
				TotalSegments:  total,
				DataVolumeGb:   seg.volumeGb,
				DataOffsetGb:   offsetGb,
			},
			SegmentOverheadSec: seg.overhead,
		}
		offsetGb += seg.volumeGb
		sched.addSlot(seg.antenna.Id, slot{
			start:       seg.start,
			end:         seg.end,
			actionId:    actionId,
			satelliteId: satellite.Id,
		})
		sched.downlinks = append(sched.downlinks, action)
		actions = append(actions, action)
	}

	plan := &model.DownlinkPlan{
		PlanId:      planId,
		SatelliteId: satellite.Id,
		TaskId:      taskId,
		TotalDataGb: dataVolumeGb,
		Actions:     actions,
		IsSegmented: true,
	}

	log.Debug().
		Str("plan", planId).
		Str("satellite", satellite.Id).
		Int("segments", total).
		Float64("overhead_sec", totalOverhead).
		Msg("segmented downlink planned")

	return SegmentedDownlinkResult{
		Success:          true,
		Plan:             plan,
		Actions:          actions,
		TotalOverheadSec: totalOverhead,
		Message:          fmt.Sprintf("split into %d segments", total),
	}
}

// overlapsPlanned guards the plan-then-commit phase: planned segments are
// not in the slot lists yet, so they must not collide with each other.
func overlapsPlanned(segments []plannedSegment, antennaId string, start, end time.Time) bool {
	for _, seg := range segments {
		if seg.antenna.Id != antennaId {
			continue
		}
		if start.Before(seg.end) && seg.start.Before(end) {
			return true
		}
	}
	return false
}

// PlanHybridDownlink combines both strategies into one plan. With
// preferAggregation it first tries a single-window aggregated transfer on
// each station's earliest window; whatever data remains is segmented over
// the windows the aggregated action did not consume. The returned plan may
// therefore carry an aggregated action, segmented actions, or both.
func (a *AdvancedDownlinkScheduler) PlanHybridDownlink(satellite *model.Satellite, taskId string, dataVolumeGb float64, windows []model.CandidateWindow, earliest time.Time, preferAggregation bool) HybridDownlinkResult {
	plan := &model.DownlinkPlan{
		PlanId:      a.nextPlanId(),
		SatelliteId: satellite.Id,
		TaskId:      taskId,
		TotalDataGb: dataVolumeGb,
	}

	canAggregate := satellite.Type != nil && satellite.Type.MultiAntennaCapable
	canSegment := satellite.Type != nil && satellite.Type.SegmentedDownlinkCapable
	remaining := dataVolumeGb

	sorted := make([]model.CandidateWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	if preferAggregation && canAggregate {
		tried := make(map[string]bool)
		for _, win := range sorted {
			if remaining <= model.VolumeTolerance {
				break
			}
			// one attempt per station, on its earliest window
			if tried[win.StationId] {
				continue
			}
			tried[win.StationId] = true
			result := a.ScheduleAggregatedDownlink(satellite, remaining, win.StationId, win, earliest)
			if result.Success {
				result.Action.TaskId = taskId
				plan.Actions = append(plan.Actions, result.Action)
				plan.IsAggregated = true
				remaining = 0
				break
			}
		}
	}

	if remaining > model.VolumeTolerance && canSegment {
		used := make(map[[2]int64]bool)
		for _, action := range plan.Actions {
			used[[2]int64{action.Start.UnixNano(), action.End.UnixNano()}] = true
		}
		unused := make([]model.CandidateWindow, 0, len(sorted))
		for _, win := range sorted {
			if used[[2]int64{win.Start.UnixNano(), win.End.UnixNano()}] {
				continue
			}
			unused = append(unused, win)
		}

		result := a.PlanSegmentedDownlink(satellite, taskId, remaining, unused, earliest)
		if result.Success {
			plan.Actions = append(plan.Actions, result.Actions...)
			plan.IsSegmented = true
			remaining = 0
		}
	}

	if remaining > model.VolumeTolerance || len(plan.Actions) == 0 {
		return HybridDownlinkResult{
			Success: false,
			Plan:    plan,
			Message: fmt.Sprintf("neither aggregation nor segmentation could place %.2f GB", dataVolumeGb),
		}
	}

	plan.IsSegmented = plan.IsSegmented || len(plan.Actions) > 1
	return HybridDownlinkResult{Success: true, Plan: plan, Message: "downlink placed"}
}

// ClearSchedule resets the base scheduler and the plan counter.
func (a *AdvancedDownlinkScheduler) ClearSchedule() {
	a.base.ClearSchedule()
	a.planCounter = 0
}
