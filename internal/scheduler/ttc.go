package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
)

var log = logging.Get()

// UplinkResult reports one uplink scheduling attempt. Infeasibility is a
// result, never an error.
type UplinkResult struct {
	Success bool
	Action  *model.UplinkAction
	Message string
}

// DownlinkResult reports one downlink scheduling attempt.
type DownlinkResult struct {
	Success bool
	Action  *model.DownlinkAction
	Message string
}

// slot is one committed reservation on an antenna's timeline.
type slot struct {
	start       time.Time
	end         time.Time
	actionId    string
	satelliteId string
}

// TTCScheduler places uplink and downlink actions onto antenna time-slots
// without availability, overlap or switch-time violations. The per-antenna
// slot lists are the only mutable shared state; the mutex makes each
// check-then-append one atomic unit so concurrent callers cannot both see
// an interval as free.
type TTCScheduler struct {
	mu sync.Mutex

	stations map[string]*model.TTCStation
	slots    map[string][]slot

	uplinks   []*model.UplinkAction
	downlinks []*model.DownlinkAction

	actionCounter int

	minGapAfterUplinkSec float64
}

// NewTTCScheduler builds a scheduler over the given stations.
func NewTTCScheduler(stations []*model.TTCStation, minGapAfterUplinkSec float64) *TTCScheduler {
	byId := make(map[string]*model.TTCStation, len(stations))
	for _, s := range stations {
		byId[s.Id] = s
	}
	return &TTCScheduler{
		stations:             byId,
		slots:                make(map[string][]slot),
		minGapAfterUplinkSec: minGapAfterUplinkSec,
	}
}

// Station resolves a station id, or nil.
func (sched *TTCScheduler) Station(stationId string) *model.TTCStation {
	return sched.stations[stationId]
}

// MinGapAfterUplink is the configured command-to-imaging gap in seconds.
func (sched *TTCScheduler) MinGapAfterUplink() float64 {
	return sched.minGapAfterUplinkSec
}

func (sched *TTCScheduler) nextActionId(prefix string) string {
	sched.actionCounter++
	return fmt.Sprintf("%s_%04d", prefix, sched.actionCounter)
}

// slotAvailable checks antenna availability, overlap with committed slots
// and the satellite switch time on both sides of the candidate interval.
// Callers must hold the mutex.
func (sched *TTCScheduler) slotAvailable(antenna *model.Antenna, start, end time.Time, satelliteId string) (bool, string) {
	if !antenna.IsAvailableDuring(start, end) {
		return false, fmt.Sprintf("antenna %s is unavailable during the interval", antenna.Id)
	}

	switchGap := secondsToDuration(antenna.SatelliteSwitchTimeSec)
	for _, s := range sched.slots[antenna.Id] {
		if start.Before(s.end) && s.start.Before(end) {
			return false, fmt.Sprintf("conflicts with scheduled action %s", s.actionId)
		}

		if s.satelliteId == satelliteId {
			continue
		}
		// New action after the existing one.
		if !start.Before(s.end) && start.Before(s.end.Add(switchGap)) {
			return false, fmt.Sprintf("satellite switch time after %s not respected", s.actionId)
		}
		// New action before the existing one.
		if !end.After(s.start) && end.After(s.start.Add(-switchGap)) {
			return false, fmt.Sprintf("satellite switch time before %s not respected", s.actionId)
		}
	}

	return true, ""
}

// addSlot commits a reservation, keeping the list ordered by start time.
// Callers must hold the mutex.
func (sched *TTCScheduler) addSlot(antennaId string, s slot) {
	list := append(sched.slots[antennaId], s)
	sort.Slice(list, func(i, j int) bool { return list[i].start.Before(list[j].start) })
	sched.slots[antennaId] = list
}

// ScheduleUplink tries every candidate (station, antenna, window) in input
// order and commits the first interval that fits the window, the request
// deadline and the antenna's timeline.
func (sched *TTCScheduler) ScheduleUplink(request model.UplinkRequest, windows []model.CandidateWindow) UplinkResult {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	for _, win := range windows {
		station := sched.stations[win.StationId]
		if station == nil {
			continue
		}
		antenna := station.GetAntenna(win.AntennaId)
		if antenna == nil {
			continue
		}

		durationSec := station.UplinkDuration(request.NumTasks())

		start := win.Start
		if request.Earliest.After(start) {
			start = request.Earliest
		}
		end := start.Add(secondsToDuration(durationSec))

		if end.After(win.End) {
			continue
		}
		if end.After(request.Latest) {
			continue
		}

		available, _ := sched.slotAvailable(antenna, start, end, request.SatelliteId)
		if !available {
			continue
		}

		actionId := sched.nextActionId("UL")
		action := &model.UplinkAction{
			Id:          actionId,
			SatelliteId: request.SatelliteId,
			StationId:   win.StationId,
			AntennaId:   win.AntennaId,
			Start:       start,
			End:         end,
			DurationSec: durationSec,
			TaskIds:     append([]string(nil), request.TaskIds...),
		}
		sched.addSlot(win.AntennaId, slot{
			start:       start,
			end:         end,
			actionId:    actionId,
			satelliteId: request.SatelliteId,
		})
		sched.uplinks = append(sched.uplinks, action)

		log.Debug().
			Str("action", actionId).
			Str("satellite", request.SatelliteId).
			Str("antenna", win.AntennaId).
			Msg("uplink scheduled")

		return UplinkResult{
			Success: true,
			Action:  action,
			Message: fmt.Sprintf("scheduled on %s %s", station.Name, antenna.Name),
		}
	}

	return UplinkResult{
		Success: false,
		Message: "no feasible uplink window among the candidates",
	}
}

// ScheduleDownlink places a single-antenna transfer of dataVolumeGb using
// the first feasible candidate. The achieved rate is the smaller of the
// window rate and the antenna rate. A zero earliest means no lower bound.
func (sched *TTCScheduler) ScheduleDownlink(satelliteId string, dataVolumeGb float64, windows []model.CandidateWindow, earliest time.Time) DownlinkResult {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	for _, win := range windows {
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
		durationSec := transferDurationSec(dataVolumeGb, rate)

		start := win.Start
		if !earliest.IsZero() && earliest.After(start) {
			start = earliest
		}
		end := start.Add(secondsToDuration(durationSec))

		if end.After(win.End) {
			continue
		}

		available, _ := sched.slotAvailable(antenna, start, end, satelliteId)
		if !available {
			continue
		}

		actionId := sched.nextActionId("DL")
		action := &model.DownlinkAction{
			Id:           actionId,
			SatelliteId:  satelliteId,
			StationId:    win.StationId,
			AntennaId:    win.AntennaId,
			Start:        start,
			End:          end,
			DurationSec:  durationSec,
			DataVolumeGb: dataVolumeGb,
			RateMbps:     rate,
			AntennaIds:   []string{win.AntennaId},
		}
		sched.addSlot(win.AntennaId, slot{
			start:       start,
			end:         end,
			actionId:    actionId,
			satelliteId: satelliteId,
		})
		sched.downlinks = append(sched.downlinks, action)

		log.Debug().
			Str("action", actionId).
			Str("satellite", satelliteId).
			Float64("volume_gb", dataVolumeGb).
			Msg("downlink scheduled")

		return DownlinkResult{
			Success: true,
			Action:  action,
			Message: fmt.Sprintf("scheduled on %s %s", station.Name, antenna.Name),
		}
	}

	return DownlinkResult{
		Success: false,
		Message: "no feasible downlink window among the candidates",
	}
}

// ScheduledActions returns snapshots of every committed action.
func (sched *TTCScheduler) ScheduledActions() ([]*model.UplinkAction, []*model.DownlinkAction) {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	uplinks := make([]*model.UplinkAction, len(sched.uplinks))
	copy(uplinks, sched.uplinks)
	downlinks := make([]*model.DownlinkAction, len(sched.downlinks))
	copy(downlinks, sched.downlinks)
	return uplinks, downlinks
}

// ClearSchedule drops every reservation and resets the id counter. Must be
// called between independent planning episodes so stale slots cannot block
// the next run.
func (sched *TTCScheduler) ClearSchedule() {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	sched.slots = make(map[string][]slot)
	sched.uplinks = nil
	sched.downlinks = nil
	sched.actionCounter = 0
}

// AntennaUtilization is the busy share of the antenna's committed span.
func (sched *TTCScheduler) AntennaUtilization(antennaId string) float64 {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	list := sched.slots[antennaId]
	if len(list) == 0 {
		return 0.0
	}

	used := 0.0
	minStart := list[0].start
	maxEnd := list[0].end
	for _, s := range list {
		used += s.end.Sub(s.start).Seconds()
		if s.start.Before(minStart) {
			minStart = s.start
		}
		if s.end.After(maxEnd) {
			maxEnd = s.end
		}
	}

	span := maxEnd.Sub(minStart).Seconds()
	if span <= 0 {
		return 0.0
	}
	return used / span
}

// transferDurationSec converts a volume at a rate into seconds:
// GB → gigabits (×8) → megabits (×1024), divided by Mbps.
func transferDurationSec(dataVolumeGb, rateMbps float64) float64 {
	return dataVolumeGb * 8 * 1024 / rateMbps
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
