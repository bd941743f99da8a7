package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/alg"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/config"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/constraints"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/scheduler"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/visibility"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/statistics"
)

var log = logging.Get()

// Scenario is everything one planning episode works over.
type Scenario struct {
	Name       string
	Start      time.Time
	Stop       time.Time
	Satellites []*model.Satellite
	Stations   []*model.TTCStation
	Targets    []*model.Target
}

// PlanReport is the full outcome of one planning episode.
type PlanReport struct {
	Scenario string `json:"scenario"`

	Solution  *alg.PlanningSolution   `json:"solution"`
	Uplinks   []*model.UplinkAction   `json:"uplinks"`
	Downlinks []*model.DownlinkAction `json:"downlinks"`
	Plans     []*model.DownlinkPlan   `json:"plans"`

	Violations []constraints.Violation `json:"violations"`
	Feasible   bool                    `json:"feasible"`

	SearchStats map[string]float64 `json:"search_stats"`
	Counters    map[string]int     `json:"counters"`
}

// Bridge carries report requests from the gui goroutine into the runner and
// the answers back.
type Bridge struct {
	ReportRequestStream chan<- struct{}
	ReportStream        <-chan *PlanReport
}

// Runner owns one scenario and the components of the planning pipeline.
type Runner struct {
	scenario Scenario
	provider visibility.Provider
	planner  alg.Planner
	sched    *scheduler.TTCScheduler
	advanced *scheduler.AdvancedDownlinkScheduler
	checker  *constraints.Checker

	lastReport *PlanReport
}

// NewRunner wires the pipeline from the loaded configuration.
func NewRunner(scenario Scenario, algCfg config.AWCSATConfig) (*Runner, error) {
	provider := visibility.NewProvider(config.PlannerGeneralConfig.VisibilityProvider)

	base := scheduler.NewTTCScheduler(scenario.Stations, config.PlannerGeneralConfig.MinGapAfterUplinkSec)

	advanced := scheduler.NewAdvancedDownlinkScheduler(base)
	if config.PlannerGeneralConfig.SegmentOverheadSec > 0 {
		advanced.SegmentOverheadSec = config.PlannerGeneralConfig.SegmentOverheadSec
	}

	runner := &Runner{
		scenario: scenario,
		provider: provider,
		sched:    base,
		advanced: advanced,
		checker:  constraints.NewChecker(config.PlannerGeneralConfig.MinGapAfterUplinkSec),
	}

	tasks := runner.buildTasks()
	planner, err := alg.NewPlanner("awcsat", algCfg, alg.DefaultObjective(tasks))
	if err != nil {
		return nil, fmt.Errorf("could not build planner: %w", err)
	}
	runner.planner = planner
	return runner, nil
}

// DefaultScenario builds a small mixed constellation over a handful of
// stations, used when no scenario file drives the run.
func DefaultScenario(start, stop time.Time) Scenario {
	optical := visibility.WalkerBuilder{
		NamePrefix:     "OPT",
		Type:           model.UHROpticalType,
		AltitudeKm:     550,
		InclinationDeg: 97.6,
		Planes:         2,
		SatsPerPlane:   3,
		PhaseFactor:    1,
	}.Build()
	sar := visibility.WalkerBuilder{
		NamePrefix:     "SAR",
		Type:           model.UHRSarType,
		AltitudeKm:     620,
		InclinationDeg: 97.9,
		Planes:         2,
		SatsPerPlane:   2,
		PhaseFactor:    1,
	}.Build()

	stations := []*model.TTCStation{
		{
			Id: "GS_NORTH", Name: "North Station",
			Latitude: 67.9, Longitude: 21.1,
			MinElevationDeg:      5.0,
			UplinkRateKbps:       256,
			BaseUplinkTimeSec:    30,
			PerTaskUplinkTimeSec: 5,
			Antennas: []*model.Antenna{
				{Id: "GS_NORTH_A1", Name: "North A1", StationId: "GS_NORTH", MaxDataRateMbps: 800, SatelliteSwitchTimeSec: 30, SupportedFrequencies: []string{"X", "S"}},
				{Id: "GS_NORTH_A2", Name: "North A2", StationId: "GS_NORTH", MaxDataRateMbps: 600, SatelliteSwitchTimeSec: 30, SupportedFrequencies: []string{"X"}},
			},
		},
		{
			Id: "GS_MID", Name: "Mid-latitude Station",
			Latitude: 40.4, Longitude: -4.2,
			MinElevationDeg:      10.0,
			UplinkRateKbps:       512,
			BaseUplinkTimeSec:    20,
			PerTaskUplinkTimeSec: 4,
			Antennas: []*model.Antenna{
				{Id: "GS_MID_A1", Name: "Mid A1", StationId: "GS_MID", MaxDataRateMbps: 1200, SatelliteSwitchTimeSec: 20, SupportedFrequencies: []string{"X", "Ka"}},
			},
		},
		{
			Id: "GS_SOUTH", Name: "South Station",
			Latitude: -33.0, Longitude: 18.5,
			MinElevationDeg:      5.0,
			UplinkRateKbps:       256,
			BaseUplinkTimeSec:    30,
			PerTaskUplinkTimeSec: 5,
			Antennas: []*model.Antenna{
				{Id: "GS_SOUTH_A1", Name: "South A1", StationId: "GS_SOUTH", MaxDataRateMbps: 900, SatelliteSwitchTimeSec: 25, SupportedFrequencies: []string{"X"}},
				{Id: "GS_SOUTH_A2", Name: "South A2", StationId: "GS_SOUTH", MaxDataRateMbps: 900, SatelliteSwitchTimeSec: 25, SupportedFrequencies: []string{"X", "S"}},
			},
		},
	}

	targets := []*model.Target{
		{Id: "TGT_01", Name: "Port complex", Latitude: 31.2, Longitude: 121.5, Priority: 8},
		{Id: "TGT_02", Name: "River delta", Latitude: 29.9, Longitude: 31.2, Priority: 5},
		{Id: "TGT_03", Name: "Mountain pass", Latitude: 46.6, Longitude: 7.9, Priority: 6},
		{Id: "TGT_04", Name: "Coastal strip", Latitude: -23.5, Longitude: -46.6, Priority: 7},
		{Id: "TGT_05", Name: "Desert site", Latitude: 24.5, Longitude: 54.4, Priority: 4},
	}

	return Scenario{
		Name:       "default",
		Start:      start,
		Stop:       stop,
		Satellites: append(optical, sar...),
		Targets:    targets,
		Stations:   stations,
	}
}

// buildTasks turns target visibility into imaging task candidates, one per
// target per satellite that sees it, annotated with the opportunity counts
// the encoding decodes against.
func (r *Runner) buildTasks() []*model.ImagingTask {
	var tasks []*model.ImagingTask
	for _, target := range r.scenario.Targets {
		for _, sat := range r.scenario.Satellites {
			obsWindows := r.provider.ComputeAccess(sat, target.Latitude, target.Longitude, r.scenario.Start, r.scenario.Stop)
			if len(obsWindows) == 0 {
				continue
			}

			downlinkCount := 0
			for _, station := range r.scenario.Stations {
				downlinkCount += len(r.provider.ComputeGroundStationAccess(sat, station, r.scenario.Start, r.scenario.Stop))
			}

			first := obsWindows[0]
			tasks = append(tasks, &model.ImagingTask{
				Id:                    fmt.Sprintf("TASK_%s_%s", target.Id, sat.Id),
				TargetId:              target.Id,
				SatelliteId:           sat.Id,
				Start:                 first.Start,
				End:                   first.End,
				DataVolumeGb:          2.0 + target.Priority,
				Value:                 target.Priority,
				ImagingOpportunities:  len(obsWindows),
				DownlinkOpportunities: downlinkCount,
			})
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Id < tasks[j].Id })
	return tasks
}

// candidateWindows flattens station visibility into per-antenna scheduling
// candidates for one satellite.
func (r *Runner) candidateWindows(sat *model.Satellite) []model.CandidateWindow {
	var out []model.CandidateWindow
	for _, station := range r.scenario.Stations {
		for _, win := range r.provider.ComputeGroundStationAccess(sat, station, r.scenario.Start, r.scenario.Stop) {
			for _, antenna := range station.Antennas {
				out = append(out, model.CandidateWindow{
					StationId: station.Id,
					AntennaId: antenna.Id,
					Start:     win.Start,
					End:       win.End,
					RateMbps:  win.MaxDataRateMbps,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Plan runs one full planning episode: optimize assignments, schedule the
// command uplinks and the data downlinks, then validate the whole plan.
func (r *Runner) Plan() (*PlanReport, error) {
	statistics.Init()
	r.advanced.ClearSchedule()

	tasks := r.buildTasks()
	statistics.Set("candidate tasks", len(tasks))

	solution, err := r.planner.Solve(tasks, r.scenario.Satellites)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	satById := make(map[string]*model.Satellite, len(r.scenario.Satellites))
	for _, sat := range r.scenario.Satellites {
		satById[sat.Id] = sat
	}

	selected := r.selectedTasks(tasks, solution)
	statistics.Set("selected tasks", len(selected))

	r.scheduleUplinks(selected, satById)
	plans := r.scheduleDownlinks(selected, solution.StripRates, satById)

	uplinks, downlinks := r.sched.ScheduledActions()
	statistics.Set("uplink actions", len(uplinks))
	statistics.Set("downlink actions", len(downlinks))

	report := r.checker.Check(r.scenario.Satellites, r.scenario.Stations, selected, uplinks, downlinks)
	statistics.Set("violations", len(report.Violations))

	searchStats := map[string]float64{}
	if awcsat, ok := r.planner.(*alg.AWCSAT); ok {
		searchStats = awcsat.Statistics()
	}

	planReport := &PlanReport{
		Scenario:    r.scenario.Name,
		Solution:    solution,
		Uplinks:     uplinks,
		Downlinks:   downlinks,
		Plans:       plans,
		Violations:  report.Violations,
		Feasible:    report.Feasible,
		SearchStats: searchStats,
		Counters:    statistics.Snapshot(),
	}
	r.lastReport = planReport

	log.Info().
		Str("scenario", r.scenario.Name).
		Int("selected", len(selected)).
		Int("uplinks", len(uplinks)).
		Int("downlinks", len(downlinks)).
		Bool("feasible", report.Feasible).
		Msg("planning episode complete")

	return planReport, nil
}

// selectedTasks keeps the tasks the search activated, i.e. both decoded
// opportunity indices are non-zero.
func (r *Runner) selectedTasks(tasks []*model.ImagingTask, solution *alg.PlanningSolution) []*model.ImagingTask {
	var selected []*model.ImagingTask
	for _, t := range tasks {
		if _, ok := solution.Assignments[t.Id]; ok {
			selected = append(selected, t)
		}
	}
	return selected
}

// scheduleUplinks batches the selected tasks per satellite into one command
// uplink each, due before the satellite's first task starts.
func (r *Runner) scheduleUplinks(selected []*model.ImagingTask, satById map[string]*model.Satellite) {
	bySat := make(map[string][]*model.ImagingTask)
	for _, t := range selected {
		bySat[t.SatelliteId] = append(bySat[t.SatelliteId], t)
	}

	satIds := make([]string, 0, len(bySat))
	for id := range bySat {
		satIds = append(satIds, id)
	}
	sort.Strings(satIds)

	minGap := secDur(r.sched.MinGapAfterUplink())

	for _, satId := range satIds {
		batch := bySat[satId]
		sort.Slice(batch, func(i, j int) bool { return batch[i].Start.Before(batch[j].Start) })

		taskIds := make([]string, 0, len(batch))
		for _, t := range batch {
			taskIds = append(taskIds, t.Id)
		}

		request := model.UplinkRequest{
			SatelliteId: satId,
			TaskIds:     taskIds,
			Earliest:    r.scenario.Start,
			Latest:      batch[0].Start.Add(-minGap),
		}

		sat := satById[satId]
		if sat == nil {
			continue
		}
		windows := r.candidateWindows(sat)

		result := r.sched.ScheduleUplink(request, windows)
		if !result.Success {
			statistics.Change("failed uplinks", 1)
			log.Warn().Str("satellite", satId).Str("reason", result.Message).Msg("uplink not scheduled")
		}
	}
}

// stripScaledVolumeGb grows a task's data volume with its decoded strip
// extension rate: extending the strip by rate r images (1+r) times the
// nominal swath length.
func stripScaledVolumeGb(task *model.ImagingTask, stripRates map[string]float64) float64 {
	rate, ok := stripRates[task.Id]
	if !ok || rate < 0 {
		return task.DataVolumeGb
	}
	return task.DataVolumeGb * (1 + rate)
}

// scheduleDownlinks places each selected task's data volume, preferring the
// advanced strategies when the satellite supports them.
func (r *Runner) scheduleDownlinks(selected []*model.ImagingTask, stripRates map[string]float64, satById map[string]*model.Satellite) []*model.DownlinkPlan {
	var plans []*model.DownlinkPlan

	for _, task := range selected {
		sat := satById[task.SatelliteId]
		if sat == nil {
			continue
		}

		volumeGb := stripScaledVolumeGb(task, stripRates)
		windows := r.candidateWindows(sat)
		gap := secDur(sat.ImagingToDownlinkTime())
		earliest := task.End.Add(gap)

		if sat.Type != nil && (sat.Type.MultiAntennaCapable || sat.Type.SegmentedDownlinkCapable) {
			hybrid := r.advanced.PlanHybridDownlink(sat, task.Id, volumeGb, windows, earliest, true)
			if hybrid.Success {
				plans = append(plans, hybrid.Plan)
				if hybrid.Plan.IsSegmented {
					statistics.Change("segmented plans", 1)
				}
				if hybrid.Plan.IsAggregated {
					statistics.Change("aggregated plans", 1)
				}
				continue
			}
		}

		result := r.sched.ScheduleDownlink(task.SatelliteId, volumeGb, windows, earliest)
		if result.Success {
			result.Action.TaskId = task.Id
		} else {
			statistics.Change("failed downlinks", 1)
			log.Warn().Str("task", task.Id).Str("reason", result.Message).Msg("downlink not scheduled")
		}
	}
	return plans
}

// Run executes one planning episode and then serves report requests over
// the returned bridge for the lifetime of the process.
func (r *Runner) Run() (Bridge, error) {
	if _, err := r.Plan(); err != nil {
		return Bridge{}, err
	}

	requestStream := make(chan struct{})
	reportStream := make(chan *PlanReport)

	go func() {
		for range requestStream {
			reportStream <- r.lastReport
		}
	}()

	return Bridge{
		ReportRequestStream: requestStream,
		ReportStream:        reportStream,
	}, nil
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
