package alg

import (
	"fmt"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/config"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
)

var log = logging.Get()

// PlanningSolution is the result contract shared by every planner variant:
// a task-to-satellite assignment map plus the score and feasibility of the
// encoding it was decoded from.
type PlanningSolution struct {
	Assignments map[string]string `json:"assignments"`

	// StripRates carries the decoded strip extension rate per assigned
	// task, used downstream to size the imaged data volume.
	StripRates map[string]float64 `json:"strip_rates,omitempty"`

	Objective  float64  `json:"objective"`
	Feasible   bool     `json:"feasible"`
	Violations []string `json:"violations,omitempty"`
}

// NewPlanningSolution returns an empty, feasible result.
func NewPlanningSolution() *PlanningSolution {
	return &PlanningSolution{
		Assignments: make(map[string]string),
		StripRates:  make(map[string]float64),
		Feasible:    true,
	}
}

// Clone deep-copies the result.
func (s *PlanningSolution) Clone() *PlanningSolution {
	assignments := make(map[string]string, len(s.Assignments))
	for k, v := range s.Assignments {
		assignments[k] = v
	}
	rates := make(map[string]float64, len(s.StripRates))
	for k, v := range s.StripRates {
		rates[k] = v
	}
	violations := make([]string, len(s.Violations))
	copy(violations, s.Violations)
	return &PlanningSolution{
		Assignments: assignments,
		StripRates:  rates,
		Objective:   s.Objective,
		Feasible:    s.Feasible,
		Violations:  violations,
	}
}

// Objective scores an encoding; planners maximize it. Callers supply a
// domain objective; DefaultObjective exists for tests and demos.
type Objective func(solution *Solution) float64

// DefaultObjective counts the tasks whose decoded imaging and downlink
// indices are both active, weighting each by its value. Production callers
// must supply their own scoring policy.
func DefaultObjective(tasks []*model.ImagingTask) Objective {
	return func(solution *Solution) float64 {
		obj := 0.0
		for i := 0; i < solution.NumTasks() && i < len(tasks); i++ {
			imaging := solution.DecodeImagingOpportunity(i, tasks[i].ImagingOpportunities)
			downlink := solution.DecodeDownlinkOpportunity(i, tasks[i].DownlinkOpportunities)
			if imaging > 0 && downlink > 0 {
				value := tasks[i].Value
				if value == 0 {
					value = 1.0
				}
				obj += value
			}
		}
		return obj
	}
}

// Planner is the capability contract of the metaheuristic variants. The set
// of variants is closed and selected at configuration time.
type Planner interface {
	Solve(tasks []*model.ImagingTask, satellites []*model.Satellite) (*PlanningSolution, error)
	Name() string
}

// NewPlanner resolves a planner kind. Only the AWCSAT search ships with
// this module; the baseline metaheuristics live outside this core and plug
// in through the same interface.
func NewPlanner(kind string, cfg config.AWCSATConfig, objective Objective) (Planner, error) {
	switch kind {
	case "awcsat", "":
		return NewAWCSAT(cfg, objective)
	default:
		return nil, fmt.Errorf("unknown planner kind %q", kind)
	}
}
