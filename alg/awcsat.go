package alg

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/config"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// Fallback when the initial sample has no spread (ΔE ≤ 0) or q is out
	// of range.
	defaultInitialTemperature = 100.0

	// Floor keeping the wave-controlled temperature strictly positive.
	temperatureFloor = 1e-10
)

// AWCSAT is the adaptive wave-controlled simulated annealing with tabu
// search. One instance owns all of its search state; construct a fresh one
// per planning run.
type AWCSAT struct {
	cfg       config.AWCSATConfig
	objective Objective
	operators *OperatorSet
	rng       *rand.Rand

	tabu *tabuList

	current *Solution
	best    *Solution

	t0          float64
	currentTemp float64
	minTemp     float64
	deltaE      float64
	eAvg        float64
	eMin        float64

	innerLoops int

	// Per-outer-iteration counters: G_k and J_k of the cooling schedule.
	improvedCount int
	acceptedCount int

	// History holds the best objective after every outer iteration; two
	// runs with the same seed produce identical histories.
	History []float64

	startedAt time.Time
}

// NewAWCSAT validates the configuration and builds a planner instance.
func NewAWCSAT(cfg config.AWCSATConfig, objective Objective) (*AWCSAT, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("awcsat config: %w", err)
	}
	return &AWCSAT{
		cfg:        cfg,
		objective:  objective,
		operators:  NewOperatorSet(),
		rng:        rand.New(rand.NewSource(cfg.RandomSeed)),
		tabu:       newTabuList(cfg.TabuTenure),
		innerLoops: cfg.InitialInnerLoops,
	}, nil
}

// Name identifies the planner variant and its main parameters.
func (a *AWCSAT) Name() string {
	return fmt.Sprintf("AWCSAT(K=%d, L0=%d)", a.cfg.OuterLoops, a.cfg.InitialInnerLoops)
}

// Solve searches the encoding space for the given tasks and converts the
// best encoding found into a task-to-satellite assignment. Running out of
// wall clock is not an error: the best solution so far is returned.
func (a *AWCSAT) Solve(tasks []*model.ImagingTask, satellites []*model.Satellite) (*PlanningSolution, error) {
	if len(tasks) == 0 {
		result := NewPlanningSolution()
		result.Feasible = false
		result.Violations = append(result.Violations, "no tasks to plan")
		return result, nil
	}

	objective := a.objective
	if objective == nil {
		objective = DefaultObjective(tasks)
	}

	a.startedAt = time.Now()
	a.initialize(len(tasks), objective)

	for k := 0; k < a.cfg.OuterLoops; k++ {
		if a.timeExceeded() {
			log.Info().
				Int("outer_iteration", k).
				Float64("best_objective", a.best.Objective).
				Msg("wall-clock budget exceeded, returning best so far")
			break
		}

		a.improvedCount = 0
		a.acceptedCount = 0

		for l := 0; l < a.innerLoops; l++ {
			a.innerStep(objective)
		}

		a.updateTemperature(k)
		a.updateInnerLoops()

		a.History = append(a.History, a.best.Objective)
	}

	return a.toPlanningSolution(tasks, satellites), nil
}

// initialize draws the N-sample, derives the initial temperature from its
// spread and picks the best sample as the starting point.
func (a *AWCSAT) initialize(numTasks int, objective Objective) {
	samples := make([]*Solution, a.cfg.InitialSampleSize)
	objValues := make([]float64, a.cfg.InitialSampleSize)
	for i := range samples {
		samples[i] = NewRandomSolution(numTasks, a.rng)
		samples[i].Objective = objective(samples[i])
		objValues[i] = samples[i].Objective
	}

	a.eAvg = stat.Mean(objValues, nil)
	a.eMin = floats.Min(objValues)
	eMax := floats.Max(objValues)
	a.deltaE = eMax - a.eMin

	q := a.cfg.InitialTempCoef
	if a.deltaE > 0 && q > 0 && q < 1 {
		a.t0 = -a.deltaE / math.Log(q)
	} else {
		a.t0 = defaultInitialTemperature
	}
	a.currentTemp = a.t0
	a.minTemp = a.t0

	bestIdx := floats.MaxIdx(objValues)
	a.current = samples[bestIdx]
	a.best = a.current.Clone()

	a.tabu.Clear()
	a.innerLoops = a.cfg.InitialInnerLoops
	a.History = a.History[:0]
}

// innerStep generates one neighbor and applies the tabu and acceptance
// rules to it.
func (a *AWCSAT) innerStep(objective Objective) {
	neighbor, _ := a.operators.ApplyRandom(a.current, a.rng)
	neighbor.Objective = objective(neighbor)

	fingerprint := neighbor.Fingerprint()

	if a.tabu.Contains(fingerprint) {
		// Aspiration: a forbidden move that beats the global best is
		// taken anyway.
		if neighbor.Objective > a.best.Objective {
			a.accept(neighbor)
		}
		return
	}

	a.tabu.Push(fingerprint)

	if a.metropolisAccept(neighbor) {
		a.accept(neighbor)
	}
}

func (a *AWCSAT) accept(neighbor *Solution) {
	if neighbor.Objective > a.current.Objective {
		a.improvedCount++
	}
	a.current = neighbor
	a.acceptedCount++

	if neighbor.Objective > a.best.Objective {
		a.best = neighbor.Clone()
	}
}

// metropolisAccept is the modified Metropolis rule: improvements always
// pass; a worse neighbor passes with probability
// exp((Enew−Eold)/(S·T)) where S = exp(−(Eavg−Emin)/T0).
func (a *AWCSAT) metropolisAccept(neighbor *Solution) bool {
	eNew := neighbor.Objective
	eOld := a.current.Objective

	if eNew >= eOld {
		return true
	}

	s := 1.0
	if a.t0 > 0 {
		s = math.Exp(-(a.eAvg - a.eMin) / a.t0)
	}
	if s*a.currentTemp <= 0 {
		return false
	}

	prob := math.Exp((eNew - eOld) / (s * a.currentTemp))
	return a.rng.Float64() < prob
}

// updateTemperature applies the wave-controlled cooling schedule:
// T = (T0·(K−k)/K)/(C·k+1) + (L_k/(1+G_k))·cos²(J_k/(n·T0)).
func (a *AWCSAT) updateTemperature(k int) {
	K := float64(a.cfg.OuterLoops)
	lK := float64(a.innerLoops)
	gK := float64(a.improvedCount)
	jK := float64(a.acceptedCount)

	term1 := (a.t0 * (K - float64(k)) / K) / (a.cfg.C*float64(k) + 1)

	cosVal := 1.0
	if a.cfg.N*a.t0 > 0 {
		cosVal = math.Cos(jK / (a.cfg.N * a.t0))
	}
	term2 := (lK / (1 + gK)) * cosVal * cosVal

	a.currentTemp = math.Max(term1+term2, temperatureFloor)
	if a.currentTemp < a.minTemp {
		a.minTemp = a.currentTemp
	}
}

// updateInnerLoops adapts L_k to the improvement ratio of the finished
// isothermal phase: sparse improvement grows the phase, frequent
// improvement shrinks it.
func (a *AWCSAT) updateInnerLoops() {
	improveRatio := float64(a.improvedCount) / math.Max(float64(a.innerLoops), 1)

	switch {
	case improveRatio < 0.1:
		grown := int(float64(a.innerLoops) * 1.1)
		if limit := a.cfg.InitialInnerLoops * 2; grown > limit {
			grown = limit
		}
		a.innerLoops = grown
	case improveRatio > 0.5:
		shrunk := int(float64(a.innerLoops) * 0.9)
		if floor := a.cfg.InitialInnerLoops / 2; shrunk < floor {
			shrunk = floor
		}
		a.innerLoops = shrunk
	}
}

func (a *AWCSAT) timeExceeded() bool {
	if a.cfg.TimeLimitSec <= 0 {
		return false
	}
	return time.Since(a.startedAt).Seconds() >= a.cfg.TimeLimitSec
}

// toPlanningSolution decodes the best encoding into the shared result
// contract. A task with an active imaging selector is assigned to the
// satellite its v1 value points at.
func (a *AWCSAT) toPlanningSolution(tasks []*model.ImagingTask, satellites []*model.Satellite) *PlanningSolution {
	result := NewPlanningSolution()
	if a.best == nil {
		result.Feasible = false
		return result
	}

	result.Objective = a.best.Objective
	result.Feasible = a.best.Feasible
	result.Violations = append(result.Violations, a.best.Violations...)

	for i, task := range tasks {
		if i >= a.best.NumTasks() {
			break
		}
		imagingCode := a.best.ImagingCode(i)
		if imagingCode > 0 && len(satellites) > 0 {
			satIdx := int(imagingCode*float64(len(satellites))) % len(satellites)
			result.Assignments[task.Id] = satellites[satIdx].Id
			result.StripRates[task.Id] = a.best.DecodeStripExtensionRate(i, a.cfg.RMax, a.cfg.RMin)
		}
	}

	return result
}

// BestSolution exposes the raw best encoding of the last run.
func (a *AWCSAT) BestSolution() *Solution {
	return a.best
}

// Statistics reports the run's diagnostic values for the result server.
func (a *AWCSAT) Statistics() map[string]float64 {
	stats := map[string]float64{
		"initial_temperature": a.t0,
		"final_temperature":   a.currentTemp,
		"minimum_temperature": a.minTemp,
		"delta_e":             a.deltaE,
		"tabu_tenure":         float64(a.cfg.TabuTenure),
		"outer_loops":         float64(a.cfg.OuterLoops),
		"initial_inner_loops": float64(a.cfg.InitialInnerLoops),
		"iterations":          float64(len(a.History)),
	}
	if a.best != nil {
		stats["best_objective"] = a.best.Objective
	}
	return stats
}
