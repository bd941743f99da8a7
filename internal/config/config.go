package config

import "fmt"

// GeneralConfig holds scenario-level settings loaded from the yaml file
// passed on the command line.
type GeneralConfig struct {
	Name          string `yaml:"name"`
	ScenarioStart string `yaml:"scenario_start"`
	ScenarioStop  string `yaml:"scenario_stop"`

	// "mock" or "sgp4"
	VisibilityProvider string `yaml:"visibility_provider"`

	// Gap required between the end of an uplink and the start of the
	// imaging task it commands (seconds).
	MinGapAfterUplinkSec float64 `yaml:"min_gap_after_uplink_sec"`

	// Overhead charged to every downlink segment after the first (seconds).
	SegmentOverheadSec float64 `yaml:"segment_overhead_sec"`

	GuiPort int `yaml:"gui_port"`
}

var PlannerGeneralConfig GeneralConfig

// AWCSATConfig is the full parameter set of the adaptive wave-controlled
// tabu-annealing search. Defaults follow the reference parameterization
// (K=3000, L0=200, tenure=5, q=0.9, n=1, C=0.25, N=10).
type AWCSATConfig struct {
	OuterLoops        int     `yaml:"outer_loops"`         // K
	InitialInnerLoops int     `yaml:"initial_inner_loops"` // L0
	TabuTenure        int     `yaml:"tabu_tenure"`
	InitialTempCoef   float64 `yaml:"initial_temp_coef"` // q, recommended (0.75, 0.95)
	N                 float64 `yaml:"n"`                 // wave constant n
	C                 float64 `yaml:"c"`                 // wave constant C
	InitialSampleSize int     `yaml:"initial_sample_size"`
	RandomSeed        int64   `yaml:"random_seed"`
	TimeLimitSec      float64 `yaml:"time_limit_sec"`
	RMax              float64 `yaml:"r_max"` // strip extension bounds
	RMin              float64 `yaml:"r_min"`
}

// DefaultAWCSATConfig returns the reference parameterization.
func DefaultAWCSATConfig() AWCSATConfig {
	return AWCSATConfig{
		OuterLoops:        3000,
		InitialInnerLoops: 200,
		TabuTenure:        5,
		InitialTempCoef:   0.9,
		N:                 1.0,
		C:                 0.25,
		InitialSampleSize: 10,
		RandomSeed:        0,
		TimeLimitSec:      300.0,
		RMax:              1.0,
		RMin:              0.0,
	}
}

// Validate fails fast on configuration that would make the search degenerate.
// Ordinary infeasibility at run time is never an error; a malformed
// configuration is.
func (c AWCSATConfig) Validate() error {
	if c.OuterLoops <= 0 {
		return fmt.Errorf("outer_loops must be positive, got %d", c.OuterLoops)
	}
	if c.InitialInnerLoops <= 0 {
		return fmt.Errorf("initial_inner_loops must be positive, got %d", c.InitialInnerLoops)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf("tabu_tenure must be positive, got %d", c.TabuTenure)
	}
	if c.InitialTempCoef <= 0 || c.InitialTempCoef >= 1 {
		return fmt.Errorf("initial_temp_coef must be in (0, 1), got %g", c.InitialTempCoef)
	}
	if c.InitialSampleSize <= 0 {
		return fmt.Errorf("initial_sample_size must be positive, got %d", c.InitialSampleSize)
	}
	if c.RMax < c.RMin {
		return fmt.Errorf("r_max (%g) must not be below r_min (%g)", c.RMax, c.RMin)
	}
	return nil
}
