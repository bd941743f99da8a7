package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/config"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

func setUp() {
	config.PlannerGeneralConfig = config.GeneralConfig{
		Name:                 "test",
		VisibilityProvider:   "mock",
		MinGapAfterUplinkSec: 60,
		SegmentOverheadSec:   15,
	}
}

func fastSearchConfig() config.AWCSATConfig {
	cfg := config.DefaultAWCSATConfig()
	cfg.OuterLoops = 20
	cfg.InitialInnerLoops = 10
	cfg.InitialSampleSize = 5
	cfg.RandomSeed = 7
	cfg.TimeLimitSec = 30
	return cfg
}

func TestRunnerPlan(t *testing.T) {
	setUp()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	scenario := DefaultScenario(start, start.Add(24*time.Hour))

	runner, err := NewRunner(scenario, fastSearchConfig())
	require.NoError(t, err)

	report, err := runner.Plan()
	require.NoError(t, err)

	assert.Equal(t, "default", report.Scenario)
	require.NotNil(t, report.Solution)
	assert.Greater(t, report.Counters["candidate tasks"], 0)
	assert.Contains(t, report.SearchStats, "initial_temperature")

	// Every committed downlink stays inside the scenario horizon.
	for _, dl := range report.Downlinks {
		assert.False(t, dl.Start.Before(scenario.Start))
		assert.False(t, dl.End.After(scenario.Stop.Add(time.Hour)))
	}
}

func TestRunnerPlanIsRepeatable(t *testing.T) {
	setUp()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	scenario := DefaultScenario(start, start.Add(24*time.Hour))

	run := func() *PlanReport {
		runner, err := NewRunner(scenario, fastSearchConfig())
		require.NoError(t, err)
		report, err := runner.Plan()
		require.NoError(t, err)
		return report
	}

	first := run()
	second := run()

	assert.Equal(t, first.Solution.Objective, second.Solution.Objective)
	assert.Equal(t, len(first.Uplinks), len(second.Uplinks))
	assert.Equal(t, len(first.Downlinks), len(second.Downlinks))
}

func TestRunnerBridge(t *testing.T) {
	setUp()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	scenario := DefaultScenario(start, start.Add(12*time.Hour))

	runner, err := NewRunner(scenario, fastSearchConfig())
	require.NoError(t, err)

	bridge, err := runner.Run()
	require.NoError(t, err)

	bridge.ReportRequestStream <- struct{}{}
	report := <-bridge.ReportStream
	require.NotNil(t, report)
	assert.Equal(t, "default", report.Scenario)
}

func TestDefaultScenarioShape(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	scenario := DefaultScenario(start, start.Add(24*time.Hour))

	assert.Len(t, scenario.Satellites, 10)
	assert.Len(t, scenario.Stations, 3)
	assert.NotEmpty(t, scenario.Targets)

	for _, station := range scenario.Stations {
		assert.NotEmpty(t, station.Antennas)
	}
}

func TestStripScaledVolume(t *testing.T) {
	task := &model.ImagingTask{Id: "T1", DataVolumeGb: 4.0}

	t.Run("extension grows the volume", func(t *testing.T) {
		got := stripScaledVolumeGb(task, map[string]float64{"T1": 0.5})
		assert.InDelta(t, 6.0, got, 1e-9)
	})

	t.Run("no decoded rate keeps the nominal volume", func(t *testing.T) {
		got := stripScaledVolumeGb(task, map[string]float64{"T2": 0.5})
		assert.Equal(t, 4.0, got)
	})
}
