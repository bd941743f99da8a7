package constraints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return t0.Add(time.Duration(sec * float64(time.Second)))
}

func opticalSat() *model.Satellite {
	return &model.Satellite{Id: "OPT_1", Type: model.HROpticalType}
}

func TestCheckImagingSequence(t *testing.T) {
	sat := opticalSat() // imaging switch 5s

	tasks := []*model.ImagingTask{
		{Id: "T1", SatelliteId: "OPT_1", Start: at(0), End: at(60)},
		{Id: "T2", SatelliteId: "OPT_1", Start: at(62), End: at(120)},
		{Id: "T3", SatelliteId: "OPT_1", Start: at(200), End: at(260)},
		{Id: "T4", SatelliteId: "OTHER", Start: at(61), End: at(90)},
	}

	violations := TransitionConstraint{}.CheckImagingSequence(sat, tasks)

	require.Len(t, violations, 1)
	assert.Equal(t, "imaging_transition", violations[0].Type)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, []string{"T1", "T2"}, violations[0].ActionIds)
	assert.Equal(t, 5.0, violations[0].RequiredGapSec)
	assert.Equal(t, 2.0, violations[0].ActualGapSec)
}

func TestCheckDownlinkSequence(t *testing.T) {
	sat := opticalSat() // downlink switch 3s

	actions := []*model.DownlinkAction{
		{Id: "DL_1", SatelliteId: "OPT_1", StationId: "GS_1", Start: at(0), End: at(100)},
		{Id: "DL_2", SatelliteId: "OPT_1", StationId: "GS_2", Start: at(101), End: at(150)},
		{Id: "DL_3", SatelliteId: "OPT_1", StationId: "GS_2", Start: at(150), End: at(200)},
	}

	violations := TransitionConstraint{}.CheckDownlinkSequence(sat, actions)

	// DL_2 retargets to another station too fast; DL_3 stays on GS_2 and
	// needs no gap at all.
	require.Len(t, violations, 1)
	assert.Equal(t, "downlink_transition", violations[0].Type)
	assert.Equal(t, []string{"DL_1", "DL_2"}, violations[0].ActionIds)
}

func TestCheckImagingToDownlink(t *testing.T) {
	sat := opticalSat() // imaging to downlink 10s

	t.Run("gap too small after last task", func(t *testing.T) {
		tasks := []*model.ImagingTask{
			{Id: "T1", SatelliteId: "OPT_1", Start: at(0), End: at(100)},
			{Id: "T2", SatelliteId: "OPT_1", Start: at(120), End: at(200)},
		}
		actions := []*model.DownlinkAction{
			{Id: "DL_1", SatelliteId: "OPT_1", Start: at(205), End: at(260)},
		}

		violations := TransitionConstraint{}.CheckImagingToDownlink(sat, tasks, actions)

		require.Len(t, violations, 1)
		assert.Equal(t, "imaging_to_downlink", violations[0].Type)
		assert.Equal(t, []string{"T2", "DL_1"}, violations[0].ActionIds)
		assert.Equal(t, 10.0, violations[0].RequiredGapSec)
		assert.Equal(t, 5.0, violations[0].ActualGapSec)
	})

	t.Run("sufficient gap", func(t *testing.T) {
		tasks := []*model.ImagingTask{
			{Id: "T1", SatelliteId: "OPT_1", Start: at(0), End: at(100)},
		}
		actions := []*model.DownlinkAction{
			{Id: "DL_1", SatelliteId: "OPT_1", Start: at(115), End: at(170)},
		}

		assert.Empty(t, TransitionConstraint{}.CheckImagingToDownlink(sat, tasks, actions))
	})

	t.Run("downlink interleaved with imaging is skipped", func(t *testing.T) {
		tasks := []*model.ImagingTask{
			{Id: "T1", SatelliteId: "OPT_1", Start: at(0), End: at(100)},
			{Id: "T2", SatelliteId: "OPT_1", Start: at(150), End: at(250)},
		}
		actions := []*model.DownlinkAction{
			{Id: "DL_1", SatelliteId: "OPT_1", Start: at(105), End: at(140)},
		}

		assert.Empty(t, TransitionConstraint{}.CheckImagingToDownlink(sat, tasks, actions))
	})
}

func TestCheckAntennaSchedule(t *testing.T) {
	antenna := &model.Antenna{Id: "A1", SatelliteSwitchTimeSec: 30}

	t.Run("overlap", func(t *testing.T) {
		violations := AntennaResourceConstraint{}.CheckAntennaSchedule(antenna, []AntennaAction{
			{ActionId: "X1", SatelliteId: "S1", Start: at(0), End: at(100)},
			{ActionId: "X2", SatelliteId: "S1", Start: at(50), End: at(150)},
		})
		require.Len(t, violations, 1)
		assert.Equal(t, "antenna_conflict", violations[0].Type)
	})

	t.Run("switch time", func(t *testing.T) {
		violations := AntennaResourceConstraint{}.CheckAntennaSchedule(antenna, []AntennaAction{
			{ActionId: "X1", SatelliteId: "S1", Start: at(0), End: at(100)},
			{ActionId: "X2", SatelliteId: "S2", Start: at(110), End: at(150)},
		})
		require.Len(t, violations, 1)
		assert.Equal(t, "antenna_switch_time", violations[0].Type)
		assert.Equal(t, 30.0, violations[0].RequiredGapSec)
	})

	t.Run("same satellite needs no switch", func(t *testing.T) {
		violations := AntennaResourceConstraint{}.CheckAntennaSchedule(antenna, []AntennaAction{
			{ActionId: "X1", SatelliteId: "S1", Start: at(0), End: at(100)},
			{ActionId: "X2", SatelliteId: "S1", Start: at(100), End: at(150)},
		})
		assert.Empty(t, violations)
	})
}

func TestGroupActionsByAntennaExpandsAggregated(t *testing.T) {
	downlinks := []*model.DownlinkAction{
		{
			Id:          "ADL_1",
			SatelliteId: "S1",
			AntennaId:   "A1",
			AntennaIds:  []string{"A1", "A2"},
			Start:       at(0),
			End:         at(100),
		},
	}

	grouped := GroupActionsByAntenna(nil, downlinks)

	require.Len(t, grouped, 2)
	assert.Len(t, grouped["A1"], 1)
	assert.Len(t, grouped["A2"], 1)
	assert.Equal(t, "ADL_1", grouped["A2"][0].ActionId)
}

func TestUplinkPrecedence(t *testing.T) {
	constraint := UplinkPrecedenceConstraint{MinGapAfterUplinkSec: 60}

	task := &model.ImagingTask{Id: "T1", SatelliteId: "S1", Start: at(500), End: at(560)}

	t.Run("missing uplink", func(t *testing.T) {
		violations := constraint.CheckTask(task, nil)
		require.Len(t, violations, 1)
		assert.Equal(t, "missing_uplink", violations[0].Type)
		assert.Equal(t, SeverityError, violations[0].Severity)
	})

	t.Run("uplink ends after task starts", func(t *testing.T) {
		uplinks := []*model.UplinkAction{
			{Id: "UL_1", SatelliteId: "S1", TaskIds: []string{"T1"}, Start: at(480), End: at(520)},
		}
		violations := constraint.CheckTask(task, uplinks)
		require.Len(t, violations, 1)
		assert.Equal(t, "missing_uplink", violations[0].Type)
	})

	t.Run("insufficient gap is a warning", func(t *testing.T) {
		uplinks := []*model.UplinkAction{
			{Id: "UL_1", SatelliteId: "S1", TaskIds: []string{"T1"}, Start: at(430), End: at(470)},
		}
		violations := constraint.CheckTask(task, uplinks)
		require.Len(t, violations, 1)
		assert.Equal(t, "insufficient_uplink_gap", violations[0].Type)
		assert.Equal(t, SeverityWarning, violations[0].Severity)
		assert.Equal(t, 30.0, violations[0].ActualGapSec)
	})

	t.Run("sufficient gap", func(t *testing.T) {
		uplinks := []*model.UplinkAction{
			{Id: "UL_1", SatelliteId: "S1", TaskIds: []string{"T1"}, Start: at(300), End: at(400)},
		}
		violations := constraint.CheckTask(task, uplinks)
		assert.Empty(t, violations)
	})
}

func TestCheckerFeasibility(t *testing.T) {
	checker := NewChecker(60)

	sat := opticalSat()
	station := &model.TTCStation{
		Id: "GS_1",
		Antennas: []*model.Antenna{
			{Id: "A1", SatelliteSwitchTimeSec: 30},
		},
	}

	task := &model.ImagingTask{Id: "T1", SatelliteId: "OPT_1", Start: at(500), End: at(560)}

	t.Run("missing uplink makes the plan infeasible", func(t *testing.T) {
		report := checker.Check(
			[]*model.Satellite{sat},
			[]*model.TTCStation{station},
			[]*model.ImagingTask{task},
			nil, nil,
		)
		assert.False(t, report.Feasible)
		require.Len(t, report.Errors(), 1)
		assert.Equal(t, "missing_uplink", report.Errors()[0].Type)
	})

	t.Run("warnings alone keep the plan feasible", func(t *testing.T) {
		uplinks := []*model.UplinkAction{
			{Id: "UL_1", SatelliteId: "OPT_1", AntennaId: "A1", TaskIds: []string{"T1"}, Start: at(430), End: at(470)},
		}
		report := checker.Check(
			[]*model.Satellite{sat},
			[]*model.TTCStation{station},
			[]*model.ImagingTask{task},
			uplinks, nil,
		)
		assert.True(t, report.Feasible)
		assert.Empty(t, report.Errors())
		require.Len(t, report.Warnings(), 1)
	})
}
