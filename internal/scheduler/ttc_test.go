package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testStation() *model.TTCStation {
	return &model.TTCStation{
		Id:                   "GS_1",
		Name:                 "Station One",
		UplinkRateKbps:       256,
		BaseUplinkTimeSec:    30,
		PerTaskUplinkTimeSec: 5,
		Antennas: []*model.Antenna{
			{
				Id:                     "GS_1_A1",
				Name:                   "A1",
				StationId:              "GS_1",
				MaxDataRateMbps:        1024,
				SatelliteSwitchTimeSec: 5,
			},
		},
	}
}

func window(start, end time.Time, rate float64) model.CandidateWindow {
	return model.CandidateWindow{
		StationId: "GS_1",
		AntennaId: "GS_1_A1",
		Start:     start,
		End:       end,
		RateMbps:  rate,
	}
}

func TestScheduleUplink(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	request := model.UplinkRequest{
		SatelliteId: "SAT_A",
		TaskIds:     []string{"T1", "T2"},
		Earliest:    t0,
		Latest:      t0.Add(500 * time.Second),
	}

	result := sched.ScheduleUplink(request, []model.CandidateWindow{
		window(t0.Add(10*time.Second), t0.Add(100*time.Second), 0),
	})

	require.True(t, result.Success)
	assert.Equal(t, "UL_0001", result.Action.Id)
	// base 30s + 5s per task
	assert.Equal(t, 40.0, result.Action.DurationSec)
	assert.Equal(t, t0.Add(10*time.Second), result.Action.Start)
	assert.Equal(t, t0.Add(50*time.Second), result.Action.End)
	assert.True(t, result.Action.ContainsTask("T2"))
}

func TestScheduleUplinkDeadline(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	request := model.UplinkRequest{
		SatelliteId: "SAT_A",
		TaskIds:     []string{"T1", "T2"},
		Earliest:    t0,
		Latest:      t0.Add(30 * time.Second),
	}

	result := sched.ScheduleUplink(request, []model.CandidateWindow{
		window(t0.Add(10*time.Second), t0.Add(100*time.Second), 0),
	})

	assert.False(t, result.Success)
	assert.Nil(t, result.Action)
	assert.NotEmpty(t, result.Message)
}

func TestScheduleDownlinkDuration(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	// 12.5 GB at min(1024, 1024) Mbps: 12.5*8*1024/1024 = 100s.
	result := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})

	require.True(t, result.Success)
	assert.Equal(t, "DL_0001", result.Action.Id)
	assert.InDelta(t, 100.0, result.Action.DurationSec, 1e-9)
	assert.Equal(t, t0.Add(100*time.Second), result.Action.End)
	assert.Equal(t, 1024.0, result.Action.RateMbps)
}

func TestScheduleDownlinkRateCappedByAntenna(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	result := sched.ScheduleDownlink("SAT_A", 1.0, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 4096),
	}, time.Time{})

	require.True(t, result.Success)
	assert.Equal(t, 1024.0, result.Action.RateMbps)
}

func TestSatelliteSwitchTime(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	// SAT_A occupies [0, 100].
	first := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, first.Success)

	// 1.25 GB is a 10s transfer at 1024 Mbps.
	t.Run("inside switch gap rejected", func(t *testing.T) {
		result := sched.ScheduleDownlink("SAT_B", 1.25, []model.CandidateWindow{
			window(t0.Add(103*time.Second), t0.Add(120*time.Second), 1024),
		}, time.Time{})
		assert.False(t, result.Success)
	})

	t.Run("after switch gap accepted", func(t *testing.T) {
		result := sched.ScheduleDownlink("SAT_B", 1.25, []model.CandidateWindow{
			window(t0.Add(106*time.Second), t0.Add(130*time.Second), 1024),
		}, time.Time{})
		assert.True(t, result.Success)
	})
}

func TestSameSatelliteNeedsNoSwitchGap(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	first := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, first.Success)

	result := sched.ScheduleDownlink("SAT_A", 1.25, []model.CandidateWindow{
		window(t0.Add(101*time.Second), t0.Add(120*time.Second), 1024),
	}, time.Time{})
	assert.True(t, result.Success)
}

func TestOverlapRejected(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	first := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, first.Success)

	// Same satellite, overlapping interval.
	result := sched.ScheduleDownlink("SAT_A", 1.25, []model.CandidateWindow{
		window(t0.Add(50*time.Second), t0.Add(90*time.Second), 1024),
	}, time.Time{})
	assert.False(t, result.Success)
}

func TestEarliestBound(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	result := sched.ScheduleDownlink("SAT_A", 1.25, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, t0.Add(200*time.Second))

	require.True(t, result.Success)
	assert.Equal(t, t0.Add(200*time.Second), result.Action.Start)
}

func TestClearSchedule(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	first := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, first.Success)

	sched.ClearSchedule()

	uplinks, downlinks := sched.ScheduledActions()
	assert.Empty(t, uplinks)
	assert.Empty(t, downlinks)

	// The previously occupied interval is free again and ids restart.
	again := sched.ScheduleDownlink("SAT_B", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, again.Success)
	assert.Equal(t, "DL_0001", again.Action.Id)
}

func TestAntennaUtilization(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	assert.Equal(t, 0.0, sched.AntennaUtilization("GS_1_A1"))

	first := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0, t0.Add(300*time.Second), 1024),
	}, time.Time{})
	require.True(t, first.Success)

	second := sched.ScheduleDownlink("SAT_A", 12.5, []model.CandidateWindow{
		window(t0.Add(200*time.Second), t0.Add(600*time.Second), 1024),
	}, time.Time{})
	require.True(t, second.Success)

	// 200s busy over a 300s span.
	assert.InDelta(t, 200.0/300.0, sched.AntennaUtilization("GS_1_A1"), 1e-9)
}

func TestNoCandidates(t *testing.T) {
	sched := NewTTCScheduler([]*model.TTCStation{testStation()}, 60)

	result := sched.ScheduleDownlink("SAT_A", 1.0, nil, time.Time{})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}
