package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDownlinkPlanCompleteness(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	plan := &DownlinkPlan{
		PlanId:      "PLAN_0001",
		TotalDataGb: 10.0,
		Actions: []*DownlinkAction{
			{DataVolumeGb: 6.0, DurationSec: 98.0, Start: t0, End: t0.Add(98 * time.Second)},
			{DataVolumeGb: 3.9995, DurationSec: 65.0, Start: t0.Add(1000 * time.Second), End: t0.Add(1065 * time.Second)},
		},
	}

	assert.InDelta(t, 9.9995, plan.CompletedDataGb(), 1e-9)
	assert.True(t, plan.IsComplete())
	assert.Equal(t, 163.0, plan.TotalDurationSec())
	assert.Equal(t, t0, plan.EarliestStart())
	assert.Equal(t, t0.Add(1065*time.Second), plan.LatestEnd())

	plan.Actions = plan.Actions[:1]
	assert.False(t, plan.IsComplete())
}

func TestDownlinkSegmentOrdering(t *testing.T) {
	first := &DownlinkSegment{SequenceNumber: 1, TotalSegments: 3}
	last := &DownlinkSegment{SequenceNumber: 3, TotalSegments: 3}

	assert.True(t, first.IsFirst())
	assert.False(t, first.IsLast())
	assert.True(t, last.IsLast())
}

func TestDownlinkWindowMaxVolume(t *testing.T) {
	w := DownlinkWindow{MaxDataRateMbps: 1024, DurationSec: 100}
	// 1024 Mbps for 100s: 1024*100/8/1024 = 12.5 GB
	assert.InDelta(t, 12.5, w.MaxDataVolumeGb(), 1e-9)
}

func TestTimeWindowPredicates(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: t0, End: t0.Add(100 * time.Second)}

	assert.True(t, w.Contains(t0, t0.Add(100*time.Second)))
	assert.False(t, w.Contains(t0.Add(-time.Second), t0))
	assert.True(t, w.Overlaps(t0.Add(50*time.Second), t0.Add(150*time.Second)))
	assert.False(t, w.Overlaps(t0.Add(100*time.Second), t0.Add(150*time.Second)))
}

func TestAntennaAvailability(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	open := &Antenna{Id: "A1"}
	assert.True(t, open.IsAvailableDuring(t0, t0.Add(time.Hour)))

	limited := &Antenna{
		Id:               "A2",
		AvailableWindows: []TimeWindow{{Start: t0, End: t0.Add(time.Hour)}},
	}
	assert.True(t, limited.IsAvailableDuring(t0.Add(time.Minute), t0.Add(2*time.Minute)))
	assert.False(t, limited.IsAvailableDuring(t0.Add(time.Hour), t0.Add(2*time.Hour)))
}
