package model

import "time"

// TimeWindow is a half-open [Start, End) interval on the timeline.
type TimeWindow struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Duration returns the window length in seconds.
func (w TimeWindow) Duration() float64 {
	return w.End.Sub(w.Start).Seconds()
}

// Contains reports whether [start, end] lies entirely inside the window.
func (w TimeWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Overlaps reports whether two intervals intersect.
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && w.Start.Before(end)
}

// Antenna is one dish of a TTC station. Its allocated time-slots are the
// only mutable shared resource in the planner; the scheduler owns them.
type Antenna struct {
	Id        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StationId string `json:"station_id" yaml:"station_id"`

	MaxDataRateMbps      float64  `json:"max_data_rate_mbps" yaml:"max_data_rate_mbps"`
	SupportedFrequencies []string `json:"supported_frequencies" yaml:"supported_frequencies"`

	// nil means always available.
	AvailableWindows []TimeWindow `json:"available_windows,omitempty" yaml:"available_windows"`

	// Minimum idle gap when the antenna changes which satellite it serves.
	SatelliteSwitchTimeSec float64 `json:"satellite_switch_time_sec" yaml:"satellite_switch_time_sec"`
}

// IsAvailableDuring reports whether the antenna can serve during the whole
// interval. An antenna without declared windows is always available.
func (a *Antenna) IsAvailableDuring(start, end time.Time) bool {
	if a.AvailableWindows == nil {
		return true
	}
	for _, w := range a.AvailableWindows {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

// SupportsFrequency reports whether the antenna supports the given band.
func (a *Antenna) SupportsFrequency(frequency string) bool {
	for _, f := range a.SupportedFrequencies {
		if f == frequency {
			return true
		}
	}
	return false
}
