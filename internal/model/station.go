package model

import "time"

// TTCStation is a telemetry, tracking and command ground station. Uplink
// commands and data downlinks share its antennas.
type TTCStation struct {
	Id        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	AltitudeM float64 `json:"altitude_m" yaml:"altitude_m"`

	Antennas []*Antenna `json:"antennas" yaml:"antennas"`

	MinElevationDeg float64 `json:"min_elevation_deg" yaml:"min_elevation_deg"`

	UplinkRateKbps       float64 `json:"uplink_rate_kbps" yaml:"uplink_rate_kbps"`
	BaseUplinkTimeSec    float64 `json:"base_uplink_time_sec" yaml:"base_uplink_time_sec"`
	PerTaskUplinkTimeSec float64 `json:"per_task_uplink_time_sec" yaml:"per_task_uplink_time_sec"`
}

// UplinkDuration returns the time needed to uplink a command batch:
// base + perTask * numTasks, in seconds.
func (s *TTCStation) UplinkDuration(numTasks int) float64 {
	return s.BaseUplinkTimeSec + s.PerTaskUplinkTimeSec*float64(numTasks)
}

// GetAntenna returns the antenna with the given id, or nil.
func (s *TTCStation) GetAntenna(antennaId string) *Antenna {
	for _, ant := range s.Antennas {
		if ant.Id == antennaId {
			return ant
		}
	}
	return nil
}

// AvailableAntennasDuring returns every antenna free by its own declared
// windows over [start, end]. Slot conflicts are the scheduler's concern.
func (s *TTCStation) AvailableAntennasDuring(start, end time.Time) []*Antenna {
	var out []*Antenna
	for _, ant := range s.Antennas {
		if ant.IsAvailableDuring(start, end) {
			out = append(out, ant)
		}
	}
	return out
}

// AntennasByFrequency returns the antennas supporting the given band.
func (s *TTCStation) AntennasByFrequency(frequency string) []*Antenna {
	var out []*Antenna
	for _, ant := range s.Antennas {
		if ant.SupportsFrequency(frequency) {
			out = append(out, ant)
		}
	}
	return out
}

// MaxDataRateMbps is the best single-antenna rate at the station.
func (s *TTCStation) MaxDataRateMbps() float64 {
	best := 0.0
	for _, ant := range s.Antennas {
		if ant.MaxDataRateMbps > best {
			best = ant.MaxDataRateMbps
		}
	}
	return best
}

// CandidateWindow is one scheduling candidate handed to the TTC scheduler:
// a visibility interval on a concrete (station, antenna) pair. RateMbps is
// the window-level link rate; it only matters for downlinks.
type CandidateWindow struct {
	StationId string    `json:"station_id"`
	AntennaId string    `json:"antenna_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	RateMbps  float64   `json:"rate_mbps"`
}
