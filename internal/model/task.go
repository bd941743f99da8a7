package model

import "time"

// ImagingTask is a candidate observation the optimizer assigns: a concrete
// imaging interval for a satellite over a target. SatelliteId is optional
// at construction time (the search may decide it); every task must carry an
// id.
type ImagingTask struct {
	Id          string `json:"id" yaml:"id"`
	TargetId    string `json:"target_id" yaml:"target_id"`
	SatelliteId string `json:"satellite_id,omitempty" yaml:"satellite_id"`

	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`

	DataVolumeGb float64 `json:"data_volume_gb" yaml:"data_volume_gb"`
	Value        float64 `json:"value" yaml:"value"`

	// Opportunity counts drive the encoding decode; they are supplied by
	// the visibility pre-computation, not derived here.
	ImagingOpportunities  int `json:"imaging_opportunities" yaml:"imaging_opportunities"`
	DownlinkOpportunities int `json:"downlink_opportunities" yaml:"downlink_opportunities"`
}

// ObservationWindow is one pre-computed visibility interval of a satellite
// over a ground target, produced by the visibility provider.
type ObservationWindow struct {
	Id          string `json:"id"`
	SatelliteId string `json:"satellite_id"`
	TargetId    string `json:"target_id"`

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_sec"`

	ElevationDeg float64 `json:"elevation_deg"`
	OffNadirDeg  float64 `json:"off_nadir_deg"`
}

// DownlinkWindow is one pre-computed visibility interval of a satellite over
// a ground station, with the link rate the geometry supports.
type DownlinkWindow struct {
	Id          string `json:"id"`
	SatelliteId string `json:"satellite_id"`
	StationId   string `json:"station_id"`

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_sec"`

	MaxDataRateMbps float64 `json:"max_data_rate_mbps"`
}

// MaxDataVolumeGb is the most data the window can carry at its own rate.
func (w DownlinkWindow) MaxDataVolumeGb() float64 {
	return w.MaxDataRateMbps * w.DurationSec / 8 / 1024
}

// Target is a ground point to be imaged.
type Target struct {
	Id        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Priority  float64 `json:"priority" yaml:"priority"`
}
