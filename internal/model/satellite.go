package model

// SatelliteType groups the capability parameters shared by one model of
// spacecraft: transition times and the advanced downlink capabilities the
// planner is allowed to use.
type SatelliteType struct {
	Id       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"` // "optical" | "sar"

	ImagingSwitchTimeSec     float64 `json:"imaging_switch_time_sec" yaml:"imaging_switch_time_sec"`
	ImagingToDownlinkTimeSec float64 `json:"imaging_to_downlink_time_sec" yaml:"imaging_to_downlink_time_sec"`
	DownlinkSwitchTimeSec    float64 `json:"downlink_switch_time_sec" yaml:"downlink_switch_time_sec"`

	MaxDownlinkRateMbps      float64 `json:"max_downlink_rate_mbps" yaml:"max_downlink_rate_mbps"`
	MultiAntennaCapable      bool    `json:"multi_antenna_capable" yaml:"multi_antenna_capable"`
	MaxSimultaneousAntennas  int     `json:"max_simultaneous_antennas" yaml:"max_simultaneous_antennas"`
	SegmentedDownlinkCapable bool    `json:"segmented_downlink_capable" yaml:"segmented_downlink_capable"`
	SegmentOverheadSec       float64 `json:"segment_overhead_sec" yaml:"segment_overhead_sec"`
	StorageCapacityGb        float64 `json:"storage_capacity_gb" yaml:"storage_capacity_gb"`
	MaxOffNadirDeg           float64 `json:"max_off_nadir_deg" yaml:"max_off_nadir_deg"`
}

// Satellite is one spacecraft of the constellation.
type Satellite struct {
	Id   string         `json:"id" yaml:"id"`
	Name string         `json:"name" yaml:"name"`
	Type *SatelliteType `json:"type" yaml:"type"`

	AltitudeKm     float64 `json:"altitude_km" yaml:"altitude_km"`
	InclinationDeg float64 `json:"inclination_deg" yaml:"inclination_deg"`
	RaanDeg        float64 `json:"raan_deg" yaml:"raan_deg"`
	TrueAnomalyDeg float64 `json:"true_anomaly_deg" yaml:"true_anomaly_deg"`

	// Optional two-line element set for the SGP4 visibility provider.
	TleLine1 string `json:"tle_line1,omitempty" yaml:"tle_line1"`
	TleLine2 string `json:"tle_line2,omitempty" yaml:"tle_line2"`
}

// ImagingSwitchTime falls back to a conservative default when the satellite
// has no type configuration attached.
func (s *Satellite) ImagingSwitchTime() float64 {
	if s.Type == nil {
		return 5.0
	}
	return s.Type.ImagingSwitchTimeSec
}

func (s *Satellite) ImagingToDownlinkTime() float64 {
	if s.Type == nil {
		return 10.0
	}
	return s.Type.ImagingToDownlinkTimeSec
}

func (s *Satellite) DownlinkSwitchTime() float64 {
	if s.Type == nil {
		return 3.0
	}
	return s.Type.DownlinkSwitchTimeSec
}

// Predefined satellite types used by the scenario builder and tests.
var (
	UHROpticalType = &SatelliteType{
		Id:                       "UHR_OPTICAL",
		Name:                     "ultra-high-resolution optical",
		Category:                 "optical",
		ImagingSwitchTimeSec:     8.0,
		ImagingToDownlinkTimeSec: 15.0,
		DownlinkSwitchTimeSec:    5.0,
		MaxDownlinkRateMbps:      1200.0,
		MultiAntennaCapable:      true,
		MaxSimultaneousAntennas:  2,
		StorageCapacityGb:        4000.0,
		MaxOffNadirDeg:           45.0,
		SegmentOverheadSec:       2.0,
	}

	HROpticalType = &SatelliteType{
		Id:                       "HR_OPTICAL",
		Name:                     "high-resolution optical",
		Category:                 "optical",
		ImagingSwitchTimeSec:     5.0,
		ImagingToDownlinkTimeSec: 10.0,
		DownlinkSwitchTimeSec:    3.0,
		MaxDownlinkRateMbps:      800.0,
		StorageCapacityGb:        2000.0,
		MaxOffNadirDeg:           40.0,
		SegmentOverheadSec:       2.0,
	}

	UHRSarType = &SatelliteType{
		Id:                       "UHR_SAR",
		Name:                     "ultra-high-resolution SAR",
		Category:                 "sar",
		ImagingSwitchTimeSec:     10.0,
		ImagingToDownlinkTimeSec: 20.0,
		DownlinkSwitchTimeSec:    5.0,
		MaxDownlinkRateMbps:      1500.0,
		MultiAntennaCapable:      true,
		MaxSimultaneousAntennas:  3,
		SegmentedDownlinkCapable: true,
		SegmentOverheadSec:       3.0,
		StorageCapacityGb:        6000.0,
		MaxOffNadirDeg:           35.0,
	}

	HRSarType = &SatelliteType{
		Id:                       "HR_SAR",
		Name:                     "high-resolution SAR",
		Category:                 "sar",
		ImagingSwitchTimeSec:     8.0,
		ImagingToDownlinkTimeSec: 15.0,
		DownlinkSwitchTimeSec:    4.0,
		MaxDownlinkRateMbps:      1000.0,
		StorageCapacityGb:        4000.0,
		MaxOffNadirDeg:           30.0,
		SegmentOverheadSec:       2.0,
	}
)

var satelliteTypeRegistry = map[string]*SatelliteType{
	UHROpticalType.Id: UHROpticalType,
	HROpticalType.Id:  HROpticalType,
	UHRSarType.Id:     UHRSarType,
	HRSarType.Id:      HRSarType,
}

// GetSatelliteType resolves a registered type id, or nil.
func GetSatelliteType(typeId string) *SatelliteType {
	return satelliteTypeRegistry[typeId]
}
