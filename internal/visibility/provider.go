package visibility

import (
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

// Provider pre-computes visibility geometry for the planner. Implementations
// must be deterministic: the same inputs always produce the same windows.
type Provider interface {
	// ComputeAccess returns the intervals where the satellite can observe the
	// ground point, in chronological order.
	ComputeAccess(sat *model.Satellite, latDeg, lonDeg float64, start, stop time.Time) []model.ObservationWindow

	// ComputeGroundStationAccess returns the intervals where the satellite
	// can close a link with the station, in chronological order.
	ComputeGroundStationAccess(sat *model.Satellite, station *model.TTCStation, start, stop time.Time) []model.DownlinkWindow
}

// NewProvider resolves a provider by configuration name. Unknown names fall
// back to the mock model so a simulation can always run.
func NewProvider(kind string) Provider {
	switch kind {
	case "sgp4":
		return NewSGP4Provider(10.0, 30*time.Second)
	default:
		return NewMockProvider()
	}
}
