package visibility

import (
	"fmt"
	"math"
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/utils"
)

const earthRadiusKm = 6371.0

// MockProvider generates plausible visibility geometry without propagating
// orbits. Pass times and durations are derived from a hash of the satellite
// and ground ids, so the same pair always sees the same windows and tests
// stay deterministic.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// orbitalPeriod approximates the period from the altitude via Kepler's third
// law, in seconds.
func orbitalPeriod(altitudeKm float64) float64 {
	if altitudeKm <= 0 {
		altitudeKm = 500.0
	}
	const mu = 398600.4418 // km^3/s^2
	a := earthRadiusKm + altitudeKm
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

// passPattern derives the per-pair pass timing from a hash of the two ids.
func passPattern(satId, groundId string, altitudeKm float64) (interval, duration, phase float64) {
	h := utils.Hash(satId + "/" + groundId)
	if h < 0 {
		h = -h
	}

	period := orbitalPeriod(altitudeKm)
	// A LEO ground point sees a satellite a few times per day; spread the
	// passes over several orbital periods.
	visitsPerDay := 2.5 + float64(h%3)
	interval = 86400.0 / visitsPerDay
	if interval < period {
		interval = period
	}
	duration = 120.0 + float64(h%360)
	phase = float64(h%int(interval/2)) + 60.0
	return interval, duration, phase
}

func (p *MockProvider) ComputeAccess(sat *model.Satellite, latDeg, lonDeg float64, start, stop time.Time) []model.ObservationWindow {
	groundId := fmt.Sprintf("%.3f:%.3f", latDeg, lonDeg)
	interval, duration, phase := passPattern(sat.Id, groundId, sat.AltitudeKm)

	h := utils.Hash(groundId + "/" + sat.Id)
	if h < 0 {
		h = -h
	}
	offNadir := float64(h % 30)

	var windows []model.ObservationWindow
	for t := start.Add(secDur(phase)); t.Before(stop); t = t.Add(secDur(interval)) {
		end := t.Add(secDur(duration))
		if end.After(stop) {
			break
		}
		windows = append(windows, model.ObservationWindow{
			Id:           fmt.Sprintf("OBS_%s_%s_%d", sat.Id, groundId, len(windows)+1),
			SatelliteId:  sat.Id,
			TargetId:     groundId,
			Start:        t,
			End:          end,
			DurationSec:  duration,
			ElevationDeg: 90.0 - offNadir,
			OffNadirDeg:  offNadir,
		})
	}
	return windows
}

func (p *MockProvider) ComputeGroundStationAccess(sat *model.Satellite, station *model.TTCStation, start, stop time.Time) []model.DownlinkWindow {
	interval, duration, phase := passPattern(sat.Id, station.Id, sat.AltitudeKm)

	rate := station.MaxDataRateMbps()
	if sat.Type != nil && sat.Type.MaxDownlinkRateMbps < rate {
		rate = sat.Type.MaxDownlinkRateMbps
	}

	var windows []model.DownlinkWindow
	for t := start.Add(secDur(phase)); t.Before(stop); t = t.Add(secDur(interval)) {
		end := t.Add(secDur(duration))
		if end.After(stop) {
			break
		}
		windows = append(windows, model.DownlinkWindow{
			Id:              fmt.Sprintf("DLW_%s_%s_%d", sat.Id, station.Id, len(windows)+1),
			SatelliteId:     sat.Id,
			StationId:       station.Id,
			Start:           t,
			End:             end,
			DurationSec:     duration,
			MaxDataRateMbps: rate,
		})
	}
	return windows
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
