package visibility

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
)

var log = logging.Get()

// SGP4Provider propagates two-line element sets and extracts the intervals
// where the satellite's elevation over a ground point exceeds the mask. The
// step controls the time resolution of window edges. Satellites without TLE
// lines get no windows.
type SGP4Provider struct {
	minElevationDeg float64
	step            time.Duration
}

func NewSGP4Provider(minElevationDeg float64, step time.Duration) *SGP4Provider {
	if step <= 0 {
		step = 30 * time.Second
	}
	return &SGP4Provider{minElevationDeg: minElevationDeg, step: step}
}

// ecefPosition propagates the satellite to t and rotates the ECI position
// into the earth-fixed frame. go-satellite works in kilometres.
func ecefPosition(sat satellite.Satellite, t time.Time) (x, y, z float64) {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)
	return posECEF.X, posECEF.Y, posECEF.Z
}

// groundECEF converts a geodetic ground point to ECEF on a spherical earth,
// good enough for pass prediction at this resolution.
func groundECEF(latDeg, lonDeg, altitudeM float64) (x, y, z float64) {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	r := earthRadiusKm + altitudeM/1000.0
	return r * math.Cos(lat) * math.Cos(lon),
		r * math.Cos(lat) * math.Sin(lon),
		r * math.Sin(lat)
}

// elevationDeg is the satellite's elevation above the local horizon of the
// ground point.
func elevationDeg(gx, gy, gz, sx, sy, sz float64) float64 {
	dx, dy, dz := sx-gx, sy-gy, sz-gz
	rangeKm := math.Sqrt(dx*dx + dy*dy + dz*dz)
	gr := math.Sqrt(gx*gx + gy*gy + gz*gz)
	if rangeKm == 0 || gr == 0 {
		return -90.0
	}
	// Angle between the local vertical and the line of sight.
	cosZenith := (gx*dx + gy*dy + gz*dz) / (gr * rangeKm)
	cosZenith = math.Max(-1.0, math.Min(1.0, cosZenith))
	return 90.0 - math.Acos(cosZenith)*180/math.Pi
}

// scanPasses walks [start, stop] at the provider's step and returns the
// intervals where elevation stays above the mask.
func (p *SGP4Provider) scanPasses(sat satellite.Satellite, latDeg, lonDeg, altitudeM float64, start, stop time.Time, mask float64) [][2]time.Time {
	gx, gy, gz := groundECEF(latDeg, lonDeg, altitudeM)

	var passes [][2]time.Time
	var passStart time.Time
	inPass := false

	for t := start; !t.After(stop); t = t.Add(p.step) {
		sx, sy, sz := ecefPosition(sat, t)
		visible := elevationDeg(gx, gy, gz, sx, sy, sz) >= mask

		if visible && !inPass {
			passStart = t
			inPass = true
		}
		if !visible && inPass {
			passes = append(passes, [2]time.Time{passStart, t})
			inPass = false
		}
	}
	if inPass {
		passes = append(passes, [2]time.Time{passStart, stop})
	}
	return passes
}

func (p *SGP4Provider) ComputeAccess(sat *model.Satellite, latDeg, lonDeg float64, start, stop time.Time) []model.ObservationWindow {
	if sat.TleLine1 == "" || sat.TleLine2 == "" {
		log.Warn().Str("satellite", sat.Id).Msg("no TLE, skipping access computation")
		return nil
	}
	propagator := satellite.TLEToSat(sat.TleLine1, sat.TleLine2, satellite.GravityWGS72)

	passes := p.scanPasses(propagator, latDeg, lonDeg, 0, start, stop, p.minElevationDeg)

	windows := make([]model.ObservationWindow, 0, len(passes))
	for i, pass := range passes {
		windows = append(windows, model.ObservationWindow{
			Id:           fmt.Sprintf("OBS_%s_%d", sat.Id, i+1),
			SatelliteId:  sat.Id,
			TargetId:     fmt.Sprintf("%.3f:%.3f", latDeg, lonDeg),
			Start:        pass[0],
			End:          pass[1],
			DurationSec:  pass[1].Sub(pass[0]).Seconds(),
			ElevationDeg: p.minElevationDeg,
		})
	}
	return windows
}

func (p *SGP4Provider) ComputeGroundStationAccess(sat *model.Satellite, station *model.TTCStation, start, stop time.Time) []model.DownlinkWindow {
	if sat.TleLine1 == "" || sat.TleLine2 == "" {
		log.Warn().Str("satellite", sat.Id).Msg("no TLE, skipping station access computation")
		return nil
	}
	propagator := satellite.TLEToSat(sat.TleLine1, sat.TleLine2, satellite.GravityWGS72)

	mask := station.MinElevationDeg
	if mask <= 0 {
		mask = p.minElevationDeg
	}
	passes := p.scanPasses(propagator, station.Latitude, station.Longitude, station.AltitudeM, start, stop, mask)

	rate := station.MaxDataRateMbps()
	if sat.Type != nil && sat.Type.MaxDownlinkRateMbps < rate {
		rate = sat.Type.MaxDownlinkRateMbps
	}

	windows := make([]model.DownlinkWindow, 0, len(passes))
	for i, pass := range passes {
		windows = append(windows, model.DownlinkWindow{
			Id:              fmt.Sprintf("DLW_%s_%s_%d", sat.Id, station.Id, i+1),
			SatelliteId:     sat.Id,
			StationId:       station.Id,
			Start:           pass[0],
			End:             pass[1],
			DurationSec:     pass[1].Sub(pass[0]).Seconds(),
			MaxDataRateMbps: rate,
		})
	}
	return windows
}
