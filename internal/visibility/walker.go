package visibility

import (
	"fmt"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

// WalkerBuilder generates a Walker-delta constellation: Planes orbital planes
// spread evenly in RAAN, each carrying SatsPerPlane satellites spread evenly
// in true anomaly, with PhaseFactor shifting successive planes.
type WalkerBuilder struct {
	NamePrefix     string
	Type           *model.SatelliteType
	AltitudeKm     float64
	InclinationDeg float64
	Planes         int
	SatsPerPlane   int
	PhaseFactor    int
}

// Build returns the constellation's satellites in plane-major order.
func (b WalkerBuilder) Build() []*model.Satellite {
	if b.Planes <= 0 || b.SatsPerPlane <= 0 {
		return nil
	}

	total := b.Planes * b.SatsPerPlane
	raanStep := 360.0 / float64(b.Planes)
	anomalyStep := 360.0 / float64(b.SatsPerPlane)
	phaseStep := 360.0 * float64(b.PhaseFactor) / float64(total)

	sats := make([]*model.Satellite, 0, total)
	for plane := 0; plane < b.Planes; plane++ {
		for idx := 0; idx < b.SatsPerPlane; idx++ {
			n := plane*b.SatsPerPlane + idx + 1
			sats = append(sats, &model.Satellite{
				Id:             fmt.Sprintf("%s_%02d", b.NamePrefix, n),
				Name:           fmt.Sprintf("%s %d", b.NamePrefix, n),
				Type:           b.Type,
				AltitudeKm:     b.AltitudeKm,
				InclinationDeg: b.InclinationDeg,
				RaanDeg:        float64(plane) * raanStep,
				TrueAnomalyDeg: normalizeDeg(float64(idx)*anomalyStep + float64(plane)*phaseStep),
			})
		}
	}
	return sats
}

func normalizeDeg(deg float64) float64 {
	for deg >= 360.0 {
		deg -= 360.0
	}
	for deg < 0 {
		deg += 360.0
	}
	return deg
}
