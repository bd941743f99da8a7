package constraints

import (
	"fmt"
	"sort"
	"time"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/model"
)

// AntennaAction is a unified view of any reservation on one antenna, used to
// validate a mixed uplink/downlink schedule after the fact. Aggregated
// downlinks expand into one AntennaAction per dish they occupy.
type AntennaAction struct {
	ActionId    string
	SatelliteId string
	AntennaId   string
	Start       time.Time
	End         time.Time
}

// AntennaResourceConstraint re-validates committed schedules: no two actions
// may overlap on one antenna, and actions for different satellites must be
// separated by the antenna's switch time.
type AntennaResourceConstraint struct{}

// GroupActionsByAntenna expands uplinks and downlinks into per-antenna
// action lists sorted by start time.
func GroupActionsByAntenna(uplinks []*model.UplinkAction, downlinks []*model.DownlinkAction) map[string][]AntennaAction {
	grouped := make(map[string][]AntennaAction)

	add := func(antennaId string, a AntennaAction) {
		a.AntennaId = antennaId
		grouped[antennaId] = append(grouped[antennaId], a)
	}

	for _, u := range uplinks {
		add(u.AntennaId, AntennaAction{
			ActionId:    u.Id,
			SatelliteId: u.SatelliteId,
			Start:       u.Start,
			End:         u.End,
		})
	}
	for _, d := range downlinks {
		antennas := d.AntennaIds
		if len(antennas) == 0 {
			antennas = []string{d.AntennaId}
		}
		for _, antennaId := range antennas {
			add(antennaId, AntennaAction{
				ActionId:    d.Id,
				SatelliteId: d.SatelliteId,
				Start:       d.Start,
				End:         d.End,
			})
		}
	}

	for antennaId, list := range grouped {
		sort.Slice(list, func(i, j int) bool { return list[i].Start.Before(list[j].Start) })
		grouped[antennaId] = list
	}
	return grouped
}

// CheckAntennaSchedule validates one antenna's sorted action list. Overlaps
// and switch-time breaches both produce error violations; checking continues
// past the first hit so the report is complete.
func (AntennaResourceConstraint) CheckAntennaSchedule(antenna *model.Antenna, actions []AntennaAction) []Violation {
	var violations []Violation

	for i := 1; i < len(actions); i++ {
		prev := actions[i-1]
		cur := actions[i]

		if cur.Start.Before(prev.End) {
			violations = append(violations, Violation{
				Type:     "antenna_conflict",
				Severity: SeverityError,
				Message: fmt.Sprintf("antenna %s: actions %s and %s overlap",
					antenna.Id, prev.ActionId, cur.ActionId),
				ActionIds: []string{prev.ActionId, cur.ActionId},
			})
			continue
		}

		if cur.SatelliteId == prev.SatelliteId {
			continue
		}
		gap := cur.Start.Sub(prev.End).Seconds()
		if gap < antenna.SatelliteSwitchTimeSec {
			violations = append(violations, Violation{
				Type:     "antenna_switch_time",
				Severity: SeverityError,
				Message: fmt.Sprintf("antenna %s: %.1fs between %s and %s, needs %.1fs to retarget",
					antenna.Id, gap, prev.ActionId, cur.ActionId, antenna.SatelliteSwitchTimeSec),
				ActionIds:      []string{prev.ActionId, cur.ActionId},
				RequiredGapSec: antenna.SatelliteSwitchTimeSec,
				ActualGapSec:   gap,
			})
		}
	}
	return violations
}

// CheckSchedule validates the whole committed schedule across all stations.
// Actions on antennas that no station declares are reported too.
func (c AntennaResourceConstraint) CheckSchedule(stations []*model.TTCStation, uplinks []*model.UplinkAction, downlinks []*model.DownlinkAction) []Violation {
	antennas := make(map[string]*model.Antenna)
	for _, station := range stations {
		for _, antenna := range station.Antennas {
			antennas[antenna.Id] = antenna
		}
	}

	grouped := GroupActionsByAntenna(uplinks, downlinks)

	antennaIds := make([]string, 0, len(grouped))
	for id := range grouped {
		antennaIds = append(antennaIds, id)
	}
	sort.Strings(antennaIds)

	var violations []Violation
	for _, antennaId := range antennaIds {
		antenna := antennas[antennaId]
		if antenna == nil {
			violations = append(violations, Violation{
				Type:     "antenna_conflict",
				Severity: SeverityError,
				Message:  fmt.Sprintf("schedule references unknown antenna %s", antennaId),
			})
			continue
		}
		violations = append(violations, c.CheckAntennaSchedule(antenna, grouped[antennaId])...)
	}
	return violations
}
