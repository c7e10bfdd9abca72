package track

import "github.com/pobstone/racesim/pkg/model"

// Zone is a DRS activation zone in circuit parameter space. Zones may
// wrap through the start/finish seam.
type Zone struct {
	Start float64
	End   float64
}

func (z Zone) Contains(t float64) bool {
	t = WrapParam(t)
	if z.Start < z.End {
		return t >= z.Start && t <= z.End
	}
	return t >= z.Start || t <= z.End
}

func NewZones(defs []model.ZoneDef) []Zone {
	zones := make([]Zone, 0, len(defs))
	for _, d := range defs {
		zones = append(zones, Zone{Start: d.Start, End: d.End})
	}
	return zones
}

// InAnyZone reports whether t lies inside any of the zones.
func InAnyZone(zones []Zone, t float64) bool {
	for _, z := range zones {
		if z.Contains(t) {
			return true
		}
	}
	return false
}
