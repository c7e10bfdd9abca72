package model

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ControlPoint is one spline control point in world space. Y is
// elevation, Bank the banking angle in degrees.
type ControlPoint struct {
	X    float64 `json:"x"    yaml:"x"`
	Y    float64 `json:"y"    yaml:"y"`
	Z    float64 `json:"z"    yaml:"z"`
	Bank float64 `json:"bank" yaml:"bank"`
}

// ZoneDef is a DRS zone in track parameter space. Zones may wrap
// through the start/finish seam (start > end).
type ZoneDef struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end"   yaml:"end"`
}

// PitLaneDef describes the pit lane: an open curve in world space,
// entry/exit positions on the main track's parameter space and one
// stop position (pit-lane parameter space) per vehicle slot.
type PitLaneDef struct {
	Entry  float64        `json:"entry"  yaml:"entry"`
	Exit   float64        `json:"exit"   yaml:"exit"`
	Points []ControlPoint `json:"points" yaml:"points"`
	Slots  []float64      `json:"slots"  yaml:"slots"`
}

// RaceDefinition is the complete session configuration. It is fixed at
// session start; the simulation core never mutates it.
type RaceDefinition struct {
	Name            string         `json:"name"            yaml:"name"`
	Location        string         `json:"location"        yaml:"location"`
	TotalLaps       int            `json:"totalLaps"       yaml:"totalLaps"`
	Scale           float64        `json:"scale"           yaml:"scale"`
	ElevationOffset float64        `json:"elevationOffset" yaml:"elevationOffset"`
	TrackWidth      float64        `json:"trackWidth"      yaml:"trackWidth"`
	GridOrigin      float64        `json:"gridOrigin"      yaml:"gridOrigin"`
	GridStep        float64        `json:"gridStep"        yaml:"gridStep"`
	GridSlots       []float64      `json:"gridSlots"       yaml:"gridSlots"` // optional explicit stagger
	Points          []ControlPoint `json:"points"          yaml:"points"`
	DRSZones        []ZoneDef      `json:"drsZones"        yaml:"drsZones"`
	PitLane         PitLaneDef     `json:"pitLane"         yaml:"pitLane"`
	Teams           []Team         `json:"teams"           yaml:"teams"`
}

var (
	ErrNoControlPoints = errors.New("track needs at least 4 control points")
	ErrNoTeams         = errors.New("race needs at least one team")
	ErrNoLaps          = errors.New("total laps must be positive")
	ErrBadPitLane      = errors.New("invalid pit lane definition")
	ErrBadZone         = errors.New("invalid drs zone")
)

// Validate fails fast on malformed configuration. This is the only
// error path of the simulation core; everything downstream assumes a
// valid definition.
//
//nolint:cyclop // plain validation checklist
func (d *RaceDefinition) Validate() error {
	if len(d.Points) < 4 {
		return ErrNoControlPoints
	}
	if len(d.Teams) == 0 {
		return ErrNoTeams
	}
	if d.TotalLaps < 1 {
		return ErrNoLaps
	}
	for _, z := range d.DRSZones {
		if z.Start < 0 || z.Start >= 1 || z.End < 0 || z.End >= 1 {
			return fmt.Errorf("%w: start=%f end=%f", ErrBadZone, z.Start, z.End)
		}
	}
	p := &d.PitLane
	if len(p.Points) < 4 {
		return fmt.Errorf("%w: needs at least 4 control points", ErrBadPitLane)
	}
	if p.Entry < 0 || p.Entry >= 1 || p.Exit < 0 || p.Exit >= 1 {
		return fmt.Errorf("%w: entry/exit outside [0,1)", ErrBadPitLane)
	}
	if len(p.Slots) < len(d.Teams) {
		return fmt.Errorf("%w: %d slots for %d teams", ErrBadPitLane,
			len(p.Slots), len(d.Teams))
	}
	for i, s := range p.Slots {
		if s <= 0 || s >= 1 {
			return fmt.Errorf("%w: slot %d outside (0,1)", ErrBadPitLane, i)
		}
		if i > 0 && s <= p.Slots[i-1] {
			return fmt.Errorf("%w: slots must be strictly increasing", ErrBadPitLane)
		}
	}
	if len(d.GridSlots) > 0 && len(d.GridSlots) < len(d.Teams) {
		return fmt.Errorf("%d grid slots for %d teams", len(d.GridSlots), len(d.Teams))
	}
	return nil
}

// Normalize applies scale/elevation to the control points and fills in
// defaults for optional values. Scale is consumed (reset to 1) so a
// definition is never scaled twice.
func (d *RaceDefinition) Normalize() {
	if d.Scale == 0 {
		d.Scale = 1
	}
	if d.Scale != 1 || d.ElevationOffset != 0 {
		for i := range d.Points {
			d.Points[i].X *= d.Scale
			d.Points[i].Y = d.Points[i].Y*d.Scale + d.ElevationOffset
			d.Points[i].Z *= d.Scale
		}
		for i := range d.PitLane.Points {
			d.PitLane.Points[i].X *= d.Scale
			d.PitLane.Points[i].Y = d.PitLane.Points[i].Y*d.Scale + d.ElevationOffset
			d.PitLane.Points[i].Z *= d.Scale
		}
		d.Scale = 1
		d.ElevationOffset = 0
	}
	if d.TrackWidth == 0 {
		d.TrackWidth = 12.0
	}
	if d.GridOrigin == 0 {
		d.GridOrigin = 0.98
	}
	if d.GridStep == 0 {
		d.GridStep = 0.015
	}
}

// LoadRaceDefinition reads a YAML race definition, validates it and
// resolves world-space coordinates.
func LoadRaceDefinition(path string) (*RaceDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def := &RaceDefinition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	def.Normalize()
	return def, nil
}

// StaggerFor returns the initial trackParam for a grid slot.
func (d *RaceDefinition) StaggerFor(slot int) float64 {
	if len(d.GridSlots) > slot {
		return wrap01(d.GridSlots[slot])
	}
	return wrap01(d.GridOrigin - float64(slot)*d.GridStep)
}

func wrap01(v float64) float64 {
	v -= float64(int(v))
	if v < 0 {
		v += 1
	}
	return v
}
