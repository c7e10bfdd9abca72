package track

import (
	"fmt"

	"github.com/pobstone/racesim/pkg/model"
)

// PitLane is the open pit-lane curve plus its attachment to the main
// circuit: Entry/Exit are positions in the circuit's parameter space,
// Slots are stopping positions in the lane's own parameter space, one
// per vehicle slot, strictly increasing.
type PitLane struct {
	points []model.ControlPoint
	Entry  float64
	Exit   float64
	slots  []float64
}

func NewPitLane(def model.PitLaneDef) (*PitLane, error) {
	if len(def.Points) < 4 {
		return nil, fmt.Errorf("%w: needs at least 4 control points", model.ErrBadPitLane)
	}
	if len(def.Slots) == 0 {
		return nil, fmt.Errorf("%w: no stop slots", model.ErrBadPitLane)
	}
	for i := 1; i < len(def.Slots); i++ {
		if def.Slots[i] <= def.Slots[i-1] {
			return nil, fmt.Errorf("%w: slots must be strictly increasing", model.ErrBadPitLane)
		}
	}
	points := make([]model.ControlPoint, len(def.Points))
	copy(points, def.Points)
	slots := make([]float64, len(def.Slots))
	copy(slots, def.Slots)
	return &PitLane{points: points, Entry: def.Entry, Exit: def.Exit, slots: slots}, nil
}

// PointAt returns the interpolated lane position at u. The lane is a
// one-way path: u clamps to [0,1], there is no wraparound.
func (p *PitLane) PointAt(u float64) Point {
	u = ClampParam(u)
	n := len(p.points)
	segment := u * float64(n-1)
	i := int(segment)
	if i >= n-1 {
		i = n - 2
	}
	localT := segment - float64(i)

	p0 := p.points[clampIdx(i-1, n)]
	p1 := p.points[i]
	p2 := p.points[i+1]
	p3 := p.points[clampIdx(i+2, n)]
	return catmullRom(p0, p1, p2, p3, localT)
}

// TangentAt returns the normalized lane direction at u.
func (p *PitLane) TangentAt(u float64) Point {
	u = ClampParam(u)
	a := p.PointAt(u - tangentDelta)
	b := p.PointAt(u + tangentDelta)
	return normalize(Point{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z})
}

// StopParam returns the stopping position for a vehicle slot. Slots
// beyond the configured set reuse the last box.
func (p *PitLane) StopParam(slot int) float64 {
	if slot < 0 {
		slot = 0
	}
	if slot >= len(p.slots) {
		slot = len(p.slots) - 1
	}
	return p.slots[slot]
}

func (p *PitLane) NumSlots() int { return len(p.slots) }

// ClampParam clamps an open-curve parameter into [0,1].
func ClampParam(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
