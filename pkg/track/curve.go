// Package track provides the parametric curve abstractions of the
// simulation: the closed main circuit, the open pit lane and DRS
// zones. Curves are immutable after construction; all queries accept
// arbitrary real-valued parameters (the circuit wraps, the pit lane
// clamps).
package track

import (
	"math"

	"github.com/pobstone/racesim/pkg/model"
)

// Point is a position or direction in world space.
type Point struct {
	X float64
	Y float64
	Z float64
}

func (p Point) Vec3() model.Vec3 { return model.Vec3{X: p.X, Y: p.Y, Z: p.Z} }

const tangentDelta = 0.001

// Curve is the closed main circuit, Catmull-Rom interpolated through
// its control points. Interpolation is periodic: PointAt(0) equals
// PointAt(1) and tangents are continuous across the seam.
type Curve struct {
	points []model.ControlPoint
}

func NewCurve(points []model.ControlPoint) (*Curve, error) {
	if len(points) < 4 {
		return nil, model.ErrNoControlPoints
	}
	cpy := make([]model.ControlPoint, len(points))
	copy(cpy, points)
	return &Curve{points: cpy}, nil
}

// PointAt returns the interpolated position at t. t wraps modulo 1.
func (c *Curve) PointAt(t float64) Point {
	t = WrapParam(t)
	n := len(c.points)
	segment := t * float64(n)
	i := int(segment)
	localT := segment - float64(i)

	p0 := c.points[mod(i-1, n)]
	p1 := c.points[mod(i, n)]
	p2 := c.points[mod(i+1, n)]
	p3 := c.points[mod(i+2, n)]
	return catmullRom(p0, p1, p2, p3, localT)
}

// TangentAt returns the normalized forward direction at t.
func (c *Curve) TangentAt(t float64) Point {
	p1 := c.PointAt(t - tangentDelta)
	p2 := c.PointAt(t + tangentDelta)
	return normalize(Point{X: p2.X - p1.X, Y: p2.Y - p1.Y, Z: p2.Z - p1.Z})
}

// BankingAt returns the banking angle at t in degrees, linearly
// interpolated between the surrounding control points.
func (c *Curve) BankingAt(t float64) float64 {
	t = WrapParam(t)
	n := len(c.points)
	segment := t * float64(n)
	i := int(segment)
	localT := segment - float64(i)

	b1 := c.points[mod(i, n)].Bank
	b2 := c.points[mod(i+1, n)].Bank
	return b1 + (b2-b1)*localT
}

// RightAt returns the local right vector at t: perpendicular to the
// tangent in the ground plane, lifted by the banking angle.
func (c *Curve) RightAt(t float64) Point {
	tan := c.TangentAt(t)
	right := normalizeXZ(Point{X: -tan.Z, Z: tan.X})
	right.Y = math.Sin(c.BankingAt(t) * math.Pi / 180)
	return right
}

// Length estimates the circuit length by sampling.
func (c *Curve) Length() float64 {
	const samples = 1000
	total := 0.0
	prev := c.PointAt(0)
	for i := 1; i <= samples; i++ {
		p := c.PointAt(float64(i) / samples)
		total += dist(prev, p)
		prev = p
	}
	return total
}

// WrapParam normalizes a cyclic parameter into [0,1).
func WrapParam(t float64) float64 {
	t = math.Mod(t, 1)
	if t < 0 {
		t += 1
	}
	return t
}

func mod(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

//nolint:whitespace // editor/linter issue
func catmullRom(
	p0, p1, p2, p3 model.ControlPoint, t float64,
) Point {
	t2 := t * t
	t3 := t2 * t
	interp := func(a0, a1, a2, a3 float64) float64 {
		return 0.5 * ((2 * a1) +
			(-a0+a2)*t +
			(2*a0-5*a1+4*a2-a3)*t2 +
			(-a0+3*a1-3*a2+a3)*t3)
	}
	return Point{
		X: interp(p0.X, p1.X, p2.X, p3.X),
		Y: interp(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: interp(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}

func dist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func normalize(p Point) Point {
	l := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if l == 0 {
		return p
	}
	return Point{X: p.X / l, Y: p.Y / l, Z: p.Z / l}
}

func normalizeXZ(p Point) Point {
	l := math.Sqrt(p.X*p.X + p.Z*p.Z)
	if l == 0 {
		return p
	}
	return Point{X: p.X / l, Y: p.Y, Z: p.Z / l}
}
