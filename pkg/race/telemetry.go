package race

import (
	"math"
)

// curvature samples the tangent a small distance apart and returns the
// angle between the samples in radians. Differences are taken on
// normalized directions, so the value is well defined across the seam.
func (e *Engine) curvature(t float64) float64 {
	const sample = 0.01
	a := e.trk.TangentAt(t)
	b := e.trk.TangentAt(t + sample)
	dot := clamp(a.X*b.X+a.Y*b.Y+a.Z*b.Z, -1, 1)
	return math.Acos(dot)
}

// updateTelemetry derives the displayed telemetry for one car. Nothing
// here feeds back into motion; it is recomputed every tick and read by
// presentation layers only.
//
//nolint:funlen // linear derivation chain
func (e *Engine) updateTelemetry(c *Car, dt float64) {
	p := &e.params

	// target speed from curvature, overridden inside the pit lane
	var target float64
	switch {
	case c.PitState == PitServicing:
		target = 0
	case c.PitState.inLane():
		target = p.PitSpeed
	case c.Finished:
		target = 0
	default:
		bend := clamp(e.curvature(c.TrackParam)/p.CurvatureFull, 0, 1)
		target = p.MaxSpeed - (p.MaxSpeed-p.MinSpeed)*bend
		if c.Boost != BoostNone {
			target = math.Min(target+20, p.MaxSpeed)
		}
	}

	// exponential approach, never an instant jump
	blend := 1 - math.Exp(-p.SpeedSmooth*dt)
	delta := target - c.Speed
	c.Speed += delta * blend

	tel := &c.Telemetry
	tel.Speed = c.Speed
	if delta >= 0 {
		tel.Throttle = clamp(delta/50, 0, 1)
		tel.Brake = 0
	} else {
		tel.Throttle = 0
		tel.Brake = clamp(-delta/100, 0, 1)
	}

	tel.Gear = int(c.Speed / 40)
	if tel.Gear < 1 {
		tel.Gear = 1
	}
	if tel.Gear > 8 {
		tel.Gear = 8
	}

	// rpm rises through each gear's speed band
	gearBase := float64(tel.Gear-1) * 40
	frac := clamp((c.Speed-gearBase)/40, 0, 1)
	tel.RPM = int(7000 + frac*5500)
	if tel.RPM > p.MaxRPM {
		tel.RPM = p.MaxRPM
	}

	curv := 0.0
	if !c.PitState.inLane() && !c.Finished {
		curv = e.curvature(c.TrackParam)
	}
	tel.GForceLat = curv * c.Speed * 0.05
	tel.GForceLon = (tel.Throttle - tel.Brake) * 2

	// tire temps drift toward a cornering-dependent baseline; the
	// loaded side runs hotter
	lat := tel.GForceLat
	baseline := 85 + math.Abs(lat)*12
	side := math.Copysign(3, lat)
	targets := [4]float64{
		baseline + side, baseline - side, // fronts
		baseline + side*0.7, baseline - side*0.7, // rears
	}
	tempBlend := 1 - math.Exp(-0.8*dt)
	for i := range tel.TireTemps {
		jitter := (e.rng.Float64()*2 - 1) * 0.5 * dt
		tel.TireTemps[i] += (targets[i]-tel.TireTemps[i])*tempBlend + jitter
	}
}
