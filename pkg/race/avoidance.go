package race

import (
	"math"

	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/track"
)

// signedGap returns the cyclic distance from a to b in trackParam
// space, normalized into (-0.5, 0.5]. Positive means b is ahead of a;
// gaps wrap through the start/finish seam instead of just subtracting.
func signedGap(a, b float64) float64 {
	d := track.WrapParam(b - a)
	if d > 0.5 {
		d -= 1
	}
	return d
}

// proximityPass is pass 1 of the tick: it recomputes DRS-zone
// membership and runs the pairwise proximity scan over all active
// cars, setting the slipstream/avoidance flags that pass 2 reads.
// Cars inside the pit lane are off the circuit and excluded.
func (e *Engine) proximityPass() []model.Event {
	var events []model.Event

	for _, c := range e.cars {
		c.Slipstream = false
		c.Avoiding = false
		c.overtook = false
		c.InDRSZone = !c.Finished && !c.PitState.inLane() &&
			track.InAnyZone(e.zones, c.TrackParam)
	}

	for i := 0; i < len(e.cars); i++ {
		a := e.cars[i]
		if a.Finished || a.PitState.inLane() {
			continue
		}
		for j := i + 1; j < len(e.cars); j++ {
			b := e.cars[j]
			if b.Finished || b.PitState.inLane() {
				continue
			}
			events = append(events, e.classifyPair(a, b)...)
		}
	}

	// decay avoidance targets of everyone not actively dodging;
	// the actual offset is smoothed toward its target in pass 2
	return events
}

//nolint:cyclop // threshold cascade is clearer in one place
func (e *Engine) classifyPair(a, b *Car) []model.Event {
	p := &e.params
	gap := signedGap(a.TrackParam, b.TrackParam)
	absGap := math.Abs(gap)
	latSep := math.Abs(a.LateralOffset - b.LateralOffset)

	// slipstream goes to the trailing car only
	if gap > 0 && gap < p.SlipstreamGap {
		a.Slipstream = true
	} else if gap < 0 && -gap < p.SlipstreamGap {
		b.Slipstream = true
	}

	if absGap < p.AvoidanceGap && latSep < p.AvoidanceLateral {
		a.Avoiding = true
		b.Avoiding = true
		// the car already further left dodges further left; ties
		// resolve on the offset comparison, not slot order
		if a.LateralOffset <= b.LateralOffset {
			a.TargetLateralOffset = -p.AvoidanceTarget
			b.TargetLateralOffset = p.AvoidanceTarget
		} else {
			a.TargetLateralOffset = p.AvoidanceTarget
			b.TargetLateralOffset = -p.AvoidanceTarget
		}
	}

	if absGap < p.CollisionGap && latSep < p.CollisionLateral {
		if ev, ok := e.collide(a, b, gap, latSep); ok {
			return []model.Event{ev}
		}
	}
	return nil
}

// collide applies contact damage to both cars. Events are rate-limited
// per car so one sustained overlap cannot fire twice within the
// configured interval. The interval is measured on the race clock, not
// wall time, so a fast-forwarded session compresses it accordingly.
//
//nolint:whitespace // editor/linter issue
func (e *Engine) collide(a, b *Car, gap, latSep float64) (
	model.CollisionEvent, bool,
) {
	p := &e.params
	if a.lastCollision >= 0 && e.clock-a.lastCollision < p.CollisionInterval {
		return model.CollisionEvent{}, false
	}
	if b.lastCollision >= 0 && e.clock-b.lastCollision < p.CollisionInterval {
		return model.CollisionEvent{}, false
	}
	a.lastCollision = e.clock
	b.lastCollision = e.clock

	// harder contact the deeper the pair sits inside the lateral
	// threshold, plus bounded noise
	base := p.CollisionDamage*(1-latSep/p.CollisionLateral) +
		e.rng.Float64()*p.CollisionJitter

	// the trailing car caused it and takes the bigger hit
	trailing, ahead := a, b
	if gap < 0 {
		trailing, ahead = b, a
	}
	dmgTrailing := base * p.InstigatorFactor
	dmgAhead := base
	trailing.Damage = clamp100(trailing.Damage + dmgTrailing)
	ahead.Damage = clamp100(ahead.Damage + dmgAhead)

	severity := model.SeverityMinor
	switch {
	case base >= p.SeverityMajorAt:
		severity = model.SeverityMajor
	case base >= p.SeverityModerateAt:
		severity = model.SeverityModerate
	}
	return model.CollisionEvent{
		DriverA:  trailing.Team.Driver,
		DriverB:  ahead.Team.Driver,
		Severity: severity,
		DamageA:  dmgTrailing,
		DamageB:  dmgAhead,
	}, true
}

// updateLateral moves the lateral offset toward its target by
// exponential smoothing (never jumps) and decays the target back to
// the racing line while the car is not dodging anyone.
func (e *Engine) updateLateral(c *Car, dt float64) {
	p := &e.params
	if !c.Avoiding {
		c.TargetLateralOffset *= math.Exp(-p.LateralDecay * dt)
	}
	c.TargetLateralOffset = clamp(c.TargetLateralOffset, -1, 1)
	blend := 1 - math.Exp(-p.LateralSmooth*dt)
	c.LateralOffset += (c.TargetLateralOffset - c.LateralOffset) * blend
	c.LateralOffset = clamp(c.LateralOffset, -1, 1)
}
