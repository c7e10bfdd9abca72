package race

import (
	"github.com/pobstone/racesim/pkg/model"
)

// updatePitState advances the car's pit state machine for one tick.
// Returned events describe lifecycle transitions. While the car is in
// the lane (TRANSIT/SERVICING/EXITING) its motion along the pit-lane
// curve happens here and the caller skips track motion entirely.
func (e *Engine) updatePitState(c *Car, dt float64) []model.Event {
	switch c.PitState {
	case PitNone:
		return e.handlePitNone(c)
	case PitQueued:
		return e.handlePitQueued(c)
	case PitTransit:
		return e.handlePitTransit(c, dt)
	case PitServicing:
		return e.handlePitServicing(c, dt)
	case PitExiting:
		return e.handlePitExiting(c, dt)
	}
	return nil
}

// handlePitNone checks the automatic triggers: worn tires, heavy
// damage, or a strategic stop inside the pit window for cars that have
// not pitted yet this race.
func (e *Engine) handlePitNone(c *Car) []model.Event {
	p := &e.params
	need := c.TireWear < p.TireWearThreshold || c.Damage > p.DamageThreshold
	if !need && !c.HasPitted &&
		c.LapsCompleted >= p.PitWindowStartLap &&
		c.LapsCompleted <= p.PitWindowEndLap {
		need = e.rng.Float64() < p.PitWindowChance
	}
	if !need {
		return nil
	}
	c.PitState = PitQueued
	return []model.Event{model.PitEvent{
		Driver: c.Team.Driver, Phase: model.PitPhaseQueued, Lap: c.LapsCompleted,
	}}
}

// handlePitQueued waits for the car (still on normal track motion) to
// reach the pit-entry window, then hands it over to the lane.
func (e *Engine) handlePitQueued(c *Car) []model.Event {
	entry := e.pit.Entry
	gap := signedGap(entry, c.TrackParam)
	if gap < 0 || gap >= e.params.PitEntryWindow {
		return nil
	}
	c.PitState = PitTransit
	c.PitLaneParam = 0
	c.servicedHere = false
	return []model.Event{model.PitEvent{
		Driver: c.Team.Driver, Phase: model.PitPhaseEntering, Lap: c.LapsCompleted,
	}}
}

func (e *Engine) handlePitTransit(c *Car, dt float64) []model.Event {
	p := &e.params
	c.PitLaneParam += p.PitLaneSpeed * dt
	stop := e.pit.StopParam(c.SlotIdx)
	if !c.servicedHere && c.PitLaneParam >= stop-p.SlotTolerance {
		c.PitLaneParam = stop
		c.PitState = PitServicing
		c.ServiceTime = p.ServiceTimeMin +
			e.rng.Float64()*(p.ServiceTimeMax-p.ServiceTimeMin)
		return []model.Event{model.PitEvent{
			Driver: c.Team.Driver, Phase: model.PitPhaseStationary, Lap: c.LapsCompleted,
		}}
	}
	return nil
}

func (e *Engine) handlePitServicing(c *Car, dt float64) []model.Event {
	c.ServiceTime -= dt
	if c.ServiceTime > 0 {
		return nil
	}
	p := &e.params
	c.ServiceTime = 0
	c.TireWear = 100
	c.FuelLoad = 100
	c.Damage = clamp100(c.Damage - p.DamageRepair)
	if c.TireCompound == CompoundMedium {
		c.TireCompound = CompoundSoft
	} else {
		c.TireCompound = CompoundMedium
	}
	c.PitStops++
	c.HasPitted = true
	c.servicedHere = true
	c.PitState = PitExiting
	return []model.Event{model.PitEvent{
		Driver: c.Team.Driver, Phase: model.PitPhaseComplete, Lap: c.LapsCompleted,
	}}
}

// handlePitExiting drives the rest of the lane; at its end the car
// rejoins the circuit at exactly exitParam.
func (e *Engine) handlePitExiting(c *Car, dt float64) []model.Event {
	c.PitLaneParam += e.params.PitLaneSpeed * dt
	if c.PitLaneParam < 1 {
		return nil
	}
	c.PitLaneParam = 1
	c.PitState = PitNone
	c.TrackParam = e.pit.Exit
	c.servicedHere = false
	events := []model.Event{model.PitEvent{
		Driver: c.Team.Driver, Phase: model.PitPhaseRejoining, Lap: c.LapsCompleted,
	}}
	// a lane spanning the start/finish seam carries the car across the
	// line inside the lane, where the on-track wrap check cannot see it
	if e.pit.Exit < e.pit.Entry {
		events = append(events, e.completeLap(c)...)
	}
	return events
}
