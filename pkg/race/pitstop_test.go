package race

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobstone/racesim/pkg/model"
)

func TestWornTiresQueueImmediately(t *testing.T) {
	e := newTestEngine(t, 50, quietParams(), nil)
	e.params.TireWearThreshold = 30
	c := e.cars[0]
	c.TireWear = 25

	events := e.updatePitState(c, 1.0/60)

	assert.Equal(t, PitQueued, c.PitState)
	require.Len(t, events, 1)
	pe := events[0].(model.PitEvent)
	assert.Equal(t, model.PitPhaseQueued, pe.Phase)
	assert.Equal(t, c.Team.Driver, pe.Driver)
}

func TestHeavyDamageQueues(t *testing.T) {
	e := newTestEngine(t, 50, quietParams(), nil)
	e.params.DamageThreshold = 50
	c := e.cars[0]
	c.Damage = 60

	e.updatePitState(c, 1.0/60)

	assert.Equal(t, PitQueued, c.PitState)
}

func TestStrategicWindow(t *testing.T) {
	p := quietParams()
	p.PitWindowChance = 1.0 // deterministic inside the window

	t.Run("queues inside the window", func(t *testing.T) {
		e := newTestEngine(t, 50, p, nil)
		c := e.cars[0]
		c.LapsCompleted = 25
		e.updatePitState(c, 1.0/60)
		assert.Equal(t, PitQueued, c.PitState)
	})

	t.Run("skips cars that already pitted", func(t *testing.T) {
		e := newTestEngine(t, 50, p, nil)
		c := e.cars[0]
		c.LapsCompleted = 25
		c.HasPitted = true
		e.updatePitState(c, 1.0/60)
		assert.Equal(t, PitNone, c.PitState)
	})

	t.Run("inactive outside the window", func(t *testing.T) {
		e := newTestEngine(t, 50, p, nil)
		c := e.cars[0]
		c.LapsCompleted = 35
		e.updatePitState(c, 1.0/60)
		assert.Equal(t, PitNone, c.PitState)
	})
}

func TestQueuedCarWaitsForEntryWindow(t *testing.T) {
	e := newTestEngine(t, 50, quietParams(), nil)
	c := e.cars[0]
	c.PitState = PitQueued

	c.TrackParam = 0.5 // far from the entry
	e.updatePitState(c, 1.0/60)
	assert.Equal(t, PitQueued, c.PitState)

	c.TrackParam = e.pit.Entry + 0.005 // just past it
	e.updatePitState(c, 1.0/60)
	assert.Equal(t, PitTransit, c.PitState)
	assert.Zero(t, c.PitLaneParam)
}

// TestPitStopRoundTrip runs a single car through the complete stop:
// queue, lane transit, service, exit, rejoin at exactly the pit exit.
func TestPitStopRoundTrip(t *testing.T) {
	def := model.DefaultDefinition()
	def.TotalLaps = 50
	def.Teams = def.Teams[:1]

	p := quietParams()
	p.BaseSpeed = 0.05
	p.TireWearThreshold = 150 // the car always wants to pit

	var phases []string
	e, err := NewEngine(def,
		WithParams(p),
		WithRandSource(rand.New(rand.NewSource(7))),
		WithEventSink(func(ev model.Event) {
			if pe, ok := ev.(model.PitEvent); ok {
				phases = append(phases, pe.Phase)
			}
		}),
	)
	require.NoError(t, err)
	c := e.cars[0]
	c.FuelLoad = 40 // verify refuel on service

	rejoined := func() bool {
		for _, ph := range phases {
			if ph == model.PitPhaseRejoining {
				return true
			}
		}
		return false
	}
	for tick := 0; tick < 5000 && !rejoined(); tick++ {
		e.Tick(0.05)
	}
	require.True(t, rejoined(), "car never completed the stop")

	assert.Equal(t, []string{
		model.PitPhaseQueued,
		model.PitPhaseEntering,
		model.PitPhaseStationary,
		model.PitPhaseComplete,
		model.PitPhaseRejoining,
	}, phases, "one service per transit, phases in order")

	assert.InDelta(t, e.pit.Exit, c.TrackParam, 0.01)
	// one lap on track (the grid sits past the seam), one credited on
	// rejoin; fresh rubber and a full tank minus that lap's consumption
	assert.Equal(t, 2, c.LapsCompleted)
	assert.InDelta(t, 98.0, c.TireWear, 1e-9)
	assert.InDelta(t, 98.0, c.FuelLoad, 1e-9)
	assert.Equal(t, 1, c.PitStops)
	assert.True(t, c.HasPitted)
	assert.Equal(t, CompoundSoft, c.TireCompound)
}

func TestServiceRepairsBoundedDamage(t *testing.T) {
	e := newTestEngine(t, 50, quietParams(), nil)
	c := e.cars[0]
	c.PitState = PitServicing
	c.ServiceTime = 0.01
	c.Damage = 15 // less than the repair amount

	e.updatePitState(c, 0.05)

	assert.Equal(t, PitExiting, c.PitState)
	assert.Zero(t, c.Damage, "repair clamps at zero")
}

func TestExitingCarRejoinsAtPitExit(t *testing.T) {
	e := newTestEngine(t, 50, quietParams(), nil)
	c := e.cars[0]
	c.PitState = PitExiting
	c.PitLaneParam = 0.99

	events := e.updatePitState(c, 1.0)

	assert.Equal(t, PitNone, c.PitState)
	assert.Equal(t, e.pit.Exit, c.TrackParam)
	assert.Equal(t, 1, c.LapsCompleted, "seam-spanning lane credits the lap")
	require.Len(t, events, 1)
	assert.Equal(t, model.PitPhaseRejoining, events[0].(model.PitEvent).Phase)
}

// TestSeamSpanningPitLaneCreditsLap pits one car through the default
// lane (entry 0.92, exit 0.06): the start/finish line is crossed inside
// the lane and the on-track wrap check never fires, so the lap must be
// credited on rejoin and the stop must cost time, not a lap.
func TestSeamSpanningPitLaneCreditsLap(t *testing.T) {
	p := quietParams()
	p.BaseSpeed = 0.05
	p.TireWearThreshold = 30

	var rejoined bool
	e := newTestEngine(t, 50, p, func(ev model.Event) {
		if pe, ok := ev.(model.PitEvent); ok && pe.Phase == model.PitPhaseRejoining {
			rejoined = true
		}
	})
	require.Less(t, e.pit.Exit, e.pit.Entry, "default lane spans the seam")

	pitCar := e.cars[5] // last on the grid, enters the lane before lap one
	pitCar.TireWear = 5

	for tick := 0; tick < 5000 && !rejoined; tick++ {
		e.Tick(0.05)
	}
	require.True(t, rejoined, "car never completed the stop")

	assert.Equal(t, 1, pitCar.LapsCompleted)
	assert.InDelta(t, e.pit.Exit, pitCar.TrackParam, 0.01)
	// lap clock keeps running through transit and service
	assert.Greater(t, pitCar.LastLap, 5.0)

	// the next lap closes through normal track motion
	for tick := 0; tick < 5000 && pitCar.LapsCompleted < 2; tick++ {
		e.Tick(0.05)
	}
	require.Equal(t, 2, pitCar.LapsCompleted)

	ref := e.cars[0]
	progressRef := float64(ref.LapsCompleted) + ref.TrackParam
	progressPit := float64(pitCar.LapsCompleted) + pitCar.TrackParam
	assert.Less(t, progressRef-progressPit, 1.0, "stop lost a whole lap")
}
