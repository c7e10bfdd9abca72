// Package race implements the simulation core: per-car state, the
// pace/avoidance/pit-stop models and the two-pass tick orchestrator.
// One Engine instance drives one race; there is no process-wide state,
// so multiple engines can run side by side.
package race

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/track"
)

// EventSink receives engine events synchronously during a tick. Sinks
// must not block.
type EventSink func(model.Event)

type Engine struct {
	def    *model.RaceDefinition
	trk    *track.Curve
	pit    *track.PitLane
	zones  []track.Zone
	params Params
	rng    *rand.Rand
	sink   EventSink

	cars   []*Car // stable slot order, the iteration order of both passes
	ranked []*Car // current race order

	clock          float64
	finishedCount  int
	leaderFinished bool
	raceComplete   bool
}

type Option func(*Engine)

func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// WithRandSource injects the single random source used for jitter,
// collision noise, pit durations and the strategic pit window. Tests
// pass a seeded source for reproducible outcomes.
func WithRandSource(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithEventSink(sink EventSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// NewEngine builds an engine for a validated race definition.
// Malformed configuration is the only error path; once constructed,
// the engine corrects degenerate inputs silently.
func NewEngine(def *model.RaceDefinition, opts ...Option) (*Engine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	trk, err := track.NewCurve(def.Points)
	if err != nil {
		return nil, err
	}
	pit, err := track.NewPitLane(def.PitLane)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		def:    def,
		trk:    trk,
		pit:    pit,
		zones:  track.NewZones(def.DRSZones),
		params: DefaultParams(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sink:   func(model.Event) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Restart()
	return e, nil
}

// Restart replaces all car records and race counters in one step; no
// reader of the engine (readers only run between ticks) can observe a
// half-reset state.
func (e *Engine) Restart() {
	cars := make([]*Car, 0, len(e.def.Teams))
	for i, team := range e.def.Teams {
		cars = append(cars, newCar(i, team, e.def.StaggerFor(i)))
	}
	e.cars = cars
	e.clock = 0
	e.finishedCount = 0
	e.leaderFinished = false
	e.raceComplete = false
	e.updatePositions()
}

func (e *Engine) Track() *track.Curve     { return e.trk }
func (e *Engine) PitLane() *track.PitLane { return e.pit }
func (e *Engine) RaceClock() float64      { return e.clock }
func (e *Engine) Complete() bool          { return e.raceComplete }

// Tick advances the whole simulation by dt seconds of (already scaled)
// race time. Non-positive or non-finite dt makes the tick a no-op for
// all time integration so bad frame deltas can never corrupt state.
func (e *Engine) Tick(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	e.clock += dt

	// pass 1: proximity flags and DRS membership for every car,
	// complete before any car moves
	events := e.proximityPass()

	// pass 2: per-car update in stable slot order
	for _, c := range e.cars {
		events = append(events, e.updateCar(c, dt)...)
	}

	e.updatePositions()

	for _, ev := range events {
		e.sink(ev)
	}
}

func (e *Engine) updateCar(c *Car, dt float64) []model.Event {
	if c.Finished {
		e.updateTelemetry(c, dt)
		return nil
	}

	mult := computeSpeedMultiplier(&e.params, c, e.rng)
	events := e.updatePitState(c, dt)

	if c.PitState.inLane() {
		// lane motion already happened in the state machine; the
		// circuit plays no part in this car's pose this tick. Lane
		// time still counts toward the running lap.
		c.LapClock += dt
		pos := e.pit.PointAt(c.PitLaneParam)
		tan := e.pit.TangentAt(c.PitLaneParam)
		c.Position = pos
		c.Yaw = math.Atan2(-tan.X, -tan.Z)
		c.Roll = 0
		e.updateTelemetry(c, dt)
		return events
	}

	prev := c.TrackParam
	c.TrackParam = track.WrapParam(prev + e.params.BaseSpeed*mult*dt)
	c.LapClock += dt
	if c.TrackParam < prev { // crossed the start/finish seam
		events = append(events, e.completeLap(c)...)
	}

	e.updateLateral(c, dt)
	e.placeOnTrack(c)
	e.updateTelemetry(c, dt)
	return events
}

func (e *Engine) completeLap(c *Car) []model.Event {
	if c.LapClock > 0 {
		c.LastLap = c.LapClock
		if c.BestLap == 0 || c.LapClock < c.BestLap {
			c.BestLap = c.LapClock
		}
	}
	c.LapClock = 0

	// consumption per lap; damage accelerates tire wear
	wearFactor := 1 + c.Damage*0.01
	c.TireWear = clamp100(c.TireWear - e.params.TireWearPerLap*wearFactor)
	c.FuelLoad = clamp100(c.FuelLoad - e.params.FuelPerLap)

	c.LapsCompleted++
	if c.LapsCompleted < e.def.TotalLaps {
		return nil
	}

	c.Finished = true
	e.finishedCount++
	c.FinishOrder = e.finishedCount
	c.finishTime = e.clock

	var events []model.Event
	if !e.leaderFinished {
		e.leaderFinished = true
		events = append(events, model.RaceEvent{
			Kind:   model.RaceEventLeaderFinished,
			Driver: c.Team.Driver,
		})
	}
	if e.finishedCount == len(e.cars) && !e.raceComplete {
		e.raceComplete = true
		events = append(events, model.RaceEvent{
			Kind:    model.RaceEventComplete,
			Results: e.Results(),
		})
	}
	return events
}

func (e *Engine) placeOnTrack(c *Car) {
	pos := e.trk.PointAt(c.TrackParam)
	right := e.trk.RightAt(c.TrackParam)
	half := e.def.TrackWidth / 2
	c.Position = track.Point{
		X: pos.X + right.X*c.LateralOffset*half,
		Y: pos.Y + right.Y*c.LateralOffset*half,
		Z: pos.Z + right.Z*c.LateralOffset*half,
	}
	tan := e.trk.TangentAt(c.TrackParam)
	c.Yaw = math.Atan2(-tan.X, -tan.Z)
	c.Roll = e.trk.BankingAt(c.TrackParam) * math.Pi / 180
}

// updatePositions recomputes the global race order: finished cars
// first (by finish order), everyone else by race progress. Overtakes
// fall out of the position delta.
func (e *Engine) updatePositions() {
	ranked := make([]*Car, len(e.cars))
	copy(ranked, e.cars)
	slices.SortStableFunc(ranked, func(a, b *Car) int {
		switch {
		case a.Finished && b.Finished:
			return a.FinishOrder - b.FinishOrder
		case a.Finished:
			return -1
		case b.Finished:
			return 1
		}
		pa := float64(a.LapsCompleted) + a.TrackParam
		pb := float64(b.LapsCompleted) + b.TrackParam
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		default:
			return 0
		}
	})

	for i, c := range ranked {
		c.PrevRacePosition = c.RacePosition
		c.RacePosition = i + 1
		c.overtook = c.PrevRacePosition > 0 && c.RacePosition < c.PrevRacePosition
	}

	// gap estimation: track-param distance scaled by a rough lap time
	const lapSeconds = 90.0
	leader := ranked[0]
	leader.GapToLeader = 0
	leader.GapToAhead = 0
	for i := 1; i < len(ranked); i++ {
		c := ranked[i]
		ahead := ranked[i-1]
		if c.LapsCompleted == ahead.LapsCompleted {
			gap := ahead.TrackParam - c.TrackParam
			if gap < 0 {
				gap += 1
			}
			c.GapToAhead = gap * lapSeconds
		} else {
			c.GapToAhead = float64(ahead.LapsCompleted-c.LapsCompleted) * lapSeconds
		}
		c.GapToLeader = ahead.GapToLeader + c.GapToAhead
	}
	e.ranked = ranked
}

// Results returns the classification of finished cars, finish order
// first.
func (e *Engine) Results() []model.Result {
	finished := lo.Filter(e.cars, func(c *Car, _ int) bool { return c.Finished })
	slices.SortFunc(finished, func(a, b *Car) int { return a.FinishOrder - b.FinishOrder })
	return lo.Map(finished, func(c *Car, _ int) model.Result {
		return model.Result{
			Team:           c.Team.Name,
			Driver:         c.Team.Driver,
			FinishPosition: c.FinishOrder,
			ElapsedTime:    c.finishTime,
		}
	})
}

// Snapshot builds the read-only view published to presentation layers,
// cars ordered by current race position.
func (e *Engine) Snapshot(paused bool) *model.RaceSnapshot {
	leader := e.ranked[0]
	currentLap := leader.LapsCompleted + 1
	if currentLap > e.def.TotalLaps {
		currentLap = e.def.TotalLaps
	}
	return &model.RaceSnapshot{
		Name:         e.def.Name,
		RaceClock:    e.clock,
		CurrentLap:   currentLap,
		TotalLaps:    e.def.TotalLaps,
		Leader:       leader.Team.Driver,
		Paused:       paused,
		RaceComplete: e.raceComplete,
		Cars: lo.Map(e.ranked, func(c *Car, _ int) model.CarSnapshot {
			return c.snapshot()
		}),
	}
}
