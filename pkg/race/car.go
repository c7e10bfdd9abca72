package race

import (
	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/track"
)

// PitState is a car's position within the pit-lane state machine.
// Exactly one state holds at any time; pit-lane motion (Transit,
// Servicing, Exiting) and track motion are mutually exclusive per tick.
type PitState int

const (
	PitNone PitState = iota
	PitQueued
	PitTransit
	PitServicing
	PitExiting
)

func (s PitState) String() string {
	switch s {
	case PitQueued:
		return "QUEUED"
	case PitTransit:
		return "TRANSIT"
	case PitServicing:
		return "SERVICING"
	case PitExiting:
		return "EXITING"
	default:
		return "NONE"
	}
}

// inLane reports whether the car's pose is driven by the pit-lane
// curve instead of the circuit.
func (s PitState) inLane() bool {
	return s == PitTransit || s == PitServicing || s == PitExiting
}

// tire compounds, alternated on every stop
const (
	CompoundMedium = "medium"
	CompoundSoft   = "soft"
)

// Car is the full mutable state of one vehicle. Cars are owned
// exclusively by the Engine and mutated only during a tick.
type Car struct {
	SlotIdx int
	Team    model.Team

	// position on the circuit
	TrackParam          float64 // [0,1), wraps
	LateralOffset       float64 // [-1,1], smoothed toward target
	TargetLateralOffset float64

	// lap bookkeeping
	LapsCompleted int
	LapClock      float64 // seconds since lap start (scaled time)
	BestLap       float64 // 0 = no lap completed yet
	LastLap       float64

	// consumables, all clamped to [0,100]
	TireWear float64 // 100 = fresh
	FuelLoad float64 // 100 = full tank
	Damage   float64 // 0 = pristine

	// pit state machine
	PitState     PitState
	PitLaneParam float64 // [0,1], valid while in lane
	ServiceTime  float64 // remaining stationary seconds
	PitStops     int
	TireCompound string
	HasPitted    bool // strategic stop done this race
	servicedHere bool // guards against double service in one transit

	// finish bookkeeping
	Finished    bool
	FinishOrder int     // assigned once, 0 = not finished
	finishTime  float64 // race clock at the finish line

	// rankings
	RacePosition     int
	PrevRacePosition int
	GapToLeader      float64
	GapToAhead       float64

	// pass-1 flags, recomputed every tick
	InDRSZone  bool
	Slipstream bool
	Avoiding   bool
	Boost      BoostTier

	lastCollision float64 // race clock of last collision event, -1 = never

	// derived presentation state
	Speed     float64 // km/h, smoothed
	Telemetry model.TelemetrySnapshot
	Position  track.Point
	Yaw       float64
	Roll      float64
	overtook  bool
}

// BoostTier is the mutually exclusive DRS/slipstream bonus tier.
// Higher tiers win; bonuses are never summed.
type BoostTier int

const (
	BoostNone BoostTier = iota
	BoostDRS
	BoostSlipstream
	BoostDRSSlipstream
)

func (b BoostTier) String() string {
	switch b {
	case BoostDRS:
		return "drs"
	case BoostSlipstream:
		return "slipstream"
	case BoostDRSSlipstream:
		return "drs+slipstream"
	default:
		return "none"
	}
}

func newCar(slot int, team model.Team, startParam float64) *Car {
	c := &Car{
		SlotIdx:       slot,
		Team:          team,
		TrackParam:    startParam,
		TireWear:      100,
		FuelLoad:      100,
		TireCompound:  CompoundMedium,
		lastCollision: -1,
	}
	for i := range c.Telemetry.TireTemps {
		c.Telemetry.TireTemps[i] = 80
	}
	return c
}

// clamp100 keeps consumable stats inside [0,100]; applied at every
// mutation site.
func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c *Car) snapshot() model.CarSnapshot {
	var best *float64
	if c.BestLap > 0 {
		b := c.BestLap
		best = &b
	}
	return model.CarSnapshot{
		SlotIdx:        c.SlotIdx,
		Team:           c.Team,
		TrackParam:     c.TrackParam,
		LateralOffset:  c.LateralOffset,
		Position:       c.Position.Vec3(),
		Yaw:            c.Yaw,
		Roll:           c.Roll,
		Lap:            c.LapsCompleted,
		LapClock:       c.LapClock,
		BestLapTime:    best,
		TireWear:       c.TireWear,
		FuelLoad:       c.FuelLoad,
		Damage:         c.Damage,
		TireCompound:   c.TireCompound,
		PitState:       c.PitState.String(),
		ServiceTime:    c.ServiceTime,
		PitStops:       c.PitStops,
		SpeedBoost:     c.Boost.String(),
		Avoiding:       c.Avoiding,
		RacePosition:   c.RacePosition,
		GapToLeader:    c.GapToLeader,
		GapToAhead:     c.GapToAhead,
		Finished:       c.Finished,
		FinishOrder:    c.FinishOrder,
		Telemetry:      c.Telemetry,
		OvertakeSignal: c.overtook,
	}
}
