package model

// Event is anything the engine emits during a tick. Events are
// fire-and-forget; consumers must not block the tick loop.
type Event interface {
	EventKind() string
}

// collision severity tiers
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityMajor    = "major"
)

type CollisionEvent struct {
	DriverA  string  `json:"driverA"` // trailing/instigating car
	DriverB  string  `json:"driverB"`
	Severity string  `json:"severity"`
	DamageA  float64 `json:"damageA"`
	DamageB  float64 `json:"damageB"`
}

func (CollisionEvent) EventKind() string { return "collision" }

// pit stop lifecycle phases
const (
	PitPhaseQueued     = "queued"
	PitPhaseEntering   = "entering"
	PitPhaseStationary = "stationary"
	PitPhaseComplete   = "complete"
	PitPhaseRejoining  = "rejoining"
)

type PitEvent struct {
	Driver string `json:"driver"`
	Phase  string `json:"phase"`
	Lap    int    `json:"lap"`
}

func (PitEvent) EventKind() string { return "pit" }

// race event kinds
const (
	RaceEventLeaderFinished = "leader-finished"
	RaceEventComplete       = "race-complete"
)

type RaceEvent struct {
	Kind    string   `json:"kind"`
	Driver  string   `json:"driver,omitempty"`  // leader-finished
	Results []Result `json:"results,omitempty"` // race-complete
}

func (RaceEvent) EventKind() string { return "race" }
