package model

// Team describes one entry in the race. Pace and Consistency feed the
// pace model: Pace is the base speed multiplier of the team, Consistency
// (0..1) damps the per-tick jitter (1.0 = perfectly consistent).
type Team struct {
	Name        string  `json:"name"        yaml:"name"`
	Driver      string  `json:"driver"      yaml:"driver"`
	Number      int     `json:"number"      yaml:"number"`
	Color       [3]int  `json:"color"       yaml:"color"`
	Pace        float64 `json:"pace"        yaml:"pace"`
	Consistency float64 `json:"consistency" yaml:"consistency"`
}

// TelemetrySnapshot is the derived per-car telemetry exposed to
// presentation layers. Values are recomputed every tick.
type TelemetrySnapshot struct {
	Speed     float64    `json:"speed"` // km/h
	RPM       int        `json:"rpm"`
	Gear      int        `json:"gear"`
	Throttle  float64    `json:"throttle"` // 0..1
	Brake     float64    `json:"brake"`    // 0..1
	GForceLat float64    `json:"gForceLat"`
	GForceLon float64    `json:"gForceLon"`
	TireTemps [4]float64 `json:"tireTemps"` // FL, FR, RL, RR (°C)
}

// Vec3 is a world-space position/direction.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// CarSnapshot is the read-only per-car view published once per tick.
type CarSnapshot struct {
	SlotIdx        int               `json:"slotIdx"`
	Team           Team              `json:"team"`
	TrackParam     float64           `json:"trackParam"`
	LateralOffset  float64           `json:"lateralOffset"`
	Position       Vec3              `json:"position"`
	Yaw            float64           `json:"yaw"`  // radians
	Roll           float64           `json:"roll"` // banking roll, radians
	Lap            int               `json:"lap"`
	LapClock       float64           `json:"lapClock"`
	BestLapTime    *float64          `json:"bestLapTime,omitempty"`
	TireWear       float64           `json:"tireWear"`
	FuelLoad       float64           `json:"fuelLoad"`
	Damage         float64           `json:"damage"`
	TireCompound   string            `json:"tireCompound"`
	PitState       string            `json:"pitState"`
	ServiceTime    float64           `json:"serviceTimeRemaining"`
	PitStops       int               `json:"pitStops"`
	SpeedBoost     string            `json:"speedBoost"`
	Avoiding       bool              `json:"avoiding"`
	RacePosition   int               `json:"racePosition"`
	GapToLeader    float64           `json:"gapToLeader"` // seconds, estimated
	GapToAhead     float64           `json:"gapToAhead"`
	Finished       bool              `json:"finished"`
	FinishOrder    int               `json:"finishOrder,omitempty"`
	Telemetry      TelemetrySnapshot `json:"telemetry"`
	OvertakeSignal bool              `json:"overtake"` // position gained this tick
}

// RaceSnapshot is the full read-only state published once per tick.
type RaceSnapshot struct {
	Name         string        `json:"name"`
	RaceClock    float64       `json:"raceClock"` // seconds, scaled time
	CurrentLap   int           `json:"currentLap"`
	TotalLaps    int           `json:"totalLaps"`
	Leader       string        `json:"leader"`
	Paused       bool          `json:"paused"`
	RaceComplete bool          `json:"raceComplete"`
	Cars         []CarSnapshot `json:"cars"` // ordered by race position
}

// Result is one line of the final classification.
type Result struct {
	Team           string  `json:"team"`
	Driver         string  `json:"driver"`
	FinishPosition int     `json:"finishPosition"`
	ElapsedTime    float64 `json:"elapsedTime"` // seconds of race clock
}
