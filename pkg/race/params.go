package race

// Params holds the tunable constants of the simulation. The DRS and
// slipstream bonuses are configuration, not invariants; the defaults
// below are what the default session runs with.
type Params struct {
	// motion
	BaseSpeed       float64 // trackParam per second at multiplier 1.0
	LateralSmooth   float64 // 1/s, exponential approach of lateralOffset
	LateralDecay    float64 // 1/s, decay of targetLateralOffset to racing line
	PitLaneSpeed    float64 // pitLaneParam per second
	AvoidanceTarget float64 // magnitude of the lateral dodge target

	// pace composition
	JitterAmplitude    float64 // max per-tick jitter for a fully inconsistent team
	AvoidancePenalty   float64 // multiplier while dodging
	BoostDRS           float64 // additive bonus per tier
	BoostSlipstream    float64
	BoostDRSSlipstream float64

	// proximity thresholds (trackParam space unless stated)
	SlipstreamGap    float64
	AvoidanceGap     float64
	AvoidanceLateral float64 // lateral separation, offset units
	CollisionGap     float64
	CollisionLateral float64

	// collision damage
	CollisionInterval  float64 // s, per-car rate limit between events
	CollisionDamage    float64 // damage at zero lateral separation
	CollisionJitter    float64 // bounded random extra
	InstigatorFactor   float64 // trailing car damage multiplier
	SeverityModerateAt float64 // total damage tiers
	SeverityMajorAt    float64

	// pit strategy
	TireWearThreshold float64 // queue when tireWear drops below
	DamageThreshold   float64 // queue when damage exceeds
	PitWindowStartLap int     // strategic window (inclusive)
	PitWindowEndLap   int
	PitWindowChance   float64 // per-tick probability inside the window
	PitEntryWindow    float64 // ε past entryParam
	SlotTolerance     float64 // pitLaneParam window around the stop box
	ServiceTimeMin    float64 // s
	ServiceTimeMax    float64
	DamageRepair      float64 // damage removed per service

	// consumption per lap
	TireWearPerLap float64
	FuelPerLap     float64

	// telemetry
	MaxSpeed      float64 // km/h
	MinSpeed      float64
	PitSpeed      float64 // km/h target in the lane
	SpeedSmooth   float64 // 1/s
	CurvatureFull float64 // radians at which target speed reaches MinSpeed
	MaxRPM        int
}

func DefaultParams() Params {
	return Params{
		BaseSpeed:       0.011,
		LateralSmooth:   4.0,
		LateralDecay:    1.5,
		PitLaneSpeed:    0.12,
		AvoidanceTarget: 0.55,

		JitterAmplitude:    0.01,
		AvoidancePenalty:   0.98,
		BoostDRS:           0.02,
		BoostSlipstream:    0.03,
		BoostDRSSlipstream: 0.045,

		SlipstreamGap:    0.015,
		AvoidanceGap:     0.008,
		AvoidanceLateral: 0.6,
		CollisionGap:     0.003,
		CollisionLateral: 0.3,

		CollisionInterval:  1.0,
		CollisionDamage:    5.0,
		CollisionJitter:    2.0,
		InstigatorFactor:   1.5,
		SeverityModerateAt: 4.0,
		SeverityMajorAt:    8.0,

		TireWearThreshold: 30,
		DamageThreshold:   50,
		PitWindowStartLap: 20,
		PitWindowEndLap:   30,
		PitWindowChance:   0.002,
		PitEntryWindow:    0.01,
		SlotTolerance:     0.01,
		ServiceTimeMin:    2.0,
		ServiceTimeMax:    3.5,
		DamageRepair:      20,

		TireWearPerLap: 2.0,
		FuelPerLap:     2.0,

		MaxSpeed:      350,
		MinSpeed:      80,
		PitSpeed:      60,
		SpeedSmooth:   2.5,
		CurvatureFull: 0.35,
		MaxRPM:        13000,
	}
}
