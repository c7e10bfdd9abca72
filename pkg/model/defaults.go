package model

// DefaultTeams is the default six-car grid.
func DefaultTeams() []Team {
	return []Team{
		{Name: "Ferrari", Driver: "Karina", Number: 16, Color: [3]int{220, 0, 0}, Pace: 1.000, Consistency: 0.90},
		{Name: "Red Bull", Driver: "Lewis", Number: 1, Color: [3]int{30, 65, 255}, Pace: 1.005, Consistency: 0.95},
		{Name: "Mercedes", Driver: "Rolf", Number: 44, Color: [3]int{0, 210, 190}, Pace: 0.998, Consistency: 0.92},
		{Name: "McLaren", Driver: "Richa", Number: 4, Color: [3]int{255, 135, 0}, Pace: 0.995, Consistency: 0.88},
		{Name: "Aston Martin", Driver: "Dennis", Number: 14, Color: [3]int{0, 111, 98}, Pace: 0.990, Consistency: 0.85},
		{Name: "Alpine", Driver: "Sujith", Number: 10, Color: [3]int{255, 130, 180}, Pace: 0.985, Consistency: 0.80},
	}
}

// DefaultDefinition returns the Pobstone GP session: 57 control points,
// two DRS zones and a six-slot pit lane along the start/finish straight.
// Coordinates are resolved to world space (scale 2, elevation offset 15).
func DefaultDefinition() *RaceDefinition {
	def := &RaceDefinition{
		Name:            "Pobstone GP",
		Location:        "Silverstone, UK",
		TotalLaps:       50,
		Scale:           2.0,
		ElevationOffset: 15.0,
		TrackWidth:      12.0,
		GridOrigin:      0.98,
		GridStep:        0.015,
		Points:          pobstonePoints(),
		DRSZones: []ZoneDef{
			{Start: 0.40, End: 0.48}, // Hangar Straight
			{Start: 0.62, End: 0.72}, // Wellington Straight
		},
		PitLane: PitLaneDef{
			Entry: 0.92,
			Exit:  0.06,
			// one-way lane parallel to the start/finish straight
			Points: []ControlPoint{
				{X: -95, Y: 1, Z: -45},
				{X: -70, Y: 1, Z: -30},
				{X: -45, Y: 0, Z: -22},
				{X: -20, Y: 0, Z: -18},
				{X: 10, Y: 0, Z: -16},
				{X: 40, Y: 0, Z: -14},
				{X: 70, Y: 1, Z: -10},
				{X: 95, Y: 2, Z: -3},
			},
			Slots: []float64{0.30, 0.38, 0.46, 0.54, 0.62, 0.70},
		},
		Teams: DefaultTeams(),
	}
	def.Normalize()
	return def
}

//nolint:funlen // track data
func pobstonePoints() []ControlPoint {
	return []ControlPoint{
		// Start/Finish straight
		{X: 0, Y: 0, Z: 0, Bank: 0},
		{X: 50, Y: 1, Z: 5, Bank: 0},
		{X: 100, Y: 2, Z: 3, Bank: 0},
		{X: 150, Y: 2, Z: 0, Bank: 0},
		{X: 200, Y: 3, Z: -5, Bank: 0},
		// Turn 1 (Copse)
		{X: 250, Y: 4, Z: -15, Bank: 5},
		{X: 280, Y: 5, Z: -40, Bank: 10},
		{X: 290, Y: 5, Z: -70, Bank: 8},
		// Maggots/Becketts complex
		{X: 280, Y: 4, Z: -100, Bank: -8},
		{X: 250, Y: 3, Z: -125, Bank: 10},
		{X: 220, Y: 3, Z: -145, Bank: -10},
		{X: 195, Y: 4, Z: -170, Bank: 8},
		{X: 180, Y: 5, Z: -195, Bank: -5},
		// Chapel
		{X: 175, Y: 6, Z: -220, Bank: 3},
		{X: 180, Y: 6, Z: -250, Bank: 0},
		// Hangar Straight
		{X: 190, Y: 5, Z: -280, Bank: 0},
		{X: 200, Y: 4, Z: -320, Bank: 0},
		{X: 210, Y: 3, Z: -360, Bank: 0},
		{X: 215, Y: 2, Z: -400, Bank: 0},
		// Stowe
		{X: 215, Y: 2, Z: -430, Bank: 6},
		{X: 200, Y: 2, Z: -455, Bank: 10},
		{X: 170, Y: 3, Z: -470, Bank: 8},
		// Vale
		{X: 140, Y: 4, Z: -475, Bank: 3},
		{X: 110, Y: 5, Z: -470, Bank: -5},
		// Club
		{X: 85, Y: 5, Z: -455, Bank: 8},
		{X: 70, Y: 4, Z: -430, Bank: 10},
		{X: 65, Y: 3, Z: -400, Bank: 5},
		// After Club chicane
		{X: 55, Y: 2, Z: -370, Bank: -3},
		{X: 40, Y: 2, Z: -340, Bank: 5},
		{X: 20, Y: 3, Z: -310, Bank: 3},
		// Abbey
		{X: -10, Y: 4, Z: -285, Bank: 8},
		{X: -45, Y: 5, Z: -265, Bank: 10},
		{X: -75, Y: 5, Z: -250, Bank: 6},
		// Farm
		{X: -100, Y: 4, Z: -240, Bank: -5},
		{X: -120, Y: 3, Z: -225, Bank: 8},
		{X: -130, Y: 3, Z: -200, Bank: 5},
		// Village
		{X: -135, Y: 4, Z: -170, Bank: 10},
		{X: -130, Y: 5, Z: -140, Bank: 8},
		{X: -115, Y: 5, Z: -115, Bank: 5},
		// The Loop
		{X: -95, Y: 4, Z: -100, Bank: 12},
		{X: -70, Y: 3, Z: -95, Bank: 10},
		{X: -50, Y: 2, Z: -100, Bank: 8},
		// Aintree
		{X: -35, Y: 2, Z: -110, Bank: 5},
		{X: -25, Y: 2, Z: -120, Bank: -3},
		// Wellington Straight
		{X: -20, Y: 2, Z: -135, Bank: 0},
		{X: -25, Y: 2, Z: -155, Bank: 0},
		{X: -35, Y: 2, Z: -175, Bank: 0},
		// Brooklands
		{X: -50, Y: 3, Z: -190, Bank: 8},
		{X: -75, Y: 4, Z: -195, Bank: 10},
		{X: -100, Y: 4, Z: -185, Bank: 8},
		// Luffield
		{X: -115, Y: 3, Z: -165, Bank: 10},
		{X: -120, Y: 2, Z: -140, Bank: 12},
		{X: -115, Y: 2, Z: -110, Bank: 10},
		// Woodcote approach
		{X: -100, Y: 1, Z: -80, Bank: 5},
		{X: -75, Y: 1, Z: -50, Bank: 3},
		{X: -50, Y: 0, Z: -25, Bank: 0},
		{X: -25, Y: 0, Z: -10, Bank: 0},
	}
}
