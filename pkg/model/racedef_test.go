package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RaceDefinition)
		wantErr error
	}{
		{"default is valid", func(*RaceDefinition) {}, nil},
		{"too few control points", func(d *RaceDefinition) {
			d.Points = d.Points[:3]
		}, ErrNoControlPoints},
		{"no teams", func(d *RaceDefinition) {
			d.Teams = nil
		}, ErrNoTeams},
		{"zero laps", func(d *RaceDefinition) {
			d.TotalLaps = 0
		}, ErrNoLaps},
		{"zone out of range", func(d *RaceDefinition) {
			d.DRSZones[0].End = 1.5
		}, ErrBadZone},
		{"pit entry out of range", func(d *RaceDefinition) {
			d.PitLane.Entry = 1.2
		}, ErrBadPitLane},
		{"too few pit slots", func(d *RaceDefinition) {
			d.PitLane.Slots = d.PitLane.Slots[:2]
		}, ErrBadPitLane},
		{"unsorted pit slots", func(d *RaceDefinition) {
			d.PitLane.Slots[1] = d.PitLane.Slots[0]
		}, ErrBadPitLane},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := DefaultDefinition()
			tc.mutate(def)
			err := def.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeAppliesScaleOnce(t *testing.T) {
	def := &RaceDefinition{
		Scale:           2.0,
		ElevationOffset: 15.0,
		Points: []ControlPoint{
			{X: 10, Y: 1, Z: -5},
		},
		PitLane: PitLaneDef{
			Points: []ControlPoint{{X: 4, Y: 0, Z: 2}},
		},
	}
	def.Normalize()

	assert.InDelta(t, 20.0, def.Points[0].X, 1e-9)
	assert.InDelta(t, 17.0, def.Points[0].Y, 1e-9) // 1*2 + 15
	assert.InDelta(t, -10.0, def.Points[0].Z, 1e-9)
	assert.InDelta(t, 8.0, def.PitLane.Points[0].X, 1e-9)
	assert.Equal(t, 1.0, def.Scale)
	assert.Zero(t, def.ElevationOffset)

	// a second pass must not scale again
	def.Normalize()
	assert.InDelta(t, 20.0, def.Points[0].X, 1e-9)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	def := &RaceDefinition{}
	def.Normalize()

	assert.Equal(t, 12.0, def.TrackWidth)
	assert.Equal(t, 0.98, def.GridOrigin)
	assert.Equal(t, 0.015, def.GridStep)
}

func TestStaggerFor(t *testing.T) {
	def := DefaultDefinition()
	assert.InDelta(t, 0.98, def.StaggerFor(0), 1e-9)
	assert.InDelta(t, 0.965, def.StaggerFor(1), 1e-9)

	// explicit grid slots override the computed stagger
	def.GridSlots = []float64{0.5, 0.4}
	assert.InDelta(t, 0.5, def.StaggerFor(0), 1e-9)
	assert.InDelta(t, 0.4, def.StaggerFor(1), 1e-9)

	// a large slot index wraps instead of going negative
	def.GridSlots = nil
	got := def.StaggerFor(70)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestLoadRaceDefinition(t *testing.T) {
	yml := `
name: Test Ring
location: Nowhere
totalLaps: 3
scale: 1.0
points:
  - {x: 0, y: 0, z: 0}
  - {x: 100, y: 0, z: 0}
  - {x: 100, y: 0, z: 100}
  - {x: 0, y: 0, z: 100}
drsZones:
  - {start: 0.1, end: 0.2}
pitLane:
  entry: 0.9
  exit: 0.05
  points:
    - {x: 0, y: 0, z: -10}
    - {x: 30, y: 0, z: -10}
    - {x: 60, y: 0, z: -10}
    - {x: 90, y: 0, z: -10}
  slots: [0.4, 0.6]
teams:
  - {name: Alpha, driver: Anna, number: 7, pace: 1.0, consistency: 0.9}
`
	path := filepath.Join(t.TempDir(), "race.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	def, err := LoadRaceDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Ring", def.Name)
	assert.Equal(t, 3, def.TotalLaps)
	require.Len(t, def.Teams, 1)
	assert.Equal(t, "Anna", def.Teams[0].Driver)
	assert.Equal(t, 12.0, def.TrackWidth) // default filled in

	_, err = LoadRaceDefinition(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDefaultDefinitionIsResolved(t *testing.T) {
	def := DefaultDefinition()
	require.NoError(t, def.Validate())

	// scale 2 / elevation 15 are already applied
	assert.Equal(t, 1.0, def.Scale)
	assert.Zero(t, def.ElevationOffset)
	assert.Len(t, def.Points, 57)
	assert.Len(t, def.Teams, 6)
	assert.InDelta(t, 15.0, def.Points[0].Y, 1e-9) // 0*2 + 15
}
