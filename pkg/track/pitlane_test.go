package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobstone/racesim/pkg/model"
)

func testPitLane(t *testing.T) *PitLane {
	t.Helper()
	p, err := NewPitLane(model.DefaultDefinition().PitLane)
	require.NoError(t, err)
	return p
}

func TestNewPitLane_Validation(t *testing.T) {
	def := model.DefaultDefinition().PitLane

	bad := def
	bad.Points = bad.Points[:2]
	_, err := NewPitLane(bad)
	assert.ErrorIs(t, err, model.ErrBadPitLane)

	bad = def
	bad.Slots = []float64{0.5, 0.4}
	_, err = NewPitLane(bad)
	assert.ErrorIs(t, err, model.ErrBadPitLane)

	bad = def
	bad.Slots = nil
	_, err = NewPitLane(bad)
	assert.ErrorIs(t, err, model.ErrBadPitLane)
}

func TestPitLane_ClampsNoWraparound(t *testing.T) {
	p := testPitLane(t)
	start := p.PointAt(0)
	end := p.PointAt(1)

	below := p.PointAt(-0.5)
	above := p.PointAt(1.5)
	assert.Equal(t, start, below)
	assert.Equal(t, end, above)
	// unlike the circuit, endpoints differ
	assert.Greater(t, dist(start, end), 1.0)
}

func TestPitLane_StopParamsOrdered(t *testing.T) {
	p := testPitLane(t)
	prev := 0.0
	for i := 0; i < p.NumSlots(); i++ {
		s := p.StopParam(i)
		assert.Greater(t, s, prev)
		assert.Less(t, s, 1.0)
		prev = s
	}
	// out-of-range slots reuse boundary boxes
	assert.Equal(t, p.StopParam(0), p.StopParam(-1))
	assert.Equal(t, p.StopParam(p.NumSlots()-1), p.StopParam(p.NumSlots()+5))
}

func TestZone_ContainsWithWrap(t *testing.T) {
	plain := Zone{Start: 0.40, End: 0.48}
	assert.True(t, plain.Contains(0.44))
	assert.False(t, plain.Contains(0.55))

	wrapped := Zone{Start: 0.9, End: 0.1}
	assert.True(t, wrapped.Contains(0.95))
	assert.True(t, wrapped.Contains(0.05))
	assert.True(t, wrapped.Contains(1.05)) // wraps to 0.05
	assert.False(t, wrapped.Contains(0.5))
}
