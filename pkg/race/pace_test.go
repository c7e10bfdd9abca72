package race

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pobstone/racesim/pkg/model"
)

func TestBoostTiersAreMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name       string
		drs, slip  bool
		want       BoostTier
		wantString string
	}{
		{"neither", false, false, BoostNone, "none"},
		{"drs only", true, false, BoostDRS, "drs"},
		{"slipstream only", false, true, BoostSlipstream, "slipstream"},
		{"both", true, true, BoostDRSSlipstream, "drs+slipstream"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &Car{InDRSZone: tc.drs, Slipstream: tc.slip}
			got := boostTier(c)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantString, got.String())
		})
	}
}

func freshPaceCar(pace, consistency float64) *Car {
	return newCar(0, model.Team{Pace: pace, Consistency: consistency}, 0)
}

func TestSpeedMultiplierFactors(t *testing.T) {
	p := DefaultParams()
	p.JitterAmplitude = 0
	rng := rand.New(rand.NewSource(1))

	t.Run("fresh car runs at team pace", func(t *testing.T) {
		c := freshPaceCar(1.005, 0.9)
		assert.InDelta(t, 1.005, computeSpeedMultiplier(&p, c, rng), 1e-9)
	})

	t.Run("full damage costs fifteen percent", func(t *testing.T) {
		c := freshPaceCar(1.0, 0.9)
		c.Damage = 100
		assert.InDelta(t, 0.85, computeSpeedMultiplier(&p, c, rng), 1e-9)
	})

	t.Run("worn tires cost up to two percent", func(t *testing.T) {
		c := freshPaceCar(1.0, 0.9)
		c.TireWear = 0
		assert.InDelta(t, 0.98, computeSpeedMultiplier(&p, c, rng), 1e-9)
	})

	t.Run("empty tank gains half a percent", func(t *testing.T) {
		c := freshPaceCar(1.0, 0.9)
		c.FuelLoad = 0
		assert.InDelta(t, 1.005, computeSpeedMultiplier(&p, c, rng), 1e-9)
	})

	t.Run("avoidance penalty applies", func(t *testing.T) {
		c := freshPaceCar(1.0, 0.9)
		c.Avoiding = true
		assert.InDelta(t, p.AvoidancePenalty, computeSpeedMultiplier(&p, c, rng), 1e-9)
	})

	t.Run("combined boost beats single tiers", func(t *testing.T) {
		c := freshPaceCar(1.0, 0.9)
		c.InDRSZone = true
		c.Slipstream = true
		got := computeSpeedMultiplier(&p, c, rng)
		assert.InDelta(t, 1+p.BoostDRSSlipstream, got, 1e-9)
		assert.Equal(t, BoostDRSSlipstream, c.Boost)
	})
}

func TestJitterScalesWithInconsistency(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(42))

	spread := func(consistency float64) float64 {
		lo, hi := 2.0, 0.0
		for i := 0; i < 2000; i++ {
			c := freshPaceCar(1.0, consistency)
			m := computeSpeedMultiplier(&p, c, rng)
			if m < lo {
				lo = m
			}
			if m > hi {
				hi = m
			}
		}
		return hi - lo
	}

	steady := spread(0.95)
	erratic := spread(0.50)
	assert.Less(t, steady, erratic)
}
