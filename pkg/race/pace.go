package race

import "math/rand"

// computeSpeedMultiplier composes the car's speed multiplier for this
// tick from independent bounded factors. Order is irrelevant (pure
// product); the chosen boost tier is written back to the car so the
// UI can display it. All factors are bounded, so the result stays
// positive without clamping.
func computeSpeedMultiplier(p *Params, c *Car, rng *rand.Rand) float64 {
	m := c.Team.Pace

	// jitter keeps two otherwise identical cars from ever being
	// bit-for-bit equal; consistent teams get less of it
	amplitude := p.JitterAmplitude * (1.05 - clamp(c.Team.Consistency, 0, 1))
	m *= 1 + (rng.Float64()*2-1)*amplitude

	// worn tires cost up to 2%
	m *= 0.98 + (c.TireWear/100)*0.02
	// lighter car is faster, up to +0.5% on an empty tank
	m *= 1 + (1-c.FuelLoad/100)*0.005
	// full damage costs 15%
	m *= 1 - (c.Damage/100)*0.15

	if c.Avoiding {
		m *= p.AvoidancePenalty
	}

	c.Boost = boostTier(c)
	switch c.Boost {
	case BoostDRSSlipstream:
		m *= 1 + p.BoostDRSSlipstream
	case BoostSlipstream:
		m *= 1 + p.BoostSlipstream
	case BoostDRS:
		m *= 1 + p.BoostDRS
	case BoostNone:
	}
	return m
}

// boostTier picks the highest applicable tier; tiers are mutually
// exclusive and never summed.
func boostTier(c *Car) BoostTier {
	switch {
	case c.InDRSZone && c.Slipstream:
		return BoostDRSSlipstream
	case c.Slipstream:
		return BoostSlipstream
	case c.InDRSZone:
		return BoostDRS
	default:
		return BoostNone
	}
}
