package analyzer

import "math"

// updateDecorrLevel advances the slow exponential magnitude average
// used as the AGC reference. Time constant ≈16ms.
func (a *Analyzer) updateDecorrLevel(xPrime int32) {
	a.decorrLevel = a.decorrLevel*(255.0/256.0) + math.Abs(float64(xPrime))*(1.0/256.0)
	if a.decorrLevel < minDecorrLevel {
		a.decorrLevel = minDecorrLevel
	}
}

// normalize divides the decorrelated sample by the AGC reference to
// yield a constant-scale signal, clipped to the 16-bit range.
func (a *Analyzer) normalize(xPrime int32) float64 {
	n := float64(xPrime) / a.decorrLevel * 128.0

	switch {
	case n > 32760:
		return 32760
	case n < -32760:
		return -32760
	default:
		return n
	}
}
