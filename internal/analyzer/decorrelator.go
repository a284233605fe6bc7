package analyzer

// decorrelate runs the adaptive first-order predictor: a cheap
// adaptive high-pass that suppresses DC/LF drift without a fixed
// cutoff frequency. The predictor's weight grows without bound over a
// long-running stream, so the prediction can overshoot 16 bits; the
// reference keeps the decorrelated sample in a 16-bit variable, which
// wraps around on overflow instead of saturating, and everything
// downstream (the AGC reference, the diagnostic output) is derived
// from that same wrapped value.
func (a *Analyzer) decorrelate(x int32) int32 {
	predicted := (a.weight*a.prevSample + 512) >> 10
	xPrime := int32(int16(x - predicted))

	if xPrime != 0 && a.prevSample != 0 {
		v := xPrime ^ a.prevSample

		// sign_bit(v): -1 if v < 0 (x' and prev_sample disagree in
		// sign), else 0.
		var signBit int32
		if v < 0 {
			signBit = -1
		}

		a.weight += (signBit | 1) << 1
	}

	a.prevSample = x

	return xPrime
}
