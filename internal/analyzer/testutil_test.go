package analyzer

import "math"

// whiteNoise generates n deterministic pseudo-random samples in
// [-amplitude, amplitude] using a tiny xorshift generator, so test
// cases are reproducible without needing math/rand's global seed.
func whiteNoise(n int, amplitude int16, seed uint32) []int16 {
	out := make([]int16, n)
	state := seed | 1
	for i := range out {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		v := int32(state%uint32(2*int(amplitude)+1)) - int32(amplitude)
		out[i] = int16(v)
	}
	return out
}

// tone generates n samples of a sine wave at freqHz at 16kHz.
func tone(n int, freqHz float64, amplitude int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(float64(amplitude) * math.Sin(2*math.Pi*freqHz*float64(i)/SampleRate))
	}
	return out
}

// burst writes amplitude-scaled alternating +/- impulses into dst
// starting at offset, for the given duration in samples, simulating a
// sharp knuckle-rap transient.
func burst(dst []int16, offset, duration int, amplitude int16) {
	for i := 0; i < duration && offset+i < len(dst); i++ {
		if i%2 == 0 {
			dst[offset+i] = amplitude
		} else {
			dst[offset+i] = -amplitude
		}
	}
}
