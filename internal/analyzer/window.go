package analyzer

import "math"

// windowSize is the rectangular window length, in samples, over which
// the transient score is computed. 256 samples at 16 kHz is 16 ms.
const windowSize = 256

// windowTarget is the normalization target subtracted from the mean
// window magnitude to produce a signed transient score.
const windowTarget = 128

// slidingWindow maintains a ring of |normalized sample| values and
// their running sum, so window_level can be produced in O(1) per
// sample instead of re-summing 256 values.
type slidingWindow struct {
	samples [windowSize]int32
	index   int
	sum     int64
}

// push stores floor(|n|) at the current cursor, evicting the oldest
// value, and returns the signed transient score.
func (w *slidingWindow) push(n float64) int32 {
	v := int32(math.Floor(math.Abs(n)))

	w.sum -= int64(w.samples[w.index])
	w.samples[w.index] = v
	w.sum += int64(v)
	w.index = (w.index + 1) % windowSize

	return int32((w.sum+128)>>8) - windowTarget
}

func (w *slidingWindow) reset() {
	*w = slidingWindow{}
}
