package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildKnockSignal lays a quiet white-noise bed and overlays three
// 10ms bursts at the given sample offsets, simulating a knuckle-rap
// triplet against a noisy background.
func buildKnockSignal(totalLen int, offsets []int, burstAmplitude int16) []int16 {
	const burstSamples = 160 // 10ms at 16kHz

	sig := whiteNoise(totalLen, 200, 7)
	for _, off := range offsets {
		burst(sig, off, burstSamples, burstAmplitude)
	}
	return sig
}

func processInChunks(t *testing.T, a *Analyzer, in []int16, chunk int, flags uint32) uint32 {
	t.Helper()
	var mask uint32
	for i := 0; i < len(in); i += chunk {
		end := i + chunk
		if end > len(in) {
			end = len(in)
		}
		mask |= a.Process(in[i:end], nil, flags)
	}
	return mask
}

// TestKnockRejectedWhenSpanTooLong checks that a clean knock triplet
// spaced 500ms apart (span 16000), outside the 4000-12000 valid span
// window, is rejected.
func TestKnockRejectedWhenSpanTooLong(t *testing.T) {
	sig := buildKnockSignal(60000, []int{32000, 40000, 48000}, 20000)

	a := New()
	mask := processInChunks(t, a, sig, 256, 0)

	assert.Zero(t, mask&KnockDetected, "span of 16000 samples is outside the valid 4000-12000 knock window")
}

// TestKnockAcceptedWhenEvenlySpaced checks that a valid, evenly-spaced
// knock triplet (span 6400, ratio 1.0) is accepted.
func TestKnockAcceptedWhenEvenlySpaced(t *testing.T) {
	sig := buildKnockSignal(60000, []int{32000, 35200, 38400}, 20000)

	a := New()
	mask := processInChunks(t, a, sig, 256, 0)

	assert.NotZero(t, mask&KnockDetected, "evenly-spaced triplet with span 6400 should be accepted")
	require.Zero(t, a.buffer.Len(), "buffer should be cleared after a knock fires")
}

// TestKnockRejectedWhenUnevenlySpaced checks that uneven spacing
// (d1=1600, d2=4800, ratio 3.0) is rejected.
func TestKnockRejectedWhenUnevenlySpaced(t *testing.T) {
	sig := buildKnockSignal(60000, []int{32000, 33600, 38400}, 20000)

	a := New()
	mask := processInChunks(t, a, sig, 256, 0)

	assert.Zero(t, mask&KnockDetected, "ratio of 3.0 exceeds the 1.1/1.2 limit and must be rejected")
}

// buildRingSignal lays a quiet bed, then a short loud burst at the
// bell fundamental (or noise, for the negative case), followed by a
// sustained tone.
func buildRingSignal(totalLen, onset int, sustained []int16) []int16 {
	sig := whiteNoise(totalLen, 200, 11)
	copy(sig[onset:], sustained)
	return sig
}

// TestRingConfirmedBySustainedTone checks that a transient at 770Hz
// followed by sustained 770Hz energy confirms as a ring.
func TestRingConfirmedBySustainedTone(t *testing.T) {
	const onset = 32000
	burstTone := tone(800, 770, 15000)     // 50ms
	sustainTone := tone(8000, 770, 8000)   // 500ms
	payload := append(append([]int16{}, burstTone...), sustainTone...)

	sig := buildRingSignal(onset+len(payload)+16000, onset, payload)

	a := New()
	mask := processInChunks(t, a, sig, 256, 0)

	assert.NotZero(t, mask&RingDetected, "sustained 770Hz energy after the transient should confirm a ring")
}

// TestRingNotConfirmedByBroadbandNoise checks that the same temporal
// envelope filled with broadband noise instead of a 770Hz tone does
// not confirm as a ring.
func TestRingNotConfirmedByBroadbandNoise(t *testing.T) {
	const onset = 32000
	burstNoise := whiteNoise(800, 15000, 21)
	sustainNoise := whiteNoise(8000, 8000, 22)
	payload := append(append([]int16{}, burstNoise...), sustainNoise...)

	sig := buildRingSignal(onset+len(payload)+16000, onset, payload)

	a := New()
	mask := processInChunks(t, a, sig, 256, 0)

	assert.Zero(t, mask&RingDetected, "broadband energy shouldn't energize the narrow bell band enough to confirm")
}

// TestBufferEvictsQuietestPeaksUnderSustainedLoad checks that 20
// qualifying transients with no valid knock triplet among them leave
// the buffer at capacity, having evicted the quietest peaks.
func TestBufferEvictsQuietestPeaksUnderSustainedLoad(t *testing.T) {
	const spacing = 4800 // 300ms
	offsets := make([]int, 20)
	for i := range offsets {
		offsets[i] = 16000 + i*spacing
	}

	sig := whiteNoise(offsets[len(offsets)-1]+16000, 200, 31)
	for i, off := range offsets {
		// Vary amplitude so eviction has a clear smallest-height
		// ordering to enforce.
		amp := int16(8000 + i*500)
		burst(sig, off, 160, amp)
	}

	a := New()
	processInChunks(t, a, sig, 256, 0)

	assert.Equal(t, peakBufferCap, a.buffer.Len())

	for i := 1; i < a.buffer.Len(); i++ {
		assert.LessOrEqual(t, a.buffer.At(i-1).Time, a.buffer.At(i).Time)
	}
}
