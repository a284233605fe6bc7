package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestInitIsIdempotent(t *testing.T) {
	a := New()
	a.Process(whiteNoise(5000, 500, 1), nil, 0)

	a.Init()
	first := *a

	a.Init()
	second := *a

	assert.Equal(t, first, second)
}

func TestSilenceProducesNoDetections(t *testing.T) {
	a := New()
	silence := make([]int16, SampleRate*10)

	mask := a.Process(silence, nil, 0)

	assert.Zero(t, mask)
	assert.Zero(t, a.buffer.Len())
}

func TestOutputBufferSizing(t *testing.T) {
	a := New()
	in := whiteNoise(1000, 500, 2)

	flags := uint32(OutDecorrAudio | OutWindowLevel | OutFilterLevel)
	out := make([]int16, 3*len(in))

	a.Process(in, out, flags)

	// Smoke check: no panic with out sized for the three selected
	// streams. The values written are not inspected here.
	assert.Len(t, out, 3*len(in))
}

// TestWindowSumInvariant checks that window_sum always equals the
// exact sum of the 256 stored values.
func TestWindowSumInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := New()
		n := rapid.IntRange(1, 4000).Draw(t, "n")
		amp := int16(rapid.IntRange(0, 32000).Draw(t, "amp"))
		in := whiteNoise(n, amp, uint32(rapid.IntRange(1, 1<<30).Draw(t, "seed")))

		for _, s := range in {
			a.Process([]int16{s}, nil, 0)

			var want int64
			for _, v := range a.window.samples {
				want += int64(v)
			}
			require.Equal(t, want, a.window.sum)
		}
	})
}

// TestPeakBufferBounded checks that the buffer never exceeds capacity.
func TestPeakBufferBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := New()
		n := rapid.IntRange(1, SampleRate).Draw(t, "n")
		amp := int16(rapid.IntRange(0, 32000).Draw(t, "amp"))
		in := whiteNoise(n, amp, uint32(rapid.IntRange(1, 1<<30).Draw(t, "seed")))

		a.Process(in, nil, 0)

		require.LessOrEqual(t, a.buffer.Len(), peakBufferCap)
	})
}

// TestPeakBufferOrdered checks that buffered peaks are non-decreasing
// in Time.
func TestPeakBufferOrdered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := New()
		n := rapid.IntRange(1, SampleRate).Draw(t, "n")
		amp := int16(rapid.IntRange(0, 32000).Draw(t, "amp"))
		in := whiteNoise(n, amp, uint32(rapid.IntRange(1, 1<<30).Draw(t, "seed")))

		a.Process(in, nil, 0)

		for i := 1; i < a.buffer.Len(); i++ {
			require.LessOrEqual(t, a.buffer.At(i-1).Time, a.buffer.At(i).Time)
		}
	})
}

// TestDeterminism checks that identical inputs produce identical
// outputs across independent instances.
func TestDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5000).Draw(t, "n")
		amp := int16(rapid.IntRange(0, 32000).Draw(t, "amp"))
		seed := uint32(rapid.IntRange(1, 1<<30).Draw(t, "seed"))
		flags := uint32(rapid.IntRange(0, 0x3ff).Draw(t, "flags"))

		in := whiteNoise(n, amp, seed)

		a1, a2 := New(), New()
		out1 := make([]int16, n*10)
		out2 := make([]int16, n*10)

		mask1 := a1.Process(in, out1, flags)
		mask2 := a2.Process(in, out2, flags)

		require.Equal(t, mask1, mask2)
		require.Equal(t, out1, out2)
	})
}

// TestSampleIndexRange checks that sample_index stays within
// [0, 16000*86400).
func TestSampleIndexRange(t *testing.T) {
	a := New()
	a.sampleIndex = sampleIndexWrap - 10

	a.Process(make([]int16, 1000), nil, 0)

	assert.GreaterOrEqual(t, a.sampleIndex, int64(0))
	assert.Less(t, a.sampleIndex, int64(sampleIndexWrap))
}
