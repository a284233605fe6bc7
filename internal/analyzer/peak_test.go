package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakBufferInsertUnderCapacity(t *testing.T) {
	var b peakBuffer

	for i := 0; i < 10; i++ {
		ok := b.insert(Peak{Time: int64(i), Height: float64(i)})
		require.True(t, ok)
	}

	assert.Equal(t, 10, b.Len())
}

func TestPeakBufferEvictsSmallestStrictlySmaller(t *testing.T) {
	var b peakBuffer

	for i := 0; i < peakBufferCap; i++ {
		require.True(t, b.insert(Peak{Time: int64(i), Height: float64(10 + i)}))
	}
	// Heights are 10..25, smallest is index 0 (height 10).

	ok := b.insert(Peak{Time: 100, Height: 50})
	require.True(t, ok)

	assert.Equal(t, peakBufferCap, b.Len())
	for i := 0; i < b.Len(); i++ {
		assert.NotEqual(t, float64(10), b.At(i).Height, "the smallest peak should have been evicted")
	}
	assert.Equal(t, float64(50), b.At(b.Len()-1).Height, "the new peak should be appended at the end")
}

func TestPeakBufferDropsWhenNewIsSmallest(t *testing.T) {
	var b peakBuffer

	for i := 0; i < peakBufferCap; i++ {
		require.True(t, b.insert(Peak{Time: int64(i), Height: float64(10 + i)}))
	}

	ok := b.insert(Peak{Time: 100, Height: 5})

	assert.False(t, ok, "a peak smaller than everything already buffered should be dropped")
	assert.Equal(t, peakBufferCap, b.Len())
}

func TestPeakBufferDropsOnTie(t *testing.T) {
	var b peakBuffer

	for i := 0; i < peakBufferCap; i++ {
		require.True(t, b.insert(Peak{Time: int64(i), Height: 10}))
	}

	ok := b.insert(Peak{Time: 100, Height: 10})

	assert.False(t, ok, "a peak tied with the smallest existing peak should be dropped, not evict")
}

func TestPeakBufferExpire(t *testing.T) {
	var b peakBuffer
	b.insert(Peak{Time: 0})
	b.insert(Peak{Time: 1000})
	b.insert(Peak{Time: 30000})

	b.expire(30001) // only entries with Time+24000 < now expire

	require.Equal(t, 1, b.Len())
	assert.Equal(t, int64(30000), b.At(0).Time)
}

func TestPeakBufferExpireEmpty(t *testing.T) {
	var b peakBuffer
	b.expire(1_000_000)
	assert.Zero(t, b.Len())
}
