package analyzer

// peakBufferCap is the maximum number of accepted peaks retained at
// once.
const peakBufferCap = 16

// knockMaxSpan bounds a valid knock triplet's total duration, in
// samples (0.75s at 16kHz). Peaks are expired from the buffer after
// twice this span with no use, since no knock triplet can reference
// anything older.
const knockMaxSpan = 12000

// Peak is a single accepted transient: a contiguous region where
// window_level stayed positive, long enough and loud enough to clear
// the adaptive threshold.
type Peak struct {
	Time          int64   // sample index of the region's maximum
	Area          float64 // sum of positive window_level values across the region
	Height        float64 // maximum window_level value in the region
	Width         float64 // Area / Height, set at close-out
	FilteredLevel float64 // bell filtered_level at region start
	FilterHits    int     // 100ms passes with elevated bell energy while the peak is under 1s old
}

// peakBuffer is a small bounded FIFO, ordered by Time. Capacity is
// fixed and small (≤16), so linear scans and shifts are cheap and
// branch-predictable.
type peakBuffer struct {
	entries [peakBufferCap]Peak
	len     int
}

func (b *peakBuffer) Len() int { return b.len }

func (b *peakBuffer) At(i int) Peak { return b.entries[i] }

func (b *peakBuffer) set(i int, p Peak) { b.entries[i] = p }

func (b *peakBuffer) clear() { b.len = 0 }

// insert appends p, evicting the smallest strictly-smaller-height
// existing peak first if the buffer is full. If the buffer is full
// and every existing peak is at least as tall as p, p is dropped and
// insert reports false.
func (b *peakBuffer) insert(p Peak) bool {
	if b.len < peakBufferCap {
		b.entries[b.len] = p
		b.len++
		return true
	}

	smallest := -1
	for i := 0; i < b.len; i++ {
		if b.entries[i].Height < p.Height {
			if smallest == -1 || b.entries[i].Height < b.entries[smallest].Height {
				smallest = i
			}
		}
	}
	if smallest == -1 {
		return false
	}

	b.remove(smallest)
	b.entries[b.len] = p
	b.len++
	return true
}

// expire drops entries from the front whose Time is old enough that
// no future knock triplet could reference them.
func (b *peakBuffer) expire(now int64) {
	front := 0
	for front < b.len && b.entries[front].Time+2*knockMaxSpan < now {
		front++
	}
	if front == 0 {
		return
	}
	copy(b.entries[:], b.entries[front:b.len])
	b.len -= front
}

// remove deletes the entry at index i, preserving order of the rest.
func (b *peakBuffer) remove(i int) {
	copy(b.entries[i:], b.entries[i+1:b.len])
	b.len--
}
