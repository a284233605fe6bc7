package analyzer

// extractPeak advances the peak-extraction state machine by one
// sample, opening, growing, or closing a contiguous positive-level
// region as window_level crosses zero.
func (a *Analyzer) extractPeak(windowLevel int, flags uint32) {
	switch {
	case !a.peakInProgress && windowLevel > 0:
		a.peakInProgress = true
		a.current = Peak{
			Time:          a.sampleIndex,
			Area:          float64(windowLevel),
			Height:        float64(windowLevel),
			FilteredLevel: a.filteredLevel,
		}

	case a.peakInProgress && windowLevel <= 0:
		a.closePeak(flags)

	case a.peakInProgress && float64(windowLevel) > a.current.Height:
		// New maximum. Area is deliberately NOT incremented here —
		// matches the reference implementation, which understates
		// area across rising edges.
		a.current.Time = a.sampleIndex
		a.current.Height = float64(windowLevel)

	case a.peakInProgress:
		// 0 < window_level <= current height: still growing.
		a.current.Area += float64(windowLevel)
	}
}

// closePeak finalizes the in-progress peak and applies the adaptive
// acceptance threshold.
func (a *Analyzer) closePeak(flags uint32) {
	p := a.current
	a.peakInProgress = false

	if p.Height <= a.peakThreshold {
		return
	}

	a.peakThreshold *= 1.01

	s := sensitivityFor(flags)
	if p.Height <= a.peakThreshold*s.scaling {
		return
	}

	p.Width = p.Area / p.Height

	if a.buffer.insert(p) {
		a.diagPeak(flags, p)
	} else {
		a.diagEvent(flags, "buffer-full", "peak dropped, buffer full of louder peaks")
	}
}
