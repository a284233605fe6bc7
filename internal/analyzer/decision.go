package analyzer

// runDecisionPass runs every decisionInterval samples (100ms): expires
// stale peaks, evaluates knock and ring rules in order, emits the
// periodic threshold line, and decays the adaptive threshold.
// sample_index wrapping is handled separately by maybeWrapSampleIndex.
func (a *Analyzer) runDecisionPass(flags uint32) uint32 {
	a.buffer.expire(a.sampleIndex)

	var mask uint32

	if a.checkKnock(flags) {
		mask |= KnockDetected
		a.buffer.clear()
		a.diagEvent(flags, "knock", "")
	} else if a.checkRing(flags) {
		mask |= RingDetected
		a.buffer.clear()
		a.diagEvent(flags, "ring", "")
	}

	if a.sampleIndex%thresholdDiagInterval == 0 {
		a.diagThreshold(flags)
	}

	a.peakThreshold *= 0.999

	return mask
}

// checkKnock enumerates ordered peak triples looking for three
// impulsive transients roughly equally spaced with no louder neighbor
// confusing the pattern.
func (a *Analyzer) checkKnock(flags uint32) bool {
	s := sensitivityFor(flags)
	n := a.buffer.Len()

	for i := 0; i < n; i++ {
		p1 := a.buffer.At(i)

		for j := i + 1; j < n; j++ {
			p2 := a.buffer.At(j)

			for k := j + 1; k < n; k++ {
				p3 := a.buffer.At(k)

				if a.isKnockTriplet(p1, p2, p3, i, j, k, s) {
					return true
				}
			}
		}
	}

	return false
}

func (a *Analyzer) isKnockTriplet(p1, p2, p3 Peak, i1, i2, i3 int, s sensitivity) bool {
	span := p3.Time - p1.Time
	if span <= 4000 || span >= 12000 {
		return false
	}

	if p1.Width >= 512 || p2.Width >= 512 || p3.Width >= 512 {
		return false
	}

	if p3.Time+span/2 >= a.sampleIndex {
		return false // not settled yet
	}

	d1 := p2.Time - p1.Time
	d2 := p3.Time - p2.Time

	maxD, minD := d1, d2
	if d2 > d1 {
		maxD, minD = d2, d1
	}
	if minD <= 0 {
		return false
	}
	if float64(maxD)/float64(minD) >= s.ratioMax {
		return false
	}

	minHeight := p1.Height
	if p2.Height < minHeight {
		minHeight = p2.Height
	}
	if p3.Height < minHeight {
		minHeight = p3.Height
	}
	threshold := minHeight * s.heightFrac

	guardLo := p1.Time - span/3
	guardHi := p3.Time + span/3

	for i := 0; i < a.buffer.Len(); i++ {
		if i == i1 || i == i2 || i == i3 {
			continue
		}
		q := a.buffer.At(i)
		if q.Time > guardLo && q.Time < guardHi && q.Height > threshold {
			return false
		}
	}

	return true
}

// checkRing looks for a peak whose bell-band energy was elevated in
// five decision passes within the first second after the transient
// that introduced it. The passes need not be consecutive.
func (a *Analyzer) checkRing(flags uint32) bool {
	for i := 0; i < a.buffer.Len(); i++ {
		p := a.buffer.At(i)

		if p.Time+16000 > a.sampleIndex && a.filteredLevel > p.FilteredLevel*2+50 {
			p.FilterHits++
			a.buffer.set(i, p)
		}

		if p.FilterHits >= 5 {
			return true
		}
	}

	return false
}

// maybeWrapSampleIndex reduces sample_index modulo 24h of audio once
// the stream is quiescent, so no time comparison ever straddles the
// wrap.
func (a *Analyzer) maybeWrapSampleIndex() {
	if a.sampleIndex > sampleIndexWrap && a.buffer.Len() == 0 && !a.peakInProgress {
		a.sampleIndex %= sampleIndexWrap
	}
}
