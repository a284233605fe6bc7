package analyzer

// DiagnosticSink receives the informational text events gated by the
// DispThresholds / DispEvents / DispPeaks flag bits. It is called
// synchronously and only when the corresponding flag bit is set, so a
// nil Sink costs nothing on the hot per-sample path. Implementations
// live outside this package (internal/diagsink) — the analyzer core
// has no opinion on how diagnostics are rendered or where they go.
type DiagnosticSink interface {
	// Threshold reports the adaptive peak threshold and current
	// buffer occupancy, emitted roughly every 10s.
	Threshold(now int64, peakThreshold float64, bufferLen int)

	// Event reports a detection, buffer-full, or overflow condition.
	Event(now int64, kind string, detail string)

	// Peak reports a newly accepted peak.
	Peak(now int64, p Peak)
}

func (a *Analyzer) diagThreshold(flags uint32) {
	if a.Sink == nil || flags&DispThresholds == 0 {
		return
	}
	a.Sink.Threshold(a.sampleIndex, a.peakThreshold, a.buffer.Len())
}

func (a *Analyzer) diagEvent(flags uint32, kind, detail string) {
	if a.Sink == nil || flags&DispEvents == 0 {
		return
	}
	a.Sink.Event(a.sampleIndex, kind, detail)
}

func (a *Analyzer) diagPeak(flags uint32, p Peak) {
	if a.Sink == nil || flags&DispPeaks == 0 {
		return
	}
	a.Sink.Peak(a.sampleIndex, p)
}
