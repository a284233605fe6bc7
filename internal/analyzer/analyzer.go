// Package analyzer implements the streaming acoustic event detector:
// an adaptive transient detector, a bandpass-energy bell confirmer, a
// peak accumulator, and the knock/ring decision logic that turns a
// stream of transients into knock and doorbell-ring events. It is a
// single-threaded, synchronous, stateful stream processor with no
// allocations or dynamic dispatch on its per-sample hot path.
package analyzer

import "math"

// SampleRate is the only audio rate the core algorithm is tuned for.
const SampleRate = 16000

// decisionInterval is the number of samples between decision passes
// (100ms at 16kHz).
const decisionInterval = 1600

// thresholdDiagInterval is the number of samples between
// DISP_THRESHOLDS status lines (10s at 16kHz).
const thresholdDiagInterval = SampleRate * 10

// sampleIndexWrap bounds sample_index to 24 hours of audio, after
// which it is reduced modulo this value at a quiescent moment.
const sampleIndexWrap = SampleRate * 86400

// initialDecorrLevel seeds the AGC reference high enough that the
// first few thousand samples can't divide by a near-zero value.
const initialDecorrLevel = 32760.0

// minDecorrLevel is a hardening floor: decorr_level is floating and
// could in principle decay toward zero in prolonged silence.
const minDecorrLevel = 1.0

// initialPeakThreshold is the adaptive acceptance floor's starting
// point.
const initialPeakThreshold = 30.0

// Analyzer holds all state for one detector instance. It is a plain
// value — create one per channel for concurrent use, there is no
// shared or global state.
type Analyzer struct {
	prevSample int32
	weight     int32

	decorrLevel float64

	window slidingWindow

	bell          bellBiquad
	filteredLevel float64

	peakInProgress bool
	current        Peak
	buffer         peakBuffer
	peakThreshold  float64

	sampleIndex int64

	// Sink, if non-nil, receives diagnostic text events. See
	// DiagnosticSink.
	Sink DiagnosticSink
}

// New returns a freshly initialized Analyzer.
func New() *Analyzer {
	a := &Analyzer{}
	a.Init()
	return a
}

// Init resets all analyzer state to its initial values. Two
// consecutive calls leave identical state.
func (a *Analyzer) Init() {
	a.prevSample = 0
	a.weight = 0
	a.decorrLevel = initialDecorrLevel
	a.window.reset()
	a.bell.reset()
	a.filteredLevel = 0
	a.peakInProgress = false
	a.current = Peak{}
	a.buffer.clear()
	a.peakThreshold = initialPeakThreshold
	a.sampleIndex = 0
}

// Process consumes every sample of in, optionally appending diagnostic
// samples to out per the OUT_* bits of flags, and returns a bitmask
// with KnockDetected / RingDetected set if either fired anywhere in
// this block. out may be nil; if non-nil it must be sized to
// len(in) times the number of set OUT_* flags, in the order they are
// listed in the Out* flag constants — writes beyond its capacity are
// silently dropped rather than panicking.
func (a *Analyzer) Process(in []int16, out []int16, flags uint32) uint32 {
	var mask uint32
	outIdx := 0

	emit := func(v int16) {
		if out != nil && outIdx < len(out) {
			out[outIdx] = v
			outIdx++
		}
	}

	for _, sample := range in {
		x := int32(sample)

		xPrime := a.decorrelate(x)
		emitIf(flags, OutDecorrAudio, emit, clipInt16(xPrime))

		a.updateDecorrLevel(xPrime)
		emitIf(flags, OutDecorrLevel, emit, clipInt16(int32(math.Round(a.decorrLevel))))

		n := a.normalize(xPrime)
		emitIf(flags, OutNormalAudio, emit, clipInt16(int32(n)))

		windowLevel := a.window.push(n)
		emitIf(flags, OutWindowLevel, emit, clipInt16(windowLevel))

		y := a.bell.step(n)
		emitIf(flags, OutFilterAudio, emit, clipInt16(int32(y)))

		a.filteredLevel = a.filteredLevel*(255.0/256.0) + math.Abs(y)*(1.0/256.0)
		emitIf(flags, OutFilterLevel, emit, clipInt16(int32(math.Round(a.filteredLevel))))

		a.extractPeak(int(windowLevel), flags)

		a.sampleIndex++

		if a.sampleIndex%decisionInterval == 0 {
			mask |= a.runDecisionPass(flags)
		}

		a.maybeWrapSampleIndex()
	}

	return mask
}

// emitIf appends v via emit when bit is set in flags. Kept as a
// free function (rather than a method) so it inlines cleanly and
// carries no receiver state of its own.
func emitIf(flags uint32, bit uint32, emit func(int16), v int16) {
	if flags&bit != 0 {
		emit(v)
	}
}

func clipInt16(v int32) int16 {
	switch {
	case v > 32760:
		return 32760
	case v < -32760:
		return -32760
	default:
		return int16(v)
	}
}
