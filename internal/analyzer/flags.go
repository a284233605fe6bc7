package analyzer

// Flag bits accepted by Analyzer.Process. Bit layout matches the
// original firmware's command byte: the low bits select detector
// sensitivity and diagnostics, the high bits request per-sample
// diagnostic output streams appended to the caller's output buffer.
const (
	HighSensitivity = 1 << iota // use the high-sensitivity knock/ring thresholds
	DispThresholds              // emit a threshold/status line every 10s
	DispEvents                  // emit a line on detections, buffer-full, overflow
	DispPeaks                   // emit a line for each accepted peak
	OutDecorrAudio              // append the decorrelated sample
	OutDecorrLevel              // append decorr_level, rounded
	OutNormalAudio              // append the clipped normalized sample
	OutWindowLevel              // append window_level
	OutFilterAudio              // append the bell biquad output, clipped
	OutFilterLevel              // append filtered_level, rounded
)

// Result bits returned by Process.
const (
	KnockDetected = 1 << iota
	RingDetected
)

// sensitivity bundles the three tunables that differ between the
// default and high-sensitivity knock/ring rules.
type sensitivity struct {
	ratioMax   float64 // max(d1,d2)/min(d1,d2) must be below this
	heightFrac float64 // guard-window louder-neighbor threshold fraction
	scaling    float64 // acceptance margin above the adaptive threshold
}

var (
	lowSensitivity  = sensitivity{ratioMax: 1.1, heightFrac: 0.5, scaling: 1.5}
	highSensitivity = sensitivity{ratioMax: 1.2, heightFrac: 0.75, scaling: 1.25}
)

func sensitivityFor(flags uint32) sensitivity {
	if flags&HighSensitivity != 0 {
		return highSensitivity
	}
	return lowSensitivity
}
