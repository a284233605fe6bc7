package analyzer

// bellBiquad is a direct-form-I second-order IIR section tuned to the
// doorbell's fundamental. Coefficients are pre-multiplied by a fixed
// gain of 4 (770 Hz, Q≈100).
type bellBiquad struct {
	inD1, inD2   float64
	outD1, outD2 float64
}

const (
	bellA0 = 0.005946974
	bellA1 = 0.0
	bellA2 = -0.005946974
	bellB1 = -1.906423326
	bellB2 = 0.997026513
)

// step runs one sample through the filter and updates its delay lines.
func (b *bellBiquad) step(x float64) float64 {
	y := bellA0*x + bellA1*b.inD1 + bellA2*b.inD2 - bellB1*b.outD1 - bellB2*b.outD2

	b.inD2 = b.inD1
	b.inD1 = x
	b.outD2 = b.outD1
	b.outD1 = y

	return y
}

func (b *bellBiquad) reset() {
	*b = bellBiquad{}
}
