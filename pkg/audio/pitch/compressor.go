// ABOUTME: Soft-knee sample compressor
// ABOUTME: Static gain curve with a smoothstep knee around the threshold
package pitch

// SoftKnee is a memoryless compressor curve.
//
// Below Threshold-Knee samples pass unchanged, above Threshold+Knee the excess
// over Threshold is scaled by Ratio, and inside the knee the effective ratio
// moves from 1 to Ratio along a smoothstep so the slope is continuous at both
// knee edges.
type SoftKnee struct {
	Threshold float32
	Ratio     float32
	Knee      float32
}

// DefaultSoftKnee returns the curve used by the engine
func DefaultSoftKnee() SoftKnee {
	return SoftKnee{
		Threshold: 0.7,
		Ratio:     0.3,
		Knee:      0.1,
	}
}

// Process applies the curve to one sample
func (c SoftKnee) Process(x float32) float32 {
	mag := x
	sign := float32(1)
	if x < 0 {
		mag = -x
		sign = -1
	}

	lower := c.Threshold - c.Knee
	upper := c.Threshold + c.Knee

	switch {
	case mag <= lower:
		return x
	case mag >= upper:
		return sign * (c.Threshold + (mag-c.Threshold)*c.Ratio)
	default:
		k := (mag - lower) / (2 * c.Knee)
		smooth := k * k * (3 - 2*k)
		ratio := 1 - smooth*(1-c.Ratio)
		return sign * (c.Threshold + (mag-c.Threshold)*ratio)
	}
}
