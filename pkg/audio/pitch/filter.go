// ABOUTME: Fixed-coefficient filters used by the pitch engine
// ABOUTME: Two-stage one-pole low-pass and one-pole DC blocker
package pitch

// denormalFloor is the magnitude below which filter state is flushed to zero.
const denormalFloor = 1e-30

// LowPass2 is two cascaded one-pole low-pass stages used as an anti-aliasing filter
type LowPass2 struct {
	s1, s2 float32
}

// Process filters one sample
func (f *LowPass2) Process(x float32) float32 {
	f.s1 = flush(f.s1*0.85 + x*0.15)
	f.s2 = flush(f.s2*0.9 + f.s1*0.1)
	return f.s2
}

// Reset clears filter state
func (f *LowPass2) Reset() {
	f.s1, f.s2 = 0, 0
}

// DCBlocker removes constant offset: y = x - x[n-1] + 0.995*y[n-1]
type DCBlocker struct {
	x1, y1 float32
}

// dcPole is the DC blocker feedback coefficient
const dcPole = 0.995

// Process filters one sample
func (d *DCBlocker) Process(x float32) float32 {
	y := flush(x - d.x1 + dcPole*d.y1)
	d.x1 = x
	d.y1 = y
	return y
}

// Reset clears filter state
func (d *DCBlocker) Reset() {
	d.x1, d.y1 = 0, 0
}

func flush(x float32) float32 {
	if x > -denormalFloor && x < denormalFloor {
		return 0
	}
	return x
}
