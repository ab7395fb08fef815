// ABOUTME: Cubic interpolation helpers
// ABOUTME: Catmull-Rom 4-point interpolation and fractional ring reads
package pitch

// CatmullRom interpolates between y0 and y1 at t in [0,1) using neighbours ym1 and y2.
func CatmullRom(t, ym1, y0, y1, y2 float32) float32 {
	a := -0.5*ym1 + 1.5*y0 - 1.5*y1 + 0.5*y2
	b := ym1 - 2.5*y0 + 2*y1 - 0.5*y2
	c := -0.5*ym1 + 0.5*y1
	return ((a*t+b)*t+c)*t + y0
}

// readCubic reads ring at fractional position pos, wrapping the four taps.
func readCubic(ring []float32, pos float32) float32 {
	n := len(ring)
	i := int(pos)
	frac := pos - float32(i)
	i %= n

	return CatmullRom(frac,
		ring[(i+n-1)%n],
		ring[i],
		ring[(i+1)%n],
		ring[(i+2)%n],
	)
}

// wrapCursor folds pos back into [0, n).
func wrapCursor(pos float32, n int) float32 {
	length := float32(n)
	for pos >= length {
		pos -= length
	}
	for pos < 0 {
		pos += length
	}
	return pos
}
