// ABOUTME: Lock-free pitch ratio cell
// ABOUTME: Written by the render path, read per sample by the pitch engine
package control

import (
	"math"
	"sync/atomic"
)

// PitchRef holds a float32 ratio as its bit pattern
type PitchRef struct {
	bits atomic.Uint32
}

// NewPitchRef creates a ref holding ratio
func NewPitchRef(ratio float32) *PitchRef {
	r := &PitchRef{}
	r.Store(ratio)
	return r
}

// Store publishes ratio unclamped; readers clamp
func (r *PitchRef) Store(ratio float32) {
	r.bits.Store(math.Float32bits(ratio))
}

// LoadPitch returns the stored ratio. It never blocks, so ok is always true.
func (r *PitchRef) LoadPitch() (float32, bool) {
	return math.Float32frombits(r.bits.Load()), true
}
