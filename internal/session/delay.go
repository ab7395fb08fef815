// ABOUTME: Bounded FIFO used as the output delay line
// ABOUTME: Fixed ring that drops the oldest sample when pushed while full
package session

// DelayLine is a fixed-capacity sample FIFO
type DelayLine struct {
	buf       []float32
	head      int // next sample to pop
	size      int
	overflows uint64
}

// NewDelayLine creates a line holding at most capacity samples
func NewDelayLine(capacity int) *DelayLine {
	if capacity < 1 {
		capacity = 1
	}
	return &DelayLine{buf: make([]float32, capacity)}
}

// Push appends x, discarding the oldest sample if the line is full
func (d *DelayLine) Push(x float32) {
	if d.size == len(d.buf) {
		d.head = (d.head + 1) % len(d.buf)
		d.size--
		d.overflows++
	}
	d.buf[(d.head+d.size)%len(d.buf)] = x
	d.size++
}

// Pop removes the oldest sample
func (d *DelayLine) Pop() (float32, bool) {
	if d.size == 0 {
		return 0, false
	}
	x := d.buf[d.head]
	d.head = (d.head + 1) % len(d.buf)
	d.size--
	return x, true
}

// Next pops the oldest sample once more than delay samples are held,
// otherwise returns silence
func (d *DelayLine) Next(delay int) float32 {
	if d.size > delay {
		x, _ := d.Pop()
		return x
	}
	return 0
}

// Len returns the number of held samples
func (d *DelayLine) Len() int {
	return d.size
}

// Cap returns the capacity
func (d *DelayLine) Cap() int {
	return len(d.buf)
}

// Overflows returns how many samples were discarded by Push
func (d *DelayLine) Overflows() uint64 {
	return d.overflows
}

// Reset empties the line
func (d *DelayLine) Reset() {
	d.head = 0
	d.size = 0
	clear(d.buf)
}
