// ABOUTME: Bounded hand-off between the capture and render callbacks
// ABOUTME: Single-producer single-consumer queue with a preallocated block pool
package session

// Block is one downmixed capture period
type Block struct {
	Samples []float32
}

// Bridge carries blocks from capture to render. Both ends are non-blocking:
// a full queue rejects the newest block and an empty queue reports false.
type Bridge struct {
	ready chan *Block
	free  chan *Block
}

// NewBridge creates a bridge holding up to capacity blocks of blockFrames samples.
// The pool has two spare blocks: one being filled by capture and one being
// drained by render.
func NewBridge(capacity, blockFrames int) *Bridge {
	pool := capacity + 2
	b := &Bridge{
		ready: make(chan *Block, capacity),
		free:  make(chan *Block, pool),
	}
	for i := 0; i < pool; i++ {
		b.free <- &Block{Samples: make([]float32, 0, blockFrames)}
	}
	return b
}

// Acquire takes an empty block from the pool
func (b *Bridge) Acquire() (*Block, bool) {
	select {
	case blk := <-b.free:
		blk.Samples = blk.Samples[:0]
		return blk, true
	default:
		return nil, false
	}
}

// Send enqueues blk. On a full queue the block goes back to the pool and
// Send returns false.
func (b *Bridge) Send(blk *Block) bool {
	select {
	case b.ready <- blk:
		return true
	default:
		b.Release(blk)
		return false
	}
}

// Receive dequeues the oldest block if one is ready
func (b *Bridge) Receive() (*Block, bool) {
	select {
	case blk := <-b.ready:
		return blk, true
	default:
		return nil, false
	}
}

// Release returns a block to the pool
func (b *Bridge) Release(blk *Block) {
	select {
	case b.free <- blk:
	default:
	}
}

// Len returns the number of queued blocks
func (b *Bridge) Len() int {
	return len(b.ready)
}

// Cap returns the queue capacity
func (b *Bridge) Cap() int {
	return cap(b.ready)
}
