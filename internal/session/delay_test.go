// ABOUTME: Tests for the delay line and bridge primitives
// ABOUTME: FIFO order, overflow accounting and pool reuse
package session

import "testing"

func TestDelayLineFIFO(t *testing.T) {
	d := NewDelayLine(4)

	for i := 1; i <= 3; i++ {
		d.Push(float32(i))
	}
	for want := 1; want <= 3; want++ {
		got, ok := d.Pop()
		if !ok || got != float32(want) {
			t.Errorf("expected %d, got %v (ok=%v)", want, got, ok)
		}
	}
	if _, ok := d.Pop(); ok {
		t.Error("expected empty line")
	}
}

func TestDelayLineOverflow(t *testing.T) {
	d := NewDelayLine(3)

	for i := 1; i <= 5; i++ {
		d.Push(float32(i))
	}

	if d.Len() != 3 {
		t.Errorf("expected length capped at 3, got %d", d.Len())
	}
	if d.Overflows() != 2 {
		t.Errorf("expected 2 overflows, got %d", d.Overflows())
	}
	for want := 3; want <= 5; want++ {
		if got, _ := d.Pop(); got != float32(want) {
			t.Errorf("expected %d, got %v", want, got)
		}
	}
}

func TestDelayLineNext(t *testing.T) {
	d := NewDelayLine(8)

	var out []float32
	for i := 1; i <= 5; i++ {
		d.Push(float32(i))
		out = append(out, d.Next(2))
	}

	want := []float32{0, 0, 1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], out[i])
		}
	}

	d.Reset()
	if d.Len() != 0 || d.Next(0) != 0 {
		t.Error("expected Reset to empty the line")
	}
}

func TestBridgePoolReuse(t *testing.T) {
	b := NewBridge(2, 16)

	var blocks []*Block
	for {
		blk, ok := b.Acquire()
		if !ok {
			break
		}
		blocks = append(blocks, blk)
	}
	if len(blocks) != 4 {
		t.Fatalf("expected a pool of capacity+2 blocks, got %d", len(blocks))
	}

	blocks[0].Samples = append(blocks[0].Samples, 1, 2, 3)
	b.Release(blocks[0])

	blk, ok := b.Acquire()
	if !ok {
		t.Fatal("expected released block to be reusable")
	}
	if blk != blocks[0] || len(blk.Samples) != 0 || cap(blk.Samples) != 16 {
		t.Error("expected the same block back, emptied, with its capacity intact")
	}
}

func TestBridgeSendFullReturnsBlockToPool(t *testing.T) {
	b := NewBridge(1, 4)

	first, _ := b.Acquire()
	second, _ := b.Acquire()
	if !b.Send(first) {
		t.Fatal("expected first send to succeed")
	}
	if b.Send(second) {
		t.Fatal("expected second send to fail on a full queue")
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 queued block, got %d", b.Len())
	}

	acquired := 0
	for {
		if _, ok := b.Acquire(); !ok {
			break
		}
		acquired++
	}
	if acquired != 2 {
		t.Errorf("expected rejected block back in the pool (2 free), got %d", acquired)
	}
}
