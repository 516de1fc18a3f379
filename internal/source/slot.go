package source

import (
	"sync"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// Slot is a single-slot latest-wins frame buffer between a producing
// source goroutine and the processing loop. When the consumer falls
// behind, Publish overwrites the unconsumed frame and counts a drop:
// the consumer always sees the newest frame, never a backlog.
type Slot struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  *vision.FrameSample
	drops  uint64
	closed bool
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	s := &Slot{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Publish places a frame in the slot, overwriting any unconsumed frame.
// Publishing to a closed slot is a no-op.
func (s *Slot) Publish(f vision.FrameSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.frame != nil {
		s.drops++
	}
	s.frame = &f
	s.cond.Signal()
}

// Next blocks until a frame is available or the slot is closed. The second
// return is false once the slot is closed and drained.
func (s *Slot) Next() (vision.FrameSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.frame == nil {
		if s.closed {
			return vision.FrameSample{}, false
		}
		s.cond.Wait()
	}
	f := *s.frame
	s.frame = nil
	return f, true
}

// Close wakes any blocked consumer. A frame already in the slot is still
// delivered before Next reports closed.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}

// Drops returns the number of frames overwritten before consumption.
func (s *Slot) Drops() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drops
}
