package task

import (
	"context"
	"sync"
	"testing"
)

type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

func (q *queue) drain() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func TestInlineSlotAppliesImmediately(t *testing.T) {
	s := NewSlot(nil, nil)
	applied := 0
	s.Run(func(ctx context.Context) func() {
		return func() { applied++ }
	})
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
}

func TestNewerJobWins(t *testing.T) {
	q := &queue{}
	s := NewSlot(Inline, q)
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		s.Run(func(ctx context.Context) func() {
			return func() { got = append(got, i) }
		})
	}
	q.drain()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("applied %v, want only [3]", got)
	}
}

func TestCancelDiscardsQueuedResult(t *testing.T) {
	q := &queue{}
	s := NewSlot(Inline, q)
	applied := false
	s.Run(func(ctx context.Context) func() {
		return func() { applied = true }
	})
	s.Cancel()
	q.drain()
	if applied {
		t.Error("result applied after Cancel")
	}
}

func TestBackgroundJobsDoNotOverlap(t *testing.T) {
	q := &queue{}
	s := NewSlot(Background, q)
	var mu sync.Mutex
	running, maxRunning := 0, 0
	for i := 0; i < 20; i++ {
		s.Run(func(ctx context.Context) func() {
			mu.Lock()
			running++
			maxRunning = max(maxRunning, running)
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})
	}
	s.Wait()
	if maxRunning > 1 {
		t.Errorf("%d jobs ran concurrently, want at most 1", maxRunning)
	}
	if s.Pending() {
		t.Error("slot still pending after Wait")
	}
}
