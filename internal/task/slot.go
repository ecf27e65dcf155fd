// Package task runs per-widget background work. A Slot keeps at most one
// job in flight and hands its result back to the owner's serial stream.
package task

import (
	"context"
	"sync"
)

// Executor starts work somewhere.
type Executor interface {
	Go(fn func())
}

type goExecutor struct{}

func (goExecutor) Go(fn func()) { go fn() }

type inlineExecutor struct{}

func (inlineExecutor) Go(fn func()) { fn() }

var (
	// Background runs each job on its own goroutine.
	Background Executor = goExecutor{}
	// Inline runs jobs on the caller, used in tests and single-threaded hosts.
	Inline Executor = inlineExecutor{}
)

// Poster marshals a function onto the owner's serial stream.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func())

func (p PosterFunc) Post(fn func()) { p(fn) }

// Direct runs posted functions immediately.
var Direct Poster = PosterFunc(func(fn func()) { fn() })

// Slot serializes the jobs of one widget. Starting a job cancels the
// previous one; a job only starts after its predecessor returned, and its
// result is applied only if no newer job was started meanwhile.
type Slot struct {
	exec Executor
	post Poster

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSlot creates a slot. Nil arguments fall back to Inline and Direct.
func NewSlot(exec Executor, post Poster) *Slot {
	if exec == nil {
		exec = Inline
	}
	if post == nil {
		post = Direct
	}
	return &Slot{exec: exec, post: post}
}

// Run starts work. work returns the function to apply on the owner stream,
// or nil when there is nothing to apply.
func (s *Slot) Run(work func(ctx context.Context) func()) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	prev := s.done
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	s.exec.Go(func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		apply := work(ctx)
		if apply == nil || ctx.Err() != nil {
			return
		}
		s.post.Post(func() {
			if !s.current(gen) || ctx.Err() != nil {
				return
			}
			apply()
		})
	})
}

func (s *Slot) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// Pending reports whether a started job has not finished running yet.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Wait blocks until the latest job returned. Its result may still be
// queued on the poster.
func (s *Slot) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Cancel stops the current job and discards any result not yet applied.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
