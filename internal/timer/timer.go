// Package timer provides cancellable countdown handles scoped to an assessment phase.
package timer

import (
	"sync"
	"time"
)

// Handle is a single scheduled callback. Stopping it guarantees the callback does not run
// unless it had already started.
type Handle struct {
	mu       sync.Mutex
	t        *time.Timer
	deadline time.Time
	done     bool
}

// Stop cancels the callback. Returns false if it already fired or was stopped.
func (h *Handle) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	h.t.Stop()
	return true
}

// Active reports whether the callback is still pending
func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.done
}

// Deadline returns the time the callback is scheduled for
func (h *Handle) Deadline() time.Time {
	return h.deadline
}

// Remaining returns the time left before the callback fires, never negative
func (h *Handle) Remaining(now time.Time) time.Duration {
	if !h.Active() {
		return 0
	}
	if left := h.deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// fire marks the handle as done and reports whether the callback should run
func (h *Handle) fire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	return true
}

// Group owns the timers of one phase. StopAll cancels every pending handle and
// invalidates callbacks that already fired but have not yet run.
type Group struct {
	mu      sync.Mutex
	handles []*Handle
	epoch   uint64
}

// NewGroup creates an empty timer group
func NewGroup() *Group {
	return &Group{}
}

// After schedules fn to run once after d
func (g *Group) After(d time.Duration, fn func()) *Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	epoch := g.epoch
	h := &Handle{deadline: time.Now().Add(d)}

	h.mu.Lock()
	h.t = time.AfterFunc(d, func() {
		if !h.fire() {
			return
		}
		if !g.current(epoch) {
			return
		}
		fn()
	})
	h.mu.Unlock()

	g.handles = append(g.handles, h)
	return h
}

// StopAll cancels all pending handles and returns how many were still pending
func (g *Group) StopAll() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch++
	stopped := 0
	for _, h := range g.handles {
		if h.Stop() {
			stopped++
		}
	}
	g.handles = nil
	return stopped
}

// Pending returns the number of handles that have not fired or been stopped
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending := 0
	for _, h := range g.handles {
		if h.Active() {
			pending++
		}
	}
	return pending
}

func (g *Group) current(epoch uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch == epoch
}
