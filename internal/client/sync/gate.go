package sync

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when a pass is refused because another drain or
// reconciliation currently holds the gate.
var ErrInFlight = errors.New("sync already in progress")

// Gate enforces the single-flight discipline shared by the scheduler and
// the reconciler: at most one of them touches the queue and the note store
// at a time.
type Gate struct {
	mu      sync.Mutex
	busy    bool
	pending bool
}

func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire takes the gate if it is free. It never blocks.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// MarkPending records that a refused caller wants a follow-up pass once the
// current holder releases the gate.
func (g *Gate) MarkPending() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = true
}

// Release frees the gate and reports whether a follow-up pass was requested
// while it was held. The pending flag is cleared.
func (g *Gate) Release() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	rerun := g.pending
	g.pending = false
	return rerun
}
