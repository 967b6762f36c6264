package domain

import (
	"sync"
	"time"
)

// Clock supplies the ledger time. Every operation reads it at most once, so
// all time comparisons within one operation agree.
type Clock func() time.Time

// Ledger totally orders state transitions across the user registry, the
// fundraiser registry and every fundraiser. One operation runs at a time;
// each either fully applies or fails with no partial effect, matching a host
// that executes calls against shared state serially.
type Ledger struct {
	mu  sync.Mutex
	now Clock
}

// NewLedger creates a ledger using the given clock, or wall time when nil.
func NewLedger(now Clock) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

func (l *Ledger) lock() func() {
	l.mu.Lock()
	return l.mu.Unlock
}
