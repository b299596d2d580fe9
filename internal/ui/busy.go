package ui

import "sync"

// Busy is the global in-flight flag. Controllers acquire it before firing a
// mutating request so a second tap cannot start a parallel one.
type Busy struct {
	mu   sync.Mutex
	held bool
}

// TryAcquire takes the flag, reporting false when something else holds it.
func (b *Busy) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.held {
		return false
	}
	b.held = true
	return true
}

// Release returns the flag.
func (b *Busy) Release() {
	b.mu.Lock()
	b.held = false
	b.mu.Unlock()
}
