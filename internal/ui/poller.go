package ui

import (
	"sync"
	"time"
)

// Poller runs a refresh function immediately and then on a fixed interval
// until stopped. Screens own one poller each and stop it on leave.
type Poller struct {
	stop chan struct{}
	once sync.Once
}

// NewPoller starts polling. The first tick fires right away so the screen
// has data before the first interval elapses.
func NewPoller(interval time.Duration, tick func()) *Poller {
	p := &Poller{stop: make(chan struct{})}
	go func() {
		tick()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick()
			case <-p.stop:
				return
			}
		}
	}()
	return p
}

// Stop halts the poller. Safe to call more than once.
func (p *Poller) Stop() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.stop) })
}
