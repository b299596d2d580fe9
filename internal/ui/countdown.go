package ui

import (
	"sync"
	"time"
)

// Countdown ticks a remaining-seconds callback once a second until it hits
// zero or is stopped.
type Countdown struct {
	stop chan struct{}
	once sync.Once
}

// NewCountdown starts a countdown from seconds. The callback fires
// immediately with the starting value and then every second; zero is the
// last call.
func NewCountdown(seconds int, update func(remaining int)) *Countdown {
	c := &Countdown{stop: make(chan struct{})}
	go func() {
		remaining := seconds
		update(remaining)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for remaining > 0 {
			select {
			case <-ticker.C:
				remaining--
				update(remaining)
			case <-c.stop:
				return
			}
		}
	}()
	return c
}

// Stop halts the countdown. Safe to call more than once.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

// RemainingSeconds converts a turn deadline into whole seconds left, never
// negative.
func RemainingSeconds(startedAt int64, timeoutSec int, now time.Time) int {
	if startedAt <= 0 {
		return 0
	}
	left := startedAt + int64(timeoutSec) - now.Unix()
	if left < 0 {
		return 0
	}
	return int(left)
}
