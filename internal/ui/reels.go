package ui

import (
	"math/rand"
	"time"
)

// Reel animation timing: each reel flips through random digits on a fixed
// tick and locks its final digit after its own duration, left to right.
const ReelTick = 80 * time.Millisecond

// ReelDurations is how long each of the three reels keeps spinning.
var ReelDurations = [3]time.Duration{
	600 * time.Millisecond,
	800 * time.Millisecond,
	1000 * time.Millisecond,
}

// ReelPlan is a precomputed reel animation: per reel, the digit shown on
// every tick, the last frame being the server's final digit.
type ReelPlan struct {
	Frames [3][]int
}

// NewReelPlan builds the animation frames for a spin outcome. The digits
// argument is the authoritative server result.
func NewReelPlan(rng *rand.Rand, digits [3]int, pool []int) ReelPlan {
	if len(pool) == 0 {
		pool = []int{1, 2, 3}
	}
	var plan ReelPlan
	for reel := 0; reel < 3; reel++ {
		ticks := int(ReelDurations[reel] / ReelTick)
		frames := make([]int, 0, ticks+1)
		for i := 0; i < ticks; i++ {
			frames = append(frames, pool[rng.Intn(len(pool))])
		}
		frames = append(frames, digits[reel])
		plan.Frames[reel] = frames
	}
	return plan
}

// Duration is the total animation length, the slowest reel's run.
func (p ReelPlan) Duration() time.Duration {
	return ReelDurations[2]
}

// Final returns the locked digits, one per reel.
func (p ReelPlan) Final() [3]int {
	var digits [3]int
	for reel, frames := range p.Frames {
		if len(frames) > 0 {
			digits[reel] = frames[len(frames)-1]
		}
	}
	return digits
}
