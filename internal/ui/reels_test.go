package ui

import (
	"math/rand"
	"testing"
	"time"
)

func TestNewReelPlanFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	digits := [3]int{3, 3, 3}
	plan := NewReelPlan(rng, digits, []int{1, 2, 3})
	for reel, frames := range plan.Frames {
		wantTicks := int(ReelDurations[reel]/ReelTick) + 1
		if len(frames) != wantTicks {
			t.Fatalf("reel %d has %d frames, want %d", reel, len(frames), wantTicks)
		}
		if frames[len(frames)-1] != digits[reel] {
			t.Fatalf("reel %d does not lock on the server digit", reel)
		}
		for _, digit := range frames {
			if digit < 1 || digit > 3 {
				t.Fatalf("reel %d shows digit %d outside the pool", reel, digit)
			}
		}
	}
	if plan.Final() != digits {
		t.Fatalf("Final() = %v, want %v", plan.Final(), digits)
	}
}

func TestReelsStopLeftToRight(t *testing.T) {
	if !(ReelDurations[0] < ReelDurations[1] && ReelDurations[1] < ReelDurations[2]) {
		t.Fatalf("reels must stop left to right: %v", ReelDurations)
	}
}

func TestReelPlanDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	plan := NewReelPlan(rng, [3]int{1, 2, 3}, nil)
	if plan.Duration() != 1000*time.Millisecond {
		t.Fatalf("duration should match the slowest reel, got %v", plan.Duration())
	}
}
