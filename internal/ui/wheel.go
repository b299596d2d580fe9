package ui

import (
	"math/rand"
	"time"
)

// Wheel geometry: the win zone starts at the pointer and spans the success
// chance as a fraction of the full circle. A small margin keeps the needle
// from landing visually on the boundary.
const (
	wheelMarginMin   = 2.0
	wheelMarginMax   = 6.0
	wheelMarginRatio = 0.08
)

func wheelMargin(zone float64) float64 {
	margin := zone * wheelMarginRatio
	if margin < wheelMarginMin {
		margin = wheelMarginMin
	}
	if margin > wheelMarginMax {
		margin = wheelMarginMax
	}
	return margin
}

// PickAngle chooses the needle's final angle in degrees for an upgrade
// outcome. chancePct is the success chance in whole percent; the win zone is
// [0, chance*3.6). Winning angles land inside the zone, losing angles
// outside, both clear of the boundary by the margin.
func PickAngle(rng *rand.Rand, chancePct int, win bool) float64 {
	zone := float64(chancePct) * 3.6
	margin := wheelMargin(zone)
	if win {
		if zone <= 2*margin {
			return zone / 2
		}
		return margin + rng.Float64()*(zone-2*margin)
	}
	lose := 360 - zone
	if lose <= 2*margin {
		return zone + lose/2
	}
	return zone + margin + rng.Float64()*(lose-2*margin)
}

// SpinPlan is a precomputed wheel animation: at least two full rotations
// plus up to a turn and a half extra, ending on the target angle.
type SpinPlan struct {
	TargetAngle  float64
	TotalDegrees float64
	Duration     time.Duration
}

// NewSpinPlan builds the wheel animation ending on angle.
func NewSpinPlan(rng *rand.Rand, angle float64) SpinPlan {
	extra := rng.Float64() * 540
	return SpinPlan{
		TargetAngle:  angle,
		TotalDegrees: 720 + extra + angle,
		Duration:     2600*time.Millisecond + time.Duration(rng.Intn(100))*time.Millisecond,
	}
}
