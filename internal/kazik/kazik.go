package kazik

import (
	"math/rand"
	"time"
)

// Slot machine economy constants. The backend is authoritative for all of
// them; the client only mirrors what /state reports.
const (
	StarSpinCost        = 1
	FreeSpinCooldownSec = 86400
	FreeSpinsFree       = 5
	FreeSpinsVIP        = 10
	PaidSpinsForBonus   = 5
	BonusSpinsPerBatch  = 1
	GuaranteeSpins      = 0
	WinChance           = 0.01
	VIPWinChance        = 0.015
)

// Digits are the symbols shown on the three reels.
var Digits = []int{1, 2, 3}

// winWeights biases which digit lands when a spin is declared a win.
var winWeights = map[int]float64{1: 0.6, 2: 0.3, 3: 0.1}

// BuyPack is a purchasable batch of bonus spins.
type BuyPack struct {
	Spins int `json:"spins"`
	Cost  int `json:"cost"`
}

// BuyPacks is the fixed price list for bonus spins.
var BuyPacks = []BuyPack{
	{Spins: 1, Cost: 1},
	{Spins: 5, Cost: 4},
	{Spins: 10, Cost: 7},
	{Spins: 15, Cost: 11},
}

// ValidPack reports whether the spins/cost pair matches a listed pack.
func ValidPack(spins, cost int) bool {
	for _, pack := range BuyPacks {
		if pack.Spins == spins && pack.Cost == cost {
			return true
		}
	}
	return false
}

// RollDigits rolls the three reels. With probability winChance all reels show
// the same digit, picked by weight; otherwise the digits are independent and
// re-rolled until they do not accidentally form a triple.
func RollDigits(rng *rand.Rand, winChance float64) [3]int {
	if rng.Float64() < winChance {
		winner := pickWeighted(rng)
		return [3]int{winner, winner, winner}
	}
	var digits [3]int
	for {
		for i := range digits {
			digits[i] = Digits[rng.Intn(len(Digits))]
		}
		if !(digits[0] == digits[1] && digits[1] == digits[2]) {
			return digits
		}
	}
}

func pickWeighted(rng *rand.Rand) int {
	total := 0.0
	for _, digit := range Digits {
		total += weightOf(digit)
	}
	roll := rng.Float64() * total
	for _, digit := range Digits {
		roll -= weightOf(digit)
		if roll < 0 {
			return digit
		}
	}
	return Digits[len(Digits)-1]
}

func weightOf(digit int) float64 {
	if w, ok := winWeights[digit]; ok {
		return w
	}
	return 1.0
}

// WinDigit returns the digit of a winning triple, if any.
func WinDigit(digits [3]int) (int, bool) {
	if digits[0] == digits[1] && digits[1] == digits[2] {
		return digits[0], true
	}
	return 0, false
}

// RewardRarities maps a winning digit to the rarity pool the reward card is
// drawn from.
func RewardRarities(digit int) []string {
	switch digit {
	case 1:
		return []string{"dno", "common", "uncommon"}
	case 2:
		return []string{"uncommon", "rare", "epic"}
	default:
		return []string{"legendary", "platinum", "meme"}
	}
}

// Session tracks one user's spin resources and reset bookkeeping.
type Session struct {
	DailyUsed      int
	BonusSpins     int
	FreeRolls      int
	PaidCounter    int
	NoWinStreak    int
	ResetStartedAt time.Time
	VIP            bool
}

// FreeLimit returns the daily free spin allowance.
func (s *Session) FreeLimit() int {
	if s.VIP {
		return FreeSpinsVIP
	}
	return FreeSpinsFree
}

// ShouldReset reports whether the daily free counter is due for a reset.
func (s *Session) ShouldReset(now time.Time) bool {
	if s.ResetStartedAt.IsZero() {
		return s.DailyUsed > 0
	}
	return now.Sub(s.ResetStartedAt) >= FreeSpinCooldownSec*time.Second
}

// MaybeReset applies a pending daily reset.
func (s *Session) MaybeReset(now time.Time) {
	if s.ShouldReset(now) {
		s.DailyUsed = 0
		s.ResetStartedAt = time.Time{}
	}
}

// ResetRemaining returns the seconds until free spins replenish; 0 when no
// countdown is running.
func (s *Session) ResetRemaining(now time.Time) int {
	if s.ResetStartedAt.IsZero() {
		return 0
	}
	remaining := FreeSpinCooldownSec - int(now.Sub(s.ResetStartedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DailyFreeLeft returns how many daily free spins remain.
func (s *Session) DailyFreeLeft(now time.Time) int {
	used := s.DailyUsed
	if s.ShouldReset(now) {
		used = 0
	}
	left := s.FreeLimit() - used
	if left < 0 {
		return 0
	}
	return left
}

// SpendFree consumes one free spin resource in priority order: bonus spins,
// then one-off free rolls, then the daily allowance. Returns false when the
// spin has to be paid with stars.
func (s *Session) SpendFree(now time.Time) bool {
	s.MaybeReset(now)
	switch {
	case s.BonusSpins > 0:
		s.BonusSpins--
	case s.FreeRolls > 0:
		s.FreeRolls--
	case s.DailyUsed < s.FreeLimit():
		s.DailyUsed++
	default:
		return false
	}
	if s.VIP {
		if s.ResetStartedAt.IsZero() {
			s.ResetStartedAt = now
		}
	} else {
		s.ResetStartedAt = now
	}
	return true
}

// RecordPaidSpin advances the loyalty counter and converts full batches of
// paid spins into bonus spins.
func (s *Session) RecordPaidSpin() {
	s.PaidCounter++
	if s.PaidCounter >= PaidSpinsForBonus {
		batches := s.PaidCounter / PaidSpinsForBonus
		s.PaidCounter %= PaidSpinsForBonus
		s.BonusSpins += batches * BonusSpinsPerBatch
	}
}

// SpinWinChance returns the effective win probability, honoring the win
// guarantee streak when configured.
func (s *Session) SpinWinChance() float64 {
	base := WinChance
	if s.VIP {
		base = VIPWinChance
	}
	if GuaranteeSpins > 0 && s.NoWinStreak >= GuaranteeSpins-1 {
		return 1.0
	}
	return base
}
