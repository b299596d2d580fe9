package ui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"kazikapp/internal/api"
	"kazikapp/internal/logging"
)

// ErrBusy is returned when another request already holds the busy flag.
var ErrBusy = errors.New("ui: request already in flight")

const requestTimeout = 10 * time.Second

// SlotController drives the slot machine screen: session polling, the spin
// and buy actions and the reel animation plan.
type SlotController struct {
	client *api.Client
	sink   Sink
	busy   *Busy
	rng    *rand.Rand

	mu        sync.Mutex
	state     *api.State
	resetLeft int
	poller    *Poller
	countdown *Countdown
}

// NewSlotController wires the slot screen to the API client.
func NewSlotController(client *api.Client, sink Sink, busy *Busy, rng *rand.Rand) *SlotController {
	return &SlotController{client: client, sink: sink, busy: busy, rng: rng}
}

func (s *SlotController) ID() string { return ScreenSlot }

// Enter starts the session poll.
func (s *SlotController) Enter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poller = NewPoller(StatePollInterval, s.refresh)
}

// Leave stops the poll and the reset countdown.
func (s *SlotController) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poller.Stop()
	s.poller = nil
	s.countdown.Stop()
	s.countdown = nil
}

func (s *SlotController) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	state, err := s.client.State(ctx)
	if err != nil {
		logging.Debugf("slot: refresh: %v", err)
		return
	}
	s.applyState(state)
}

// applyState swaps in a fresh snapshot and restarts the free-spin reset
// countdown from its value.
func (s *SlotController) applyState(state *api.State) {
	s.mu.Lock()
	s.state = state
	s.resetLeft = state.Kazik.ResetSeconds
	s.countdown.Stop()
	if state.Kazik.ResetSeconds > 0 {
		s.countdown = NewCountdown(state.Kazik.ResetSeconds, func(remaining int) {
			s.mu.Lock()
			s.resetLeft = remaining
			s.mu.Unlock()
			s.sink.Invalidate(ScreenSlot)
		})
	} else {
		s.countdown = nil
	}
	s.mu.Unlock()
	s.sink.Invalidate(ScreenSlot)
}

// State returns the last session snapshot, or nil before the first poll.
func (s *SlotController) State() *api.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ResetLeft is the seconds remaining until the daily free spins reset.
func (s *SlotController) ResetLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLeft
}

// SpinOutcome is what the renderer needs to animate one spin.
type SpinOutcome struct {
	Plan   ReelPlan
	Result *api.SpinResult
}

// Spin performs one spin. The server result arrives before the animation
// starts, so the reels always land on the authoritative digits.
func (s *SlotController) Spin(ctx context.Context) (*SpinOutcome, error) {
	if !s.busy.TryAcquire() {
		return nil, ErrBusy
	}
	defer s.busy.Release()

	result, err := s.client.Spin(ctx)
	if err != nil {
		s.spinError(err)
		return nil, err
	}
	s.applyState(&result.State)

	pool := result.State.Kazik.Digits
	plan := NewReelPlan(s.rng, result.Digits, pool)
	if result.Win {
		s.announceReward(result.Reward)
	}
	return &SpinOutcome{Plan: plan, Result: result}, nil
}

func (s *SlotController) spinError(err error) {
	code := api.ErrorCode(err)
	if code == "no_stars" {
		s.sink.Dialog("Не хватает звёзд", "Пополните баланс звёзд, чтобы крутить дальше")
		return
	}
	s.sink.Toast(ErrorText(code))
}

func (s *SlotController) announceReward(reward *api.Reward) {
	if reward == nil {
		return
	}
	switch reward.Status {
	case "ok":
		s.sink.Dialog("Поздравляем!", fmt.Sprintf("Вы выиграли: %s (%s)", reward.Name, reward.RarityLabel))
	case "save_failed":
		s.sink.Toast("Выигрыш есть, но приз не удалось сохранить")
	default:
		s.sink.Toast("Джекпот! Но подходящей карточки не нашлось")
	}
}

// Buy purchases a spin pack for stars.
func (s *SlotController) Buy(ctx context.Context, spins, cost int) error {
	if !s.busy.TryAcquire() {
		return ErrBusy
	}
	defer s.busy.Release()

	result, err := s.client.Buy(ctx, spins, cost)
	if err != nil {
		s.spinError(err)
		return err
	}
	s.applyState(&result.State)
	s.sink.Toast(result.Message)
	return nil
}

// TopUp credits purchased stars.
func (s *SlotController) TopUp(ctx context.Context, amount int) error {
	if !s.busy.TryAcquire() {
		return ErrBusy
	}
	defer s.busy.Release()

	state, err := s.client.OpenStars(ctx, amount)
	if err != nil {
		s.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	s.applyState(state)
	return nil
}
