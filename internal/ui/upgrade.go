package ui

import (
	"context"
	"math/rand"
	"sync"

	"kazikapp/internal/api"
	"kazikapp/internal/logging"
)

// Wizard steps.
const (
	StepInventory = "inventory"
	StepTarget    = "target"
)

// UpgradeController drives the two-step upgrade wizard: pick a source item,
// pick a target, spin the wheel.
type UpgradeController struct {
	client *api.Client
	sink   Sink
	busy   *Busy
	rng    *rand.Rand

	mu       sync.Mutex
	step     string
	items    []api.Item
	selected string
	filter   int
	targets  []api.Target
	target   string
}

// NewUpgradeController wires the upgrade screen to the API client.
func NewUpgradeController(client *api.Client, sink Sink, busy *Busy, rng *rand.Rand) *UpgradeController {
	return &UpgradeController{client: client, sink: sink, busy: busy, rng: rng, step: StepInventory, filter: 75}
}

func (u *UpgradeController) ID() string { return ScreenUpgrade }

// Enter loads the inventory; the wizard starts over on every visit.
func (u *UpgradeController) Enter() {
	u.mu.Lock()
	u.step = StepInventory
	u.selected = ""
	u.target = ""
	u.targets = nil
	u.mu.Unlock()
	go u.loadInventory()
}

// Leave clears transient selection state.
func (u *UpgradeController) Leave() {
	u.mu.Lock()
	u.selected = ""
	u.target = ""
	u.mu.Unlock()
}

func (u *UpgradeController) loadInventory() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	items, err := u.client.UpgradeInventory(ctx, 0)
	if err != nil {
		logging.Debugf("upgrade: inventory: %v", err)
		u.sink.Toast(ErrorText(api.ErrorCode(err)))
		return
	}
	u.mu.Lock()
	u.items = items
	u.mu.Unlock()
	u.sink.Invalidate(ScreenUpgrade)
}

// Step reports which wizard page is showing.
func (u *UpgradeController) Step() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.step
}

// Items returns the loaded inventory.
func (u *UpgradeController) Items() []api.Item {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.items
}

// Targets returns the loaded target candidates.
func (u *UpgradeController) Targets() []api.Target {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.targets
}

// Selected returns the chosen source item id, or "".
func (u *UpgradeController) Selected() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected
}

// Target returns the chosen target file, or "".
func (u *UpgradeController) Target() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.target
}

// Select picks a source item. Only one item may be selected; picking
// another replaces the previous choice, picking the same one clears it.
// Changing the selection sends the wizard back to the inventory step and
// drops any chosen target.
func (u *UpgradeController) Select(itemID string) {
	u.mu.Lock()
	if u.selected == itemID {
		u.selected = ""
	} else {
		u.selected = itemID
	}
	u.step = StepInventory
	u.target = ""
	u.targets = nil
	u.mu.Unlock()
	u.sink.Invalidate(ScreenUpgrade)
}

// Next advances to the target step, loading candidates for the selection.
func (u *UpgradeController) Next(ctx context.Context) error {
	u.mu.Lock()
	selected := u.selected
	filter := u.filter
	u.mu.Unlock()
	if selected == "" {
		u.sink.Toast("Сначала выберите предмет")
		return nil
	}
	result, err := u.client.UpgradeTargets(ctx, []string{selected}, filter)
	if err != nil {
		u.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	u.mu.Lock()
	u.step = StepTarget
	u.filter = result.Filter
	u.targets = result.Targets
	u.target = ""
	u.mu.Unlock()
	u.sink.Invalidate(ScreenUpgrade)
	return nil
}

// SetFilter switches the minimum-chance filter and reloads the candidates.
func (u *UpgradeController) SetFilter(ctx context.Context, filter int) error {
	u.mu.Lock()
	u.filter = filter
	step := u.step
	u.mu.Unlock()
	if step != StepTarget {
		return nil
	}
	return u.Next(ctx)
}

// Choose picks the upgrade target.
func (u *UpgradeController) Choose(targetFile string) {
	u.mu.Lock()
	u.target = targetFile
	u.mu.Unlock()
	u.sink.Invalidate(ScreenUpgrade)
}

// Back returns to the inventory step, dropping the chosen target.
func (u *UpgradeController) Back() {
	u.mu.Lock()
	u.step = StepInventory
	u.target = ""
	u.targets = nil
	u.mu.Unlock()
	u.sink.Invalidate(ScreenUpgrade)
}

// RollOutcome is what the renderer needs to animate one wheel spin.
type RollOutcome struct {
	Plan   SpinPlan
	Result *api.RollResult
}

// Roll consumes the selected item and spins the wheel. The wheel angle is
// picked after the server verdict so the needle lands on the matching side.
func (u *UpgradeController) Roll(ctx context.Context) (*RollOutcome, error) {
	if !u.busy.TryAcquire() {
		return nil, ErrBusy
	}
	defer u.busy.Release()

	u.mu.Lock()
	selected := u.selected
	target := u.target
	u.mu.Unlock()
	if selected == "" || target == "" {
		u.sink.Toast("Выберите предмет и цель")
		return nil, nil
	}
	result, err := u.client.UpgradeRoll(ctx, []string{selected}, target)
	if err != nil {
		u.sink.Toast(ErrorText(api.ErrorCode(err)))
		return nil, err
	}

	angle := PickAngle(u.rng, result.Chance, result.Success)
	outcome := &RollOutcome{Plan: NewSpinPlan(u.rng, angle), Result: result}

	// The consumed item is gone either way; restart the wizard.
	u.mu.Lock()
	u.step = StepInventory
	u.selected = ""
	u.target = ""
	u.targets = nil
	u.mu.Unlock()
	go u.loadInventory()

	if result.Success {
		u.sink.Dialog("Апгрейд удался!", result.Reward.Name+" ("+result.Reward.RarityLabel+")")
	} else {
		u.sink.Toast("Не повезло, предмет сгорел")
	}
	return outcome, nil
}
