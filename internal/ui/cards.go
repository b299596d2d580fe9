package ui

import (
	"context"
	"sync"

	"kazikapp/internal/api"
	"kazikapp/internal/cards"
	"kazikapp/internal/logging"
)

// CardsLobbyController drives the durak lobby list.
type CardsLobbyController struct {
	client    *api.Client
	sink      Sink
	busy      *Busy
	enterGame func(lobbyID string)

	mu      sync.Mutex
	lobbies []api.Lobby
	current string
	poller  *Poller
}

// NewCardsLobbyController wires the lobby list; enterGame is called with the
// lobby id when the user should land on the game screen.
func NewCardsLobbyController(client *api.Client, sink Sink, busy *Busy, enterGame func(lobbyID string)) *CardsLobbyController {
	return &CardsLobbyController{client: client, sink: sink, busy: busy, enterGame: enterGame}
}

func (c *CardsLobbyController) ID() string { return ScreenCardsLobby }

func (c *CardsLobbyController) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller = NewPoller(LobbyPollInterval, c.refresh)
}

func (c *CardsLobbyController) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller.Stop()
	c.poller = nil
}

func (c *CardsLobbyController) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	result, err := c.client.CardsLobbies(ctx)
	if err != nil {
		logging.Debugf("cards: lobbies: %v", err)
		return
	}
	c.mu.Lock()
	c.lobbies = result.Lobbies
	c.current = result.Current
	c.mu.Unlock()
	c.sink.Invalidate(ScreenCardsLobby)
}

// Lobbies returns the last fetched lobby list.
func (c *CardsLobbyController) Lobbies() []api.Lobby {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbies
}

// Current returns the lobby the viewer already sits in, or "".
func (c *CardsLobbyController) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Create opens a lobby and moves to its game screen.
func (c *CardsLobbyController) Create(ctx context.Context, params api.CreateLobby) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	lobbyID, err := c.client.CardsCreate(ctx, params)
	if err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.enterGame(lobbyID)
	return nil
}

// Join seats the viewer in a lobby and moves to its game screen.
func (c *CardsLobbyController) Join(ctx context.Context, lobbyID, itemID string) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	if err := c.client.CardsJoin(ctx, lobbyID, itemID); err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.enterGame(lobbyID)
	return nil
}

// DefendTarget picks the table slot a defense card should cover when the
// user has not tapped a specific one: the first undefended attack.
func DefendTarget(table []cards.TablePair) int {
	for i, pair := range table {
		if pair.Attack != nil && pair.Defense == nil {
			return i
		}
	}
	return -1
}

// validDefendSlot reports whether index is an undefended attack on the table.
func validDefendSlot(table []cards.TablePair, index int) bool {
	return index >= 0 && index < len(table) &&
		table[index].Attack != nil && table[index].Defense == nil
}

// DecideCardAction maps a tap on a hand card to the action the server
// expects, based on the viewer's role and the current phase. A defense
// covers the explicitly selected table slot when one is chosen, otherwise
// the first undefended attack. The empty action means the tap does nothing
// right now.
func DecideCardAction(view *api.CardsState, viewerID int64, slot int) (string, int) {
	if view == nil || view.Status != "active" {
		return "", -1
	}
	defender := view.DefenderID != nil && *view.DefenderID == viewerID
	attacker := view.AttackerID != nil && *view.AttackerID == viewerID
	switch view.Phase {
	case cards.PhaseAttack:
		if attacker {
			return cards.ActionAttack, -1
		}
	case cards.PhaseDefend:
		if defender {
			if validDefendSlot(view.Table, slot) {
				return cards.ActionDefend, slot
			}
			return cards.ActionDefend, DefendTarget(view.Table)
		}
	case cards.PhaseThrow, cards.PhaseThrowTake:
		if !defender {
			return cards.ActionThrow, -1
		}
	}
	return "", -1
}

// CardsGameController drives one durak table.
type CardsGameController struct {
	client *api.Client
	sink   Sink
	busy   *Busy
	userID int64
	onExit func()

	mu        sync.Mutex
	lobbyID   string
	view      *api.CardsState
	slot      int
	poller    *Poller
	announced bool
}

// NewCardsGameController wires the game screen; onExit is called when the
// user leaves the table.
func NewCardsGameController(client *api.Client, sink Sink, busy *Busy, userID int64, onExit func()) *CardsGameController {
	return &CardsGameController{client: client, sink: sink, busy: busy, userID: userID, onExit: onExit, slot: -1}
}

func (c *CardsGameController) ID() string { return ScreenCardsGame }

// SetLobby points the screen at a table before entering it.
func (c *CardsGameController) SetLobby(lobbyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobbyID = lobbyID
	c.view = nil
	c.slot = -1
	c.announced = false
}

func (c *CardsGameController) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller = NewPoller(GamePollInterval, c.refresh)
}

func (c *CardsGameController) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller.Stop()
	c.poller = nil
}

func (c *CardsGameController) refresh() {
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	if lobbyID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	view, err := c.client.CardsState(ctx, lobbyID)
	if err != nil {
		logging.Debugf("cards: state: %v", err)
		return
	}
	c.apply(view)
}

func (c *CardsGameController) apply(view *api.CardsState) {
	c.mu.Lock()
	c.view = view
	if !validDefendSlot(view.Table, c.slot) {
		c.slot = -1
	}
	announce := view.Status == "finished" && !c.announced
	if announce {
		c.announced = true
	}
	c.mu.Unlock()
	if announce {
		if view.WinnerID != nil && *view.WinnerID == c.userID {
			c.sink.Dialog("Победа!", "Банк ваш")
		} else {
			c.sink.Dialog("Игра окончена", "В этот раз не повезло")
		}
	}
	c.sink.Invalidate(ScreenCardsGame)
}

// View returns the last fetched game state, or nil.
func (c *CardsGameController) View() *api.CardsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// TapSlot selects the table slot the next defense should cover; tapping the
// selected slot again clears the choice.
func (c *CardsGameController) TapSlot(index int) {
	c.mu.Lock()
	if c.slot == index {
		c.slot = -1
	} else {
		c.slot = index
	}
	c.mu.Unlock()
	c.sink.Invalidate(ScreenCardsGame)
}

// SelectedSlot returns the chosen table slot, or -1.
func (c *CardsGameController) SelectedSlot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot
}

// CanStart reports whether the start button should show: an open lobby the
// viewer owns with at least two players.
func (c *CardsGameController) CanStart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view != nil && c.view.Status == "open" &&
		c.view.OwnerID == c.userID && len(c.view.Players) >= 2
}

func (c *CardsGameController) action(ctx context.Context, action, cardID string, targetIndex int) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	view, err := c.client.CardsAction(ctx, lobbyID, action, cardID, targetIndex)
	if err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.apply(view)
	return nil
}

// TapCard handles a tap on a hand card, picking the right action for the
// current phase.
func (c *CardsGameController) TapCard(ctx context.Context, cardID string) error {
	c.mu.Lock()
	view := c.view
	slot := c.slot
	c.mu.Unlock()
	action, target := DecideCardAction(view, c.userID, slot)
	if action == "" {
		c.sink.Toast(ErrorText("not_turn"))
		return nil
	}
	return c.action(ctx, action, cardID, target)
}

// Take picks up the table as the defender.
func (c *CardsGameController) Take(ctx context.Context) error {
	return c.action(ctx, cards.ActionTake, "", -1)
}

// Pass declines to throw more cards.
func (c *CardsGameController) Pass(ctx context.Context) error {
	return c.action(ctx, cards.ActionPass, "", -1)
}

// Start begins the game; only meaningful for the lobby owner.
func (c *CardsGameController) Start(ctx context.Context) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	if err := c.client.CardsStart(ctx, lobbyID); err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.refresh()
	return nil
}

// Exit leaves the table. Leaving an active game is rejected by the server
// and surfaced as a blocking dialog.
func (c *CardsGameController) Exit(ctx context.Context) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	if err := c.client.CardsLeave(ctx, lobbyID); err != nil {
		if api.ErrorCode(err) == "active" {
			c.sink.Dialog("Игра идет", ErrorText("active"))
		} else {
			c.sink.Toast(ErrorText(api.ErrorCode(err)))
		}
		return err
	}
	if c.onExit != nil {
		c.onExit()
	}
	return nil
}
