package ui

import (
	"context"
	"sync"

	"kazikapp/internal/api"
	"kazikapp/internal/chess"
	"kazikapp/internal/logging"
)

// ChessLobbyController drives the chess lobby list.
type ChessLobbyController struct {
	client    *api.Client
	sink      Sink
	busy      *Busy
	enterGame func(lobbyID string)

	mu      sync.Mutex
	lobbies []api.Lobby
	current string
	poller  *Poller
}

// NewChessLobbyController wires the lobby list; enterGame is called with the
// lobby id when the user should land on the game screen.
func NewChessLobbyController(client *api.Client, sink Sink, busy *Busy, enterGame func(lobbyID string)) *ChessLobbyController {
	return &ChessLobbyController{client: client, sink: sink, busy: busy, enterGame: enterGame}
}

func (c *ChessLobbyController) ID() string { return ScreenChessLobby }

func (c *ChessLobbyController) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller = NewPoller(LobbyPollInterval, c.refresh)
}

func (c *ChessLobbyController) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller.Stop()
	c.poller = nil
}

func (c *ChessLobbyController) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	result, err := c.client.ChessLobbies(ctx)
	if err != nil {
		logging.Debugf("chess: lobbies: %v", err)
		return
	}
	c.mu.Lock()
	c.lobbies = result.Lobbies
	c.current = result.Current
	c.mu.Unlock()
	c.sink.Invalidate(ScreenChessLobby)
}

// Lobbies returns the last fetched lobby list.
func (c *ChessLobbyController) Lobbies() []api.Lobby {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbies
}

// Current returns the lobby the viewer already sits in, or "".
func (c *ChessLobbyController) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Create opens a lobby and moves to its game screen.
func (c *ChessLobbyController) Create(ctx context.Context, params api.CreateLobby) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	lobbyID, err := c.client.ChessCreate(ctx, params)
	if err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.enterGame(lobbyID)
	return nil
}

// Join seats the viewer in a lobby and moves to its game screen.
func (c *ChessLobbyController) Join(ctx context.Context, lobbyID, itemID string) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	if err := c.client.ChessJoin(ctx, lobbyID, itemID); err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.enterGame(lobbyID)
	return nil
}

// ChessGameController drives one chess board: polling, the tap-to-select
// move flow and move highlighting.
type ChessGameController struct {
	client *api.Client
	sink   Sink
	busy   *Busy
	userID int64
	onExit func()

	mu         sync.Mutex
	lobbyID    string
	view       *api.ChessState
	selected   *chess.Square
	highlights []chess.Square
	poller     *Poller
	announced  bool
}

// NewChessGameController wires the game screen; onExit is called when the
// user leaves the board.
func NewChessGameController(client *api.Client, sink Sink, busy *Busy, userID int64, onExit func()) *ChessGameController {
	return &ChessGameController{client: client, sink: sink, busy: busy, userID: userID, onExit: onExit}
}

func (c *ChessGameController) ID() string { return ScreenChessGame }

// SetLobby points the screen at a board before entering it.
func (c *ChessGameController) SetLobby(lobbyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobbyID = lobbyID
	c.view = nil
	c.selected = nil
	c.highlights = nil
	c.announced = false
}

func (c *ChessGameController) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller = NewPoller(GamePollInterval, c.refresh)
}

func (c *ChessGameController) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller.Stop()
	c.poller = nil
}

func (c *ChessGameController) refresh() {
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	if lobbyID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	view, err := c.client.ChessState(ctx, lobbyID)
	if err != nil {
		logging.Debugf("chess: state: %v", err)
		return
	}
	c.apply(view)
}

func (c *ChessGameController) apply(view *api.ChessState) {
	c.mu.Lock()
	turnChanged := c.view == nil || c.view.Turn != view.Turn
	c.view = view
	if turnChanged {
		c.selected = nil
		c.highlights = nil
	}
	announce := view.Status == "finished" && !c.announced
	if announce {
		c.announced = true
	}
	c.mu.Unlock()
	if announce {
		if view.WinnerID != nil && *view.WinnerID == c.userID {
			c.sink.Dialog("Победа!", "Партия ваша")
		} else {
			c.sink.Dialog("Партия окончена", "В этот раз не повезло")
		}
	}
	c.sink.Invalidate(ScreenChessGame)
}

// View returns the last fetched game state, or nil.
func (c *ChessGameController) View() *api.ChessState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Selected returns the currently selected square, or nil.
func (c *ChessGameController) Selected() *chess.Square {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Highlights returns the legal destinations of the selected piece.
func (c *ChessGameController) Highlights() []chess.Square {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlights
}

// myColor returns the viewer's piece color code, or "".
func (c *ChessGameController) myColor(view *api.ChessState) string {
	for _, p := range view.Players {
		if p.UserID == c.userID {
			if p.Color == "black" {
				return chess.Black
			}
			return chess.White
		}
	}
	return ""
}

// Tap handles a tap on a board square: select an own piece, retarget the
// selection, or fire the move when a highlighted square is tapped.
func (c *ChessGameController) Tap(ctx context.Context, row, col int) error {
	c.mu.Lock()
	view := c.view
	selected := c.selected
	highlights := c.highlights
	c.mu.Unlock()
	if view == nil || view.Status != "active" {
		return nil
	}
	if view.TurnOwnerID == nil || *view.TurnOwnerID != c.userID {
		c.sink.Toast(ErrorText("not_turn"))
		return nil
	}
	if !chess.InBounds(row, col) {
		return nil
	}
	color := c.myColor(view)

	// Tapping the selected square again clears the selection.
	if selected != nil && selected.Row == row && selected.Col == col {
		c.mu.Lock()
		c.selected = nil
		c.highlights = nil
		c.mu.Unlock()
		c.sink.Invalidate(ScreenChessGame)
		return nil
	}
	if selected != nil {
		for _, sq := range highlights {
			if sq.Row == row && sq.Col == col {
				return c.move(ctx, chess.Move{FromRow: selected.Row, FromCol: selected.Col, ToRow: row, ToCol: col})
			}
		}
	}

	piece := view.Board[row][col]
	if piece != "" && chess.PieceColor(piece) == color {
		moves := chess.LegalMoves(&view.Board, row, col, color)
		c.mu.Lock()
		c.selected = &chess.Square{Row: row, Col: col}
		c.highlights = moves
		c.mu.Unlock()
	} else {
		c.mu.Lock()
		c.selected = nil
		c.highlights = nil
		c.mu.Unlock()
	}
	c.sink.Invalidate(ScreenChessGame)
	return nil
}

func (c *ChessGameController) move(ctx context.Context, mv chess.Move) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.selected = nil
	c.highlights = nil
	c.mu.Unlock()
	view, err := c.client.ChessMove(ctx, lobbyID, mv)
	if err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.apply(view)
	return nil
}

// Resign forfeits the game.
func (c *ChessGameController) Resign(ctx context.Context) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	view, err := c.client.ChessResign(ctx, lobbyID)
	if err != nil {
		c.sink.Toast(ErrorText(api.ErrorCode(err)))
		return err
	}
	c.apply(view)
	return nil
}

// Exit leaves the board. Leaving an active game is rejected by the server
// and surfaced as a blocking dialog.
func (c *ChessGameController) Exit(ctx context.Context) error {
	if !c.busy.TryAcquire() {
		return ErrBusy
	}
	defer c.busy.Release()
	c.mu.Lock()
	lobbyID := c.lobbyID
	c.mu.Unlock()
	if err := c.client.ChessLeave(ctx, lobbyID); err != nil {
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
