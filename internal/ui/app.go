package ui

import (
	"math/rand"
	"time"

	"kazikapp/internal/api"
	"kazikapp/internal/logging"
)

// homeScreen is the static landing page; it has no background work.
type homeScreen struct{}

func (homeScreen) ID() string { return ScreenHome }
func (homeScreen) Enter()     {}
func (homeScreen) Leave()     {}

// App assembles the screens of the mini-app around one API client. The host
// shell renders from the controllers and forwards user input to them.
type App struct {
	Router     *Router
	Slot       *SlotController
	Upgrade    *UpgradeController
	CardsLobby *CardsLobbyController
	CardsGame  *CardsGameController
	ChessLobby *ChessLobbyController
	ChessGame  *ChessGameController
}

// NewApp wires every screen controller and registers them on a router.
// userID is the authenticated Telegram user, used to interpret game views.
func NewApp(client *api.Client, sink Sink, userID int64) *App {
	if sink == nil {
		sink = NopSink{}
	}
	busy := &Busy{}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	router := NewRouter()

	app := &App{Router: router}
	app.Slot = NewSlotController(client, sink, busy, rng)
	app.Upgrade = NewUpgradeController(client, sink, busy, rng)
	app.CardsGame = NewCardsGameController(client, sink, busy, userID, func() {
		app.show(ScreenCardsLobby)
	})
	app.CardsLobby = NewCardsLobbyController(client, sink, busy, func(lobbyID string) {
		app.CardsGame.SetLobby(lobbyID)
		app.show(ScreenCardsGame)
	})
	app.ChessGame = NewChessGameController(client, sink, busy, userID, func() {
		app.show(ScreenChessLobby)
	})
	app.ChessLobby = NewChessLobbyController(client, sink, busy, func(lobbyID string) {
		app.ChessGame.SetLobby(lobbyID)
		app.show(ScreenChessGame)
	})

	router.Register(homeScreen{})
	router.Register(app.Slot)
	router.Register(app.Upgrade)
	router.Register(app.CardsLobby)
	router.Register(app.CardsGame)
	router.Register(app.ChessLobby)
	router.Register(app.ChessGame)
	return app
}

func (a *App) show(id string) {
	if err := a.Router.Show(id); err != nil {
		logging.Errorf("app: show %s: %v", id, err)
	}
}

// Open navigates to a screen by id.
func (a *App) Open(id string) error { return a.Router.Show(id) }

// OpenCardsGame jumps straight to a durak table, as when the lobby list
// reports the viewer already sits in one.
func (a *App) OpenCardsGame(lobbyID string) {
	a.CardsGame.SetLobby(lobbyID)
	a.show(ScreenCardsGame)
}

// OpenChessGame jumps straight to a chess board.
func (a *App) OpenChessGame(lobbyID string) {
	a.ChessGame.SetLobby(lobbyID)
	a.show(ScreenChessGame)
}
