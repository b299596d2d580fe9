package ui

import (
	"fmt"
	"sync"
)

// Screen identifiers.
const (
	ScreenHome       = "home"
	ScreenSlot       = "slot"
	ScreenUpgrade    = "upgrade"
	ScreenCardsLobby = "cards_lobby"
	ScreenCardsGame  = "cards_game"
	ScreenChessLobby = "chess_lobby"
	ScreenChessGame  = "chess_game"
)

// Screen is one navigable screen. Enter starts its background work, Leave
// tears it down; the router guarantees at most one screen is entered.
type Screen interface {
	ID() string
	Enter()
	Leave()
}

// Router keeps exactly one screen active at a time.
type Router struct {
	mu      sync.Mutex
	screens map[string]Screen
	current Screen
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{screens: make(map[string]Screen)}
}

// Register adds a screen under its id.
func (r *Router) Register(s Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens[s.ID()] = s
}

// Show leaves the current screen and enters the one with the given id.
func (r *Router) Show(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, ok := r.screens[id]
	if !ok {
		return fmt.Errorf("router: unknown screen %q", id)
	}
	if r.current == next {
		return nil
	}
	if r.current != nil {
		r.current.Leave()
	}
	r.current = next
	next.Enter()
	return nil
}

// Current returns the active screen id, or "" before the first Show.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.ID()
}
