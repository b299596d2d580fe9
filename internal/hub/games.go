package hub

import (
	"time"

	"kazikapp/internal/cards"
	"kazikapp/internal/chess"
)

// CardsGameView is the durak state payload, wrapped with lobby metadata. For
// open lobbies the embedded view carries only the status and seated players.
type CardsGameView struct {
	cards.View
	LobbyID   string `json:"lobby_id"`
	OwnerID   int64  `json:"owner_id"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
}

// ChessGameView is the chess state payload, wrapped with lobby metadata.
type ChessGameView struct {
	chess.View
	LobbyID   string `json:"lobby_id"`
	OwnerID   int64  `json:"owner_id"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
}

// tick applies pending turn timeouts and settles the lobby when the game
// just finished.
func (h *Hub) tick(lobby *Lobby) {
	if lobby.Status != StatusActive {
		return
	}
	now := time.Now().Unix()
	switch {
	case lobby.Cards != nil:
		lobby.Cards.ApplyTimeout(now)
		if lobby.Cards.Status == cards.StatusFinished {
			h.settleLocked(lobby, lobby.Cards.WinnerID)
		}
	case lobby.Chess != nil:
		lobby.Chess.ApplyTimeout(now)
		if lobby.Chess.Status == chess.StatusFinished {
			h.settleLocked(lobby, lobby.Chess.WinnerID)
		}
	}
}

func (h *Hub) cardsViewLocked(lobby *Lobby, viewerID int64) CardsGameView {
	view := CardsGameView{
		LobbyID:   lobby.ID,
		OwnerID:   lobby.OwnerID,
		BetType:   lobby.BetType,
		BetAmount: lobby.BetAmount,
	}
	if lobby.Cards != nil {
		view.View = lobby.Cards.View(viewerID)
		view.View.Status = lobby.Status
		return view
	}
	view.View.Status = lobby.Status
	for _, seat := range lobby.Seats {
		view.View.Players = append(view.View.Players, cards.PlayerView{UserID: seat.UserID, Name: seat.Name})
	}
	return view
}

func (h *Hub) chessViewLocked(lobby *Lobby, viewerID int64) ChessGameView {
	view := ChessGameView{
		LobbyID:   lobby.ID,
		OwnerID:   lobby.OwnerID,
		BetType:   lobby.BetType,
		BetAmount: lobby.BetAmount,
	}
	if lobby.Chess != nil {
		view.View = lobby.Chess.View()
		view.View.Status = lobby.Status
		return view
	}
	view.View.Status = lobby.Status
	for _, seat := range lobby.Seats {
		view.View.Players = append(view.View.Players, chess.Player{UserID: seat.UserID, Name: seat.Name})
	}
	return view
}

// CardsState returns the current durak state for a lobby, applying any
// pending turn timeout first.
func (h *Hub) CardsState(viewerID int64, lobbyID string) (CardsGameView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != GameCards {
		return CardsGameView{}, ErrNotFound
	}
	h.tick(lobby)
	return h.cardsViewLocked(lobby, viewerID), nil
}

// CardsAction applies a durak action and returns the refreshed state.
func (h *Hub) CardsAction(userID int64, lobbyID, action, cardID string, targetIndex int) (CardsGameView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != GameCards {
		return CardsGameView{}, ErrNotFound
	}
	h.tick(lobby)
	if lobby.Cards == nil || lobby.Status != StatusActive {
		return CardsGameView{}, cards.ErrGameClosed
	}
	if err := lobby.Cards.Apply(userID, action, cardID, targetIndex); err != nil {
		return CardsGameView{}, err
	}
	if lobby.Cards.Status == cards.StatusFinished {
		h.settleLocked(lobby, lobby.Cards.WinnerID)
	}
	h.persistLobby(lobby)
	return h.cardsViewLocked(lobby, userID), nil
}

// ChessState returns the current chess state for a lobby, applying any
// pending turn timeout first.
func (h *Hub) ChessState(viewerID int64, lobbyID string) (ChessGameView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != GameChess {
		return ChessGameView{}, ErrNotFound
	}
	h.tick(lobby)
	return h.chessViewLocked(lobby, viewerID), nil
}

// ChessAction applies a chess move or resignation and returns the refreshed
// state.
func (h *Hub) ChessAction(userID int64, lobbyID, action string, mv chess.Move) (ChessGameView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != GameChess {
		return ChessGameView{}, ErrNotFound
	}
	h.tick(lobby)
	if lobby.Chess == nil || lobby.Status != StatusActive {
		return ChessGameView{}, chess.ErrGameClosed
	}
	if err := lobby.Chess.Apply(userID, action, mv); err != nil {
		return ChessGameView{}, err
	}
	if lobby.Chess.Status == chess.StatusFinished {
		h.settleLocked(lobby, lobby.Chess.WinnerID)
	}
	h.persistLobby(lobby)
	return h.chessViewLocked(lobby, userID), nil
}
