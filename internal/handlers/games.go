package handlers

import (
	"net/http"
	"strconv"

	"kazikapp/internal/chess"
	"kazikapp/internal/hub"
)

type lobbiesResponse struct {
	OK      bool            `json:"ok"`
	Lobbies []hub.LobbyView `json:"lobbies"`
	Current string          `json:"current_lobby"`
}

func (h *Handler) gameLobbies(game string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbies, current := h.hub.Lobbies(game, userID(r))
		WriteJSON(w, http.StatusOK, lobbiesResponse{OK: true, Lobbies: lobbies, Current: current})
	}
}

// cardsInventory lists items eligible for a sausage bet of at least min_price.
func (h *Handler) cardsInventory(w http.ResponseWriter, r *http.Request) {
	minPrice, _ := strconv.Atoi(r.URL.Query().Get("min_price"))
	items := h.hub.Inventory(userID(r), minPrice, false)
	WriteJSON(w, http.StatusOK, struct {
		OK    bool           `json:"ok"`
		Items []hub.ItemView `json:"items"`
	}{true, items})
}

type createResponse struct {
	OK      bool   `json:"ok"`
	LobbyID string `json:"lobby_id"`
}

func (h *Handler) cardsCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode      string `json:"mode"`
		DeckSize  int    `json:"deck_size"`
		BetType   string `json:"bet_type"`
		BetAmount int    `json:"bet_amount"`
		ItemID    string `json:"item_id"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	lobbyID, err := h.hub.CreateLobby(userID(r), hub.GameCards, req.Mode, req.DeckSize, req.BetType, req.BetAmount, req.ItemID)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, createResponse{OK: true, LobbyID: lobbyID})
}

func (h *Handler) chessCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BetType   string `json:"bet_type"`
		BetAmount int    `json:"bet_amount"`
		ItemID    string `json:"item_id"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	lobbyID, err := h.hub.CreateLobby(userID(r), hub.GameChess, "", 0, req.BetType, req.BetAmount, req.ItemID)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, createResponse{OK: true, LobbyID: lobbyID})
}

func (h *Handler) gameJoin(game string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LobbyID string `json:"lobby_id"`
			ItemID  string `json:"item_id"`
		}
		if err := decode(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "bad_request")
			return
		}
		if err := h.hub.JoinLobby(userID(r), game, req.LobbyID, req.ItemID); err != nil {
			writeErr(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *Handler) gameLeave(game string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LobbyID string `json:"lobby_id"`
		}
		if err := decode(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "bad_request")
			return
		}
		if err := h.hub.LeaveLobby(userID(r), game, req.LobbyID); err != nil {
			writeErr(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *Handler) cardsStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LobbyID string `json:"lobby_id"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	if err := h.hub.StartLobby(userID(r), req.LobbyID); err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type cardsStateResponse struct {
	OK bool `json:"ok"`
	hub.CardsGameView
}

func (h *Handler) cardsState(w http.ResponseWriter, r *http.Request) {
	view, err := h.hub.CardsState(userID(r), r.URL.Query().Get("lobby_id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cardsStateResponse{OK: true, CardsGameView: view})
}

func (h *Handler) cardsAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LobbyID     string `json:"lobby_id"`
		Action      string `json:"action"`
		Card        string `json:"card_id"`
		TargetIndex int    `json:"target_index"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	view, err := h.hub.CardsAction(userID(r), req.LobbyID, req.Action, req.Card, req.TargetIndex)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cardsStateResponse{OK: true, CardsGameView: view})
}

type chessStateResponse struct {
	OK bool `json:"ok"`
	hub.ChessGameView
}

func (h *Handler) chessState(w http.ResponseWriter, r *http.Request) {
	view, err := h.hub.ChessState(userID(r), r.URL.Query().Get("lobby_id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chessStateResponse{OK: true, ChessGameView: view})
}

func (h *Handler) chessAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LobbyID string `json:"lobby_id"`
		Action  string `json:"action"`
		FromRow int    `json:"from_row"`
		FromCol int    `json:"from_col"`
		ToRow   int    `json:"to_row"`
		ToCol   int    `json:"to_col"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	mv := chess.Move{FromRow: req.FromRow, FromCol: req.FromCol, ToRow: req.ToRow, ToCol: req.ToCol}
	view, err := h.hub.ChessAction(userID(r), req.LobbyID, req.Action, mv)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chessStateResponse{OK: true, ChessGameView: view})
}
