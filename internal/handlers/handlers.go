package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kazikapp/internal/auth"
	"kazikapp/internal/cards"
	"kazikapp/internal/chess"
	"kazikapp/internal/hub"
	"kazikapp/internal/logging"
)

// Handler bundles the HTTP endpoints of the mini-app API.
type Handler struct {
	hub      *hub.Hub
	botToken string
}

// New creates a handler set backed by the given hub.
func New(h *hub.Hub, botToken string) *Handler {
	return &Handler{hub: h, botToken: botToken}
}

// Routes builds the router. Every API endpoint sits behind init-data auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/miniapp/api", func(r chi.Router) {
		r.Use(h.requireUser)
		r.Get("/state", h.state)
		r.Post("/spin", h.spin)
		r.Post("/buy", h.buy)
		r.Post("/open_stars", h.openStars)
		r.Route("/upgrade", func(r chi.Router) {
			r.Get("/inventory", h.upgradeInventory)
			r.Post("/targets", h.upgradeTargets)
			r.Post("/roll", h.upgradeRoll)
		})
		r.Route("/cards", func(r chi.Router) {
			r.Get("/lobbies", h.gameLobbies(hub.GameCards))
			r.Get("/inventory", h.cardsInventory)
			r.Post("/create", h.cardsCreate)
			r.Post("/join", h.gameJoin(hub.GameCards))
			r.Post("/leave", h.gameLeave(hub.GameCards))
			r.Post("/start", h.cardsStart)
			r.Get("/state", h.cardsState)
			r.Post("/action", h.cardsAction)
		})
		r.Route("/chess", func(r chi.Router) {
			r.Get("/lobbies", h.gameLobbies(hub.GameChess))
			r.Post("/create", h.chessCreate)
			r.Post("/join", h.gameJoin(hub.GameChess))
			r.Post("/leave", h.gameLeave(hub.GameChess))
			r.Get("/state", h.chessState)
			r.Post("/action", h.chessAction)
		})
	})
	return r
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("handlers: write response: %v", err)
	}
}

// writeFail writes the {ok:false, error:code} envelope.
func writeFail(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, map[string]any{"ok": false, "error": code})
}

// writeErr maps a domain error to the wire envelope. Domain rejections go
// out as HTTP 200 so the client treats them as outcomes, not failures.
func writeErr(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case hub.Error:
		writeFail(w, http.StatusOK, string(e))
	case cards.Error:
		writeFail(w, http.StatusOK, string(e))
	case chess.Error:
		writeFail(w, http.StatusOK, string(e))
	default:
		logging.Errorf("handlers: internal error: %v", err)
		writeFail(w, http.StatusInternalServerError, "internal")
	}
}

type ctxKey int

const userKey ctxKey = 0

// requireUser validates the Telegram init data and resolves the hub account.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initData := auth.FromRequestHeader(r.Header.Get, r.URL.Query())
		user, err := auth.Validate(initData, h.botToken)
		if err != nil {
			writeFail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		account := h.hub.GetOrCreateUser(*user)
		ctx := context.WithValue(r.Context(), userKey, account.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey).(int64)
	return id
}

// decode parses the JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

type stateResponse struct {
	OK bool `json:"ok"`
	hub.StateView
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, stateResponse{OK: true, StateView: h.hub.State(userID(r))})
}

type spinResponse struct {
	OK     bool          `json:"ok"`
	Digits [3]int        `json:"digits"`
	Win    bool          `json:"win"`
	Reward *hub.Reward   `json:"reward,omitempty"`
	State  hub.StateView `json:"state"`
}

func (h *Handler) spin(w http.ResponseWriter, r *http.Request) {
	result, err := h.hub.Spin(userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, spinResponse{
		OK:     true,
		Digits: result.Digits,
		Win:    result.Win,
		Reward: result.Reward,
		State:  result.State,
	})
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Spins int `json:"spins"`
		Cost  int `json:"cost"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	message, state, err := h.hub.Buy(userID(r), req.Spins, req.Cost)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		OK      bool          `json:"ok"`
		Message string        `json:"message"`
		State   hub.StateView `json:"state"`
	}{true, message, state})
}

// openStars credits a star top-up. The production bot opens a Telegram Stars
// invoice here; the sandbox applies the purchase directly.
func (h *Handler) openStars(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	state, err := h.hub.TopUpStars(userID(r), req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stateResponse{OK: true, StateView: state})
}
