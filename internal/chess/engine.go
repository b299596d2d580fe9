package chess

import "time"

// TurnTimeoutSec is how long the turn owner has before forfeiting the game.
const TurnTimeoutSec = 60

// Statuses.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Error is a machine-readable action rejection code.
type Error string

func (e Error) Error() string { return string(e) }

// Action rejection codes.
const (
	ErrGameClosed    = Error("game_closed")
	ErrNotPlayer     = Error("not_player")
	ErrNotTurn       = Error("not_turn")
	ErrCoords        = Error("coords")
	ErrInvalidMove   = Error("invalid_move")
	ErrUnknownAction = Error("action")
)

// Action names accepted by Apply.
const (
	ActionMove   = "move"
	ActionResign = "resign"
)

// Player is one of the two seats.
type Player struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Seed identifies a player joining a new game.
type Seed struct {
	UserID int64
	Name   string
}

// Move is a from/to square pair in board coordinates.
type Move struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

// State is the authoritative chess game state.
type State struct {
	Status        string
	Board         Board
	Players       []Player
	Turn          string
	WinnerID      *int64
	TurnOwnerID   *int64
	TurnStartedAt int64
}

// NewState starts a game; the first seed plays white and moves first.
func NewState(seeds []Seed) *State {
	players := make([]Player, 0, len(seeds))
	for i, seed := range seeds {
		color := "white"
		if i > 0 {
			color = "black"
		}
		players = append(players, Player{UserID: seed.UserID, Name: seed.Name, Color: color})
	}
	s := &State{
		Status:  StatusActive,
		Board:   InitialBoard(),
		Players: players,
		Turn:    "white",
	}
	if len(players) > 0 {
		s.setTurn(&players[0].UserID, "white")
	}
	return s
}

func (s *State) setTurn(userID *int64, color string) {
	if userID == nil {
		s.TurnOwnerID = nil
		s.TurnStartedAt = 0
	} else {
		id := *userID
		s.TurnOwnerID = &id
		s.TurnStartedAt = time.Now().Unix()
	}
	if color != "" {
		s.Turn = color
	}
}

func (s *State) playerByID(userID int64) *Player {
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}

func (s *State) otherPlayer(userID int64) *Player {
	for i := range s.Players {
		if s.Players[i].UserID != userID {
			return &s.Players[i]
		}
	}
	return nil
}

// Apply validates and applies a move or resignation for userID.
func (s *State) Apply(userID int64, action string, mv Move) error {
	if s.Status != StatusActive {
		return ErrGameClosed
	}
	player := s.playerByID(userID)
	if player == nil {
		return ErrNotPlayer
	}
	if s.TurnOwnerID == nil || *s.TurnOwnerID != userID {
		return ErrNotTurn
	}
	if action == ActionResign {
		if other := s.otherPlayer(userID); other != nil {
			id := other.UserID
			s.WinnerID = &id
		}
		s.Status = StatusFinished
		s.setTurn(nil, "")
		return nil
	}
	if action != ActionMove {
		return ErrUnknownAction
	}
	if !InBounds(mv.FromRow, mv.FromCol) || !InBounds(mv.ToRow, mv.ToCol) {
		return ErrCoords
	}

	color := White
	if player.Color == "black" {
		color = Black
	}
	if !LegalMove(&s.Board, mv.FromRow, mv.FromCol, mv.ToRow, mv.ToCol, color) {
		return ErrInvalidMove
	}
	target := s.Board[mv.ToRow][mv.ToCol]
	s.Board[mv.ToRow][mv.ToCol] = s.Board[mv.FromRow][mv.FromCol]
	s.Board[mv.FromRow][mv.FromCol] = ""

	// Auto-queen promotion on the last rank.
	if PieceKind(s.Board[mv.ToRow][mv.ToCol]) == "P" {
		if color == White && mv.ToRow == 0 {
			s.Board[mv.ToRow][mv.ToCol] = "wQ"
		}
		if color == Black && mv.ToRow == BoardSize-1 {
			s.Board[mv.ToRow][mv.ToCol] = "bQ"
		}
	}

	// Capturing the king ends the game.
	if PieceKind(target) == "K" {
		id := userID
		s.WinnerID = &id
		s.Status = StatusFinished
		s.setTurn(nil, "")
		return nil
	}

	other := s.otherPlayer(userID)
	if other != nil {
		s.setTurn(&other.UserID, other.Color)
	} else {
		s.setTurn(nil, "")
	}
	return nil
}

// ApplyTimeout forfeits the turn owner once their clock runs out. Returns
// true when the state changed.
func (s *State) ApplyTimeout(now int64) bool {
	if s.Status != StatusActive || s.TurnOwnerID == nil {
		return false
	}
	if s.TurnStartedAt <= 0 {
		id := *s.TurnOwnerID
		s.setTurn(&id, s.Turn)
		return false
	}
	if now == 0 {
		now = time.Now().Unix()
	}
	if now-s.TurnStartedAt < TurnTimeoutSec {
		return false
	}
	if other := s.otherPlayer(*s.TurnOwnerID); other != nil {
		id := other.UserID
		s.WinnerID = &id
	}
	s.Status = StatusFinished
	s.setTurn(nil, "")
	return true
}

// View is the serialized game state; the full board is public.
type View struct {
	Status         string   `json:"status"`
	Board          Board    `json:"board"`
	Players        []Player `json:"players"`
	Turn           string   `json:"turn"`
	TurnOwnerID    *int64   `json:"turn_owner_id"`
	TurnStartedAt  int64    `json:"turn_started_at"`
	TurnTimeoutSec int      `json:"turn_timeout_sec"`
	WinnerID       *int64   `json:"winner_id"`
}

// View serializes the state.
func (s *State) View() View {
	return View{
		Status:         s.Status,
		Board:          s.Board,
		Players:        s.Players,
		Turn:           s.Turn,
		TurnOwnerID:    s.TurnOwnerID,
		TurnStartedAt:  s.TurnStartedAt,
		TurnTimeoutSec: TurnTimeoutSec,
		WinnerID:       s.WinnerID,
	}
}
