package chess

import (
	"testing"
	"time"
)

func newTestGame() *State {
	return NewState([]Seed{
		{UserID: 1, Name: "alice"},
		{UserID: 2, Name: "bob"},
	})
}

func TestNewStateColorsAndTurn(t *testing.T) {
	s := newTestGame()
	if s.Players[0].Color != "white" || s.Players[1].Color != "black" {
		t.Fatalf("colors not assigned in join order: %+v", s.Players)
	}
	if s.TurnOwnerID == nil || *s.TurnOwnerID != 1 {
		t.Fatalf("white should move first")
	}
}

func TestApplyMoveAndTurnPass(t *testing.T) {
	s := newTestGame()
	if err := s.Apply(1, ActionMove, Move{FromRow: 6, FromCol: 4, ToRow: 4, ToCol: 4}); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if s.Board[4][4] != "wP" || s.Board[6][4] != "" {
		t.Fatalf("board not updated")
	}
	if *s.TurnOwnerID != 2 || s.Turn != "black" {
		t.Fatalf("turn did not pass to black")
	}
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	s := newTestGame()
	if err := s.Apply(1, ActionMove, Move{FromRow: 6, FromCol: 4, ToRow: 3, ToCol: 4}); err != ErrInvalidMove {
		t.Fatalf("got %v, want %v", err, ErrInvalidMove)
	}
}

func TestApplyRejectsOutOfTurn(t *testing.T) {
	s := newTestGame()
	if err := s.Apply(2, ActionMove, Move{FromRow: 1, FromCol: 4, ToRow: 3, ToCol: 4}); err != ErrNotTurn {
		t.Fatalf("got %v, want %v", err, ErrNotTurn)
	}
	if err := s.Apply(9, ActionMove, Move{}); err != ErrNotPlayer {
		t.Fatalf("got %v, want %v", err, ErrNotPlayer)
	}
}

func TestApplyRejectsBadCoords(t *testing.T) {
	s := newTestGame()
	if err := s.Apply(1, ActionMove, Move{FromRow: -1, FromCol: 0, ToRow: 0, ToCol: 0}); err != ErrCoords {
		t.Fatalf("got %v, want %v", err, ErrCoords)
	}
}

func TestAutoQueenPromotion(t *testing.T) {
	s := newTestGame()
	s.Board = Board{}
	s.Board[1][0] = "wP"
	s.Board[7][7] = "wK"
	s.Board[0][7] = "bK"
	if err := s.Apply(1, ActionMove, Move{FromRow: 1, FromCol: 0, ToRow: 0, ToCol: 0}); err != nil {
		t.Fatalf("promotion move: %v", err)
	}
	if s.Board[0][0] != "wQ" {
		t.Fatalf("pawn not promoted, square holds %q", s.Board[0][0])
	}
}

func TestKingCaptureWins(t *testing.T) {
	s := newTestGame()
	s.Board = Board{}
	s.Board[4][4] = "wQ"
	s.Board[4][7] = "bK"
	s.Board[7][0] = "wK"
	if err := s.Apply(1, ActionMove, Move{FromRow: 4, FromCol: 4, ToRow: 4, ToCol: 7}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if s.Status != StatusFinished {
		t.Fatalf("game should end on king capture")
	}
	if s.WinnerID == nil || *s.WinnerID != 1 {
		t.Fatalf("capturing player should win, got %v", s.WinnerID)
	}
	if err := s.Apply(2, ActionMove, Move{}); err != ErrGameClosed {
		t.Fatalf("moves after the end: got %v, want %v", err, ErrGameClosed)
	}
}

func TestResign(t *testing.T) {
	s := newTestGame()
	if err := s.Apply(2, ActionResign, Move{}); err != ErrNotTurn {
		t.Fatalf("resign out of turn: got %v, want %v", err, ErrNotTurn)
	}
	if s.Status != StatusActive {
		t.Fatalf("rejected resign must not end the game")
	}
	if err := s.Apply(1, ActionResign, Move{}); err != nil {
		t.Fatalf("resign: %v", err)
	}
	if s.Status != StatusFinished || s.WinnerID == nil || *s.WinnerID != 2 {
		t.Fatalf("opponent should win on resignation: %+v", s)
	}
}

func TestTimeoutForfeit(t *testing.T) {
	s := newTestGame()
	s.TurnStartedAt = time.Now().Unix() - TurnTimeoutSec - 1
	if !s.ApplyTimeout(0) {
		t.Fatalf("expected timeout to fire")
	}
	if s.Status != StatusFinished || s.WinnerID == nil || *s.WinnerID != 2 {
		t.Fatalf("slow player must forfeit: %+v", s)
	}
}

func TestTimeoutNotYet(t *testing.T) {
	s := newTestGame()
	if s.ApplyTimeout(0) {
		t.Fatalf("fresh turn should not time out")
	}
}
