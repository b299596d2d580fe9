package chess

import (
	"reflect"
	"testing"
)

func TestInitialBoard(t *testing.T) {
	b := InitialBoard()
	if b[0][4] != "bK" || b[7][4] != "wK" {
		t.Fatalf("kings misplaced: %q %q", b[0][4], b[7][4])
	}
	for col := 0; col < BoardSize; col++ {
		if b[1][col] != "bP" || b[6][col] != "wP" {
			t.Fatalf("pawn rows wrong at col %d", col)
		}
	}
	if b[3][3] != "" {
		t.Fatalf("middle of the board not empty")
	}
}

func TestPawnMoves(t *testing.T) {
	b := InitialBoard()
	moves := LegalMoves(&b, 6, 4, White)
	want := []Square{{Row: 4, Col: 4}, {Row: 5, Col: 4}}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("e2 pawn moves = %v, want %v", moves, want)
	}
}

func TestPawnDoubleOnlyFromStart(t *testing.T) {
	b := InitialBoard()
	b[5][4] = "wP"
	b[6][4] = ""
	if LegalMove(&b, 5, 4, 3, 4, White) {
		t.Fatalf("double advance allowed off the start rank")
	}
	if !LegalMove(&b, 5, 4, 4, 4, White) {
		t.Fatalf("single advance rejected")
	}
}

func TestPawnCapturesDiagonally(t *testing.T) {
	b := InitialBoard()
	b[5][5] = "bN"
	if !LegalMove(&b, 6, 4, 5, 5, White) || !LegalMove(&b, 6, 6, 5, 5, White) {
		t.Fatalf("diagonal capture rejected")
	}
	if LegalMove(&b, 6, 4, 5, 3, White) {
		t.Fatalf("diagonal move into an empty square allowed")
	}
	b[5][4] = "bN"
	if LegalMove(&b, 6, 4, 5, 4, White) {
		t.Fatalf("pawn must not capture straight ahead")
	}
}

func TestSlidingStopsAtBlocker(t *testing.T) {
	var b Board
	b[4][0] = "wR"
	b[4][3] = "bP"
	b[4][6] = "bP"
	if !LegalMove(&b, 4, 0, 4, 3, White) {
		t.Fatalf("rook should capture the first blocker")
	}
	if LegalMove(&b, 4, 0, 4, 4, White) {
		t.Fatalf("rook slid through a piece")
	}
	if LegalMove(&b, 4, 0, 4, 6, White) {
		t.Fatalf("rook reached a square behind the blocker")
	}
}

func TestKnightIgnoresBlockers(t *testing.T) {
	b := InitialBoard()
	if !LegalMove(&b, 7, 1, 5, 2, White) {
		t.Fatalf("knight jump rejected")
	}
	if LegalMove(&b, 7, 1, 5, 1, White) {
		t.Fatalf("non-L knight move allowed")
	}
}

func TestKingSingleStep(t *testing.T) {
	var b Board
	b[4][4] = "wK"
	if !LegalMove(&b, 4, 4, 3, 3, White) {
		t.Fatalf("king step rejected")
	}
	if LegalMove(&b, 4, 4, 2, 4, White) {
		t.Fatalf("king moved two squares")
	}
}

func TestLegalMovesPure(t *testing.T) {
	b := InitialBoard()
	snapshot := b
	first := LegalMoves(&b, 7, 1, White)
	second := LegalMoves(&b, 7, 1, White)
	if b != snapshot {
		t.Fatalf("LegalMoves mutated the board")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("LegalMoves not deterministic: %v vs %v", first, second)
	}
}

func TestCannotCaptureOwnPiece(t *testing.T) {
	b := InitialBoard()
	if LegalMove(&b, 7, 0, 6, 0, White) {
		t.Fatalf("rook captured its own pawn")
	}
}
