package ui

import (
	"context"
	"testing"

	"kazikapp/internal/api"
	"kazikapp/internal/chess"
)

func chessGameView(turnOwner int64) *api.ChessState {
	view := &api.ChessState{}
	view.Status = "active"
	view.Board = chess.InitialBoard()
	view.Players = []chess.Player{
		{UserID: 1, Name: "alice", Color: "white"},
		{UserID: 2, Name: "bob", Color: "black"},
	}
	view.Turn = "white"
	view.TurnOwnerID = &turnOwner
	return view
}

func TestTapSelectsOwnPiece(t *testing.T) {
	sink := &recordSink{}
	c := NewChessGameController(nil, sink, new(Busy), 1, nil)
	c.view = chessGameView(1)

	if err := c.Tap(context.Background(), 6, 4); err != nil {
		t.Fatalf("tap: %v", err)
	}
	sel := c.Selected()
	if sel == nil || sel.Row != 6 || sel.Col != 4 {
		t.Fatalf("pawn not selected: %+v", sel)
	}
	if len(c.Highlights()) == 0 {
		t.Fatalf("selection should highlight the legal moves")
	}
}

func TestTapSameSquareDeselects(t *testing.T) {
	sink := &recordSink{}
	c := NewChessGameController(nil, sink, new(Busy), 1, nil)
	c.view = chessGameView(1)

	c.Tap(context.Background(), 6, 4)
	if c.Selected() == nil {
		t.Fatalf("first tap should select")
	}
	if err := c.Tap(context.Background(), 6, 4); err != nil {
		t.Fatalf("second tap: %v", err)
	}
	if c.Selected() != nil || c.Highlights() != nil {
		t.Fatalf("second tap on the same square should clear the selection")
	}
}

func TestTapRetargetsToAnotherOwnPiece(t *testing.T) {
	c := NewChessGameController(nil, &recordSink{}, new(Busy), 1, nil)
	c.view = chessGameView(1)

	c.Tap(context.Background(), 6, 4)
	c.Tap(context.Background(), 6, 3)
	sel := c.Selected()
	if sel == nil || sel.Row != 6 || sel.Col != 3 {
		t.Fatalf("selection did not move to the new piece: %+v", sel)
	}
}

func TestTapOutOfTurnWarns(t *testing.T) {
	sink := &recordSink{}
	c := NewChessGameController(nil, sink, new(Busy), 1, nil)
	c.view = chessGameView(2)

	c.Tap(context.Background(), 6, 4)
	if c.Selected() != nil {
		t.Fatalf("selection must not happen off turn")
	}
	if len(sink.toasts) != 1 {
		t.Fatalf("expected one toast, got %v", sink.toasts)
	}
}
