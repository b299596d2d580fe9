package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"kazikapp/internal/auth"
	"kazikapp/internal/catalog"
	"kazikapp/internal/chess"
	"kazikapp/internal/handlers"
	"kazikapp/internal/hub"
)

const testToken = "12345:test-token"

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	h := hub.New(catalog.Demo(), nil, "")
	srv := httptest.NewServer(handlers.New(h, testToken).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func clientFor(srv *httptest.Server, id int64, username string) *Client {
	initData := auth.BuildInitData(auth.User{ID: id, Username: username}, testToken)
	return NewClient(srv.URL, initData)
}

func TestClientState(t *testing.T) {
	srv := newTestBackend(t)
	client := clientFor(srv, 1, "alice")
	state, err := client.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Balance != 100 || state.Stars != 5 {
		t.Fatalf("unexpected starter state: %+v", state)
	}
	if state.Kazik.SpinCost != 1 || len(state.Kazik.BuyPacks) != 4 {
		t.Fatalf("slot config missing: %+v", state.Kazik)
	}
}

func TestClientRejectionBecomesError(t *testing.T) {
	srv := newTestBackend(t)
	client := clientFor(srv, 2, "bob")
	_, err := client.Buy(context.Background(), 99, 1)
	if err == nil {
		t.Fatalf("made-up pack accepted")
	}
	if ErrorCode(err) != "invalid" {
		t.Fatalf("code = %q, want invalid", ErrorCode(err))
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv := newTestBackend(t)
	client := NewClient(srv.URL, "garbage")
	_, err := client.State(context.Background())
	if ErrorCode(err) != "unauthorized" {
		t.Fatalf("code = %q, want unauthorized", ErrorCode(err))
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Status != 401 {
		t.Fatalf("expected status 401, got %v", err)
	}
}

func TestClientSpin(t *testing.T) {
	srv := newTestBackend(t)
	client := clientFor(srv, 3, "carol")
	result, err := client.Spin(context.Background())
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	for _, digit := range result.Digits {
		if digit < 1 || digit > 3 {
			t.Fatalf("digit outside pool: %v", result.Digits)
		}
	}
	if result.State.Balance != 100 {
		t.Fatalf("state snapshot missing: %+v", result.State)
	}
}

func TestClientChessGame(t *testing.T) {
	srv := newTestBackend(t)
	white := clientFor(srv, 10, "white")
	black := clientFor(srv, 11, "black")
	ctx := context.Background()

	lobbyID, err := white.ChessCreate(ctx, CreateLobby{BetType: "balance", BetAmount: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := black.ChessJoin(ctx, lobbyID, ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	state, err := white.ChessState(ctx, lobbyID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Status != "active" || state.Turn != "white" {
		t.Fatalf("game not started: %+v", state)
	}
	if state.Board[6][4] != "wP" {
		t.Fatalf("board not populated: %q", state.Board[6][4])
	}

	moved, err := white.ChessMove(ctx, lobbyID, chess.Move{FromRow: 6, FromCol: 4, ToRow: 4, ToCol: 4})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Board[4][4] != "wP" || moved.Turn != "black" {
		t.Fatalf("move not applied: %+v", moved)
	}

	finished, err := black.ChessResign(ctx, lobbyID)
	if err != nil {
		t.Fatalf("resign: %v", err)
	}
	if finished.Status != "finished" || finished.WinnerID == nil || *finished.WinnerID != 10 {
		t.Fatalf("resign outcome wrong: %+v", finished)
	}
}

func TestClientCardsGame(t *testing.T) {
	srv := newTestBackend(t)
	owner := clientFor(srv, 20, "owner")
	guest := clientFor(srv, 21, "guest")
	ctx := context.Background()

	lobbyID, err := owner.CardsCreate(ctx, CreateLobby{
		Mode: "podkidnoy", DeckSize: 36, BetType: "balance", BetAmount: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := guest.CardsJoin(ctx, lobbyID, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := owner.CardsStart(ctx, lobbyID); err != nil {
		t.Fatalf("start: %v", err)
	}

	view, err := owner.CardsState(ctx, lobbyID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.Status != "active" || view.Trump == nil {
		t.Fatalf("game not dealt: %+v", view)
	}

	// The attacker opens with any card from their revealed hand.
	attacker := owner
	attackerID := int64(20)
	if *view.AttackerID == 21 {
		attacker = guest
		attackerID = 21
	}
	attackerView, err := attacker.CardsState(ctx, lobbyID)
	if err != nil {
		t.Fatalf("attacker state: %v", err)
	}
	var hand []string
	for _, p := range attackerView.Players {
		if p.UserID == attackerID {
			for _, card := range p.Hand {
				hand = append(hand, card.ID())
			}
		}
	}
	if len(hand) != 6 {
		t.Fatalf("attacker hand not revealed")
	}
	after, err := attacker.CardsAction(ctx, lobbyID, "attack", hand[0], -1)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if len(after.Table) != 1 || after.Phase != "defend" {
		t.Fatalf("attack not applied: %+v", after)
	}
}
