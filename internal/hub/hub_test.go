package hub

import (
	"testing"

	"kazikapp/internal/auth"
	"kazikapp/internal/catalog"
	"kazikapp/internal/chess"
	"kazikapp/internal/storage"
)

func newTestHub() *Hub {
	return New(catalog.Demo(), nil, "")
}

func seedUser(h *Hub, id int64, name string) *User {
	return h.GetOrCreateUser(auth.User{ID: id, Username: name})
}

func giveItem(h *Hub, userID int64, itemID, file string) {
	h.Restore(nil, []storage.InventoryItem{{ItemID: itemID, UserID: userID, File: file}})
}

func TestGetOrCreateUserSeedsOnce(t *testing.T) {
	h := newTestHub()
	user := seedUser(h, 1, "alice")
	if user.Balance != newbieBalance || user.Stars != newbieStars {
		t.Fatalf("starter resources wrong: %+v", user)
	}
	user.Balance = 42
	again := seedUser(h, 1, "alice")
	if again.Balance != 42 {
		t.Fatalf("existing account reseeded")
	}
}

func TestSpinSpendsStarsWhenFreeExhausted(t *testing.T) {
	h := newTestHub()
	user := seedUser(h, 1, "alice")
	free := user.Session.FreeLimit() + newbieFreeRoll
	for i := 0; i < free; i++ {
		if _, err := h.Spin(1); err != nil {
			t.Fatalf("free spin %d: %v", i, err)
		}
	}
	if user.Stars != newbieStars {
		t.Fatalf("free spins charged stars: %d", user.Stars)
	}
	if _, err := h.Spin(1); err != nil {
		t.Fatalf("paid spin: %v", err)
	}
	if user.Stars != newbieStars-1 {
		t.Fatalf("paid spin not charged: %d", user.Stars)
	}
	user.Stars = 0
	if _, err := h.Spin(1); err != ErrNoStars {
		t.Fatalf("got %v, want %v", err, ErrNoStars)
	}
}

func TestInventoryFilters(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	giveItem(h, 1, "it1", "batat.jpg")      // common, 20
	giveItem(h, 1, "it2", "servelat.jpg")   // epic, 400
	giveItem(h, 1, "it3", "kustarnaya.jpg") // meme, excluded from upgrades

	all := h.Inventory(1, 0, false)
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	expensive := h.Inventory(1, 100, false)
	if len(expensive) != 1 || expensive[0].File != "servelat.jpg" {
		t.Fatalf("min price filter broken: %+v", expensive)
	}
	upgradable := h.Inventory(1, 0, true)
	if len(upgradable) != 2 {
		t.Fatalf("meme card should be dropped for upgrades: %+v", upgradable)
	}
}

func TestUpgradeRollConsumesSource(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	giveItem(h, 1, "it1", "servelat.jpg") // 400

	result, err := h.UpgradeRoll(1, []string{"it1"}, "salami.mp4") // 1200
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if result.Chance != 33 {
		t.Fatalf("chance = %d, want 33", result.Chance)
	}
	if result.TotalValue != 400 {
		t.Fatalf("total_value = %d, want 400", result.TotalValue)
	}
	// The target card is described in the response whether or not it was won.
	if result.Reward.File != "salami.mp4" || result.Reward.Price != 1200 {
		t.Fatalf("reward should describe the target: %+v", result.Reward)
	}
	won := false
	for _, item := range h.Inventory(1, 0, false) {
		if item.ID == "it1" {
			t.Fatalf("source item survived the roll")
		}
		if item.File == "salami.mp4" {
			won = true
		}
	}
	if won != result.Success {
		t.Fatalf("inventory disagrees with the verdict: success=%v won=%v", result.Success, won)
	}
}

func TestUpgradeRollRejectsDowngrade(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	giveItem(h, 1, "it1", "servelat.jpg") // 400
	if _, err := h.UpgradeRoll(1, []string{"it1"}, "batat.jpg"); err != ErrInvalidTarget {
		t.Fatalf("got %v, want %v", err, ErrInvalidTarget)
	}
	if _, err := h.UpgradeRoll(1, []string{"it1"}, "kustarnaya.jpg"); err != ErrInvalidTarget {
		t.Fatalf("meme target: got %v, want %v", err, ErrInvalidTarget)
	}
	if len(h.Inventory(1, 0, false)) != 1 {
		t.Fatalf("rejected roll must not consume the item")
	}
}

func TestUpgradeTargetsUsesStackValue(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	giveItem(h, 1, "it1", "doktorskaya.jpg") // rare, 150
	total, filter, targets, err := h.UpgradeTargets(1, []string{"it1"}, 42)
	if err != nil {
		t.Fatalf("targets: %v", err)
	}
	if total != 150 {
		t.Fatalf("total = %d, want 150", total)
	}
	if filter != 75 {
		t.Fatalf("unknown filter should normalize to 75, got %d", filter)
	}
	for _, target := range targets {
		if target.Price <= 150 {
			t.Fatalf("downgrade offered: %+v", target)
		}
	}
}

func TestSausageStakeRoundTrip(t *testing.T) {
	h := newTestHub()
	owner := seedUser(h, 1, "alice")
	guest := seedUser(h, 2, "bob")
	giveItem(h, 1, "it1", "servelat.jpg") // 400
	giveItem(h, 2, "it2", "salami.mp4")   // 1200

	lobbyID, err := h.CreateLobby(1, GameChess, "", 0, BetSausage, 300, "it1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(h.Inventory(1, 0, false)) != 0 {
		t.Fatalf("staked item still in inventory")
	}

	// An item below the bet floor is rejected.
	giveItem(h, 2, "cheap", "batat.jpg")
	if err := h.JoinLobby(2, GameChess, lobbyID, "cheap"); err != ErrItemPrice {
		t.Fatalf("cheap stake: got %v, want %v", err, ErrItemPrice)
	}
	if err := h.JoinLobby(2, GameChess, lobbyID, "it2"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// Resigning is a turn action, so the guest cannot throw the game while
	// white is still thinking.
	if _, err := h.ChessAction(2, lobbyID, "resign", chess.Move{}); err != chess.ErrNotTurn {
		t.Fatalf("resign out of turn: got %v, want %v", err, chess.ErrNotTurn)
	}

	// The owner (white, on turn) resigns; the guest collects both staked cards.
	if _, err := h.ChessAction(1, lobbyID, "resign", chess.Move{}); err != nil {
		t.Fatalf("resign: %v", err)
	}
	files := map[string]bool{}
	for _, item := range h.Inventory(2, 0, false) {
		files[item.File] = true
	}
	if !files["servelat.jpg"] || !files["salami.mp4"] {
		t.Fatalf("winner did not collect the stakes: %v", files)
	}
	if owner.Balance != newbieBalance || guest.Balance != newbieBalance {
		t.Fatalf("sausage bet must not touch balances")
	}
}

func TestCreateLobbyValidation(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	if _, err := h.CreateLobby(1, GameCards, "weird", 36, BetBalance, 10, ""); err != ErrMode {
		t.Fatalf("mode: got %v", err)
	}
	if _, err := h.CreateLobby(1, GameCards, "classic", 40, BetBalance, 10, ""); err != ErrDeck {
		t.Fatalf("deck: got %v", err)
	}
	if _, err := h.CreateLobby(1, GameCards, "classic", 36, "gold", 10, ""); err != ErrBetType {
		t.Fatalf("bet type: got %v", err)
	}
	if _, err := h.CreateLobby(1, GameCards, "classic", 36, BetBalance, 0, ""); err != ErrBetAmount {
		t.Fatalf("bet amount: got %v", err)
	}
	if _, err := h.CreateLobby(1, GameCards, "classic", 36, BetBalance, 500, ""); err != ErrFunds {
		t.Fatalf("funds: got %v", err)
	}
	if _, err := h.CreateLobby(1, GameCards, "classic", 36, BetBalance, 10, ""); err != nil {
		t.Fatalf("valid lobby rejected: %v", err)
	}
	// One lobby per game at a time.
	if _, err := h.CreateLobby(1, GameCards, "classic", 36, BetBalance, 10, ""); err != ErrLobby {
		t.Fatalf("second lobby: got %v", err)
	}
}

func TestTopUpStars(t *testing.T) {
	h := newTestHub()
	seedUser(h, 1, "alice")
	state, err := h.TopUpStars(1, 50)
	if err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if state.Stars != newbieStars+50 {
		t.Fatalf("stars = %d", state.Stars)
	}
	if _, err := h.TopUpStars(1, 0); err != ErrAmount {
		t.Fatalf("zero amount: got %v", err)
	}
}
