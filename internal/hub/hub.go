package hub

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"kazikapp/internal/auth"
	"kazikapp/internal/catalog"
	"kazikapp/internal/kazik"
	"kazikapp/internal/logging"
	"kazikapp/internal/storage"
)

// Error is a machine-readable rejection code shared with the client.
type Error string

func (e Error) Error() string { return string(e) }

// Rejection codes produced by the hub itself; game engines add their own.
const (
	ErrNoStars       = Error("no_stars")
	ErrInvalid       = Error("invalid")
	ErrFunds         = Error("funds")
	ErrItem          = Error("item")
	ErrItemPrice     = Error("item_price")
	ErrNotFound      = Error("not_found")
	ErrClosed        = Error("closed")
	ErrFull          = Error("full")
	ErrActive        = Error("active")
	ErrOwner         = Error("owner")
	ErrStarted       = Error("started")
	ErrPlayers       = Error("players")
	ErrMode          = Error("mode")
	ErrDeck          = Error("deck")
	ErrBetType       = Error("bet_type")
	ErrBetAmount     = Error("bet_amount")
	ErrLobby         = Error("lobby")
	ErrMissing       = Error("missing")
	ErrItemsMissing  = Error("items_missing")
	ErrInvalidItems  = Error("invalid_items")
	ErrInvalidTarget = Error("invalid_target")
	ErrChance        = Error("chance")
	ErrAmount        = Error("amount")
)

// Starter resources for accounts the hub has never seen.
const (
	newbieBalance  = 100
	newbieStars    = 5
	newbieFreeRoll = 1
)

// User is the in-memory account state.
type User struct {
	ID      int64
	Name    string
	Balance int
	Stars   int
	Session kazik.Session
}

// Item is one owned card instance.
type Item struct {
	ID   string
	File string
}

// Hub owns all sandbox state: users, inventories and lobbies. A single mutex
// guards everything; the contract is poll-driven and the load is tiny.
type Hub struct {
	mu        sync.Mutex
	users     map[int64]*User
	items     map[int64][]Item
	lobbies   map[string]*Lobby
	cat       *catalog.Catalog
	store     *storage.Store
	rng       *rand.Rand
	mediaBase string
}

// New creates a hub and starts the finished-lobby cleanup goroutine.
func New(cat *catalog.Catalog, store *storage.Store, mediaBase string) *Hub {
	h := &Hub{
		users:     make(map[int64]*User),
		items:     make(map[int64][]Item),
		lobbies:   make(map[string]*Lobby),
		cat:       cat,
		store:     store,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		mediaBase: mediaBase,
	}
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			h.mu.Lock()
			for id, lobby := range h.lobbies {
				if lobby.Status == StatusFinished && time.Since(lobby.LastSeen) > time.Hour {
					delete(h.lobbies, id)
				}
			}
			h.mu.Unlock()
		}
	}()
	return h
}

// Restore preloads persisted users and inventory, typically at boot. Active
// lobbies are not restored; unfinished tables do not survive a restart.
func (h *Hub) Restore(users []storage.User, items []storage.InventoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, row := range users {
		user := &User{
			ID:      row.UserID,
			Name:    row.Name,
			Balance: row.Balance,
			Stars:   row.Stars,
			Session: kazik.Session{
				VIP:         row.VIP,
				DailyUsed:   row.DailyUsed,
				BonusSpins:  row.BonusSpins,
				FreeRolls:   row.FreeRolls,
				PaidCounter: row.PaidCounter,
				NoWinStreak: row.NoWinStreak,
			},
		}
		if row.ResetStartedAt != nil {
			user.Session.ResetStartedAt = *row.ResetStartedAt
		}
		h.users[user.ID] = user
	}
	for _, row := range items {
		h.items[row.UserID] = append(h.items[row.UserID], Item{ID: row.ItemID, File: row.File})
	}
	logging.Infof("hub: restored %d users, %d items", len(users), len(items))
}

// GetOrCreateUser resolves the account for an authenticated Telegram user,
// seeding starter resources on first contact.
func (h *Hub) GetOrCreateUser(au auth.User) *User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.getOrCreateLocked(au)
}

func (h *Hub) getOrCreateLocked(au auth.User) *User {
	if user, ok := h.users[au.ID]; ok {
		user.Name = au.DisplayName()
		return user
	}
	user := &User{
		ID:      au.ID,
		Name:    au.DisplayName(),
		Balance: newbieBalance,
		Stars:   newbieStars,
		Session: kazik.Session{FreeRolls: newbieFreeRoll},
	}
	h.users[au.ID] = user
	h.persistUser(user)
	logging.Debugf("hub: new user %d (%s)", user.ID, user.Name)
	return user
}

func (h *Hub) persistUser(user *User) {
	row := storage.User{
		UserID:      user.ID,
		Name:        user.Name,
		Balance:     user.Balance,
		Stars:       user.Stars,
		VIP:         user.Session.VIP,
		DailyUsed:   user.Session.DailyUsed,
		BonusSpins:  user.Session.BonusSpins,
		FreeRolls:   user.Session.FreeRolls,
		PaidCounter: user.Session.PaidCounter,
		NoWinStreak: user.Session.NoWinStreak,
	}
	if !user.Session.ResetStartedAt.IsZero() {
		t := user.Session.ResetStartedAt
		row.ResetStartedAt = &t
	}
	if err := h.store.SaveUser(context.Background(), row); err != nil {
		logging.Errorf("hub: persist user %d: %v", user.ID, err)
	}
}

func (h *Hub) addItem(userID int64, file string) Item {
	item := Item{ID: fmt.Sprintf("it_%d_%s", userID, uuid.NewString()[:8]), File: file}
	h.items[userID] = append([]Item{item}, h.items[userID]...)
	if err := h.store.SaveItem(context.Background(), storage.InventoryItem{
		ItemID: item.ID,
		UserID: userID,
		File:   file,
	}); err != nil {
		logging.Errorf("hub: persist item %s: %v", item.ID, err)
	}
	return item
}

// takeItem removes and returns the item with the given id from the user's
// inventory.
func (h *Hub) takeItem(userID int64, itemID string) (Item, bool) {
	items := h.items[userID]
	for i, item := range items {
		if item.ID == itemID {
			h.items[userID] = append(items[:i:i], items[i+1:]...)
			if err := h.store.DeleteItem(context.Background(), itemID); err != nil {
				logging.Errorf("hub: delete item %s: %v", itemID, err)
			}
			return item, true
		}
	}
	return Item{}, false
}

func (h *Hub) findItem(userID int64, itemID string) (Item, bool) {
	for _, item := range h.items[userID] {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// ItemView is the inventory item shape sent to the client.
type ItemView struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	MediaURL    string `json:"media_url"`
}

func (h *Hub) itemView(item Item, card catalog.Card) ItemView {
	return ItemView{
		ID:          item.ID,
		File:        card.File,
		Name:        card.Name,
		Rarity:      card.Rarity,
		RarityLabel: card.RarityLabel(),
		Price:       card.Price,
		MediaURL:    card.MediaURL(h.mediaBase),
	}
}

// Inventory lists the user's items priced at or above minPrice. With
// upgradeOnly set, items excluded from upgrades are dropped instead.
func (h *Hub) Inventory(userID int64, minPrice int, upgradeOnly bool) []ItemView {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]ItemView, 0, len(h.items[userID]))
	for _, item := range h.items[userID] {
		card, ok := h.cat.ByFile(item.File)
		if !ok || card.Price <= 0 {
			continue
		}
		if upgradeOnly && !catalog.UpgradeAllowed(card, ok) {
			continue
		}
		if card.Price < minPrice {
			continue
		}
		result = append(result, h.itemView(item, card))
	}
	return result
}

// StateView is the session snapshot for /state.
type StateView struct {
	Balance int       `json:"balance"`
	Stars   int       `json:"stars"`
	VIP     bool      `json:"vip"`
	Kazik   KazikView `json:"kazik"`
}

// KazikView mirrors the slot block of /state.
type KazikView struct {
	DailyFreeLeft int             `json:"daily_free_left"`
	FreeLimit     int             `json:"free_limit"`
	BonusSpins    int             `json:"bonus_spins"`
	ResetSeconds  int             `json:"reset_seconds"`
	SpinCost      int             `json:"spin_cost"`
	BuyPacks      []kazik.BuyPack `json:"buy_packs"`
	Digits        []int           `json:"digits"`
}

// State builds the session snapshot for the user.
func (h *Hub) State(userID int64) StateView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked(userID)
}

func (h *Hub) stateLocked(userID int64) StateView {
	user := h.users[userID]
	if user == nil {
		return StateView{}
	}
	now := time.Now()
	return StateView{
		Balance: user.Balance,
		Stars:   user.Stars,
		VIP:     user.Session.VIP,
		Kazik: KazikView{
			DailyFreeLeft: user.Session.DailyFreeLeft(now),
			FreeLimit:     user.Session.FreeLimit(),
			BonusSpins:    user.Session.BonusSpins + user.Session.FreeRolls,
			ResetSeconds:  user.Session.ResetRemaining(now),
			SpinCost:      kazik.StarSpinCost,
			BuyPacks:      kazik.BuyPacks,
			Digits:        kazik.Digits,
		},
	}
}

// Reward is the card handed out for a winning spin.
type Reward struct {
	Status      string `json:"status"`
	Name        string `json:"name,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
	RarityLabel string `json:"rarity_label,omitempty"`
	Price       int    `json:"price,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
}

// SpinResult is the outcome of one slot spin.
type SpinResult struct {
	Digits [3]int
	Win    bool
	Reward *Reward
	State  StateView
}

// Spin consumes a spin resource, rolls the reels and hands out a reward on a
// triple.
func (h *Hub) Spin(userID int64) (SpinResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	user := h.users[userID]
	if user == nil {
		return SpinResult{}, ErrNotFound
	}
	now := time.Now()
	user.Session.MaybeReset(now)
	if !user.Session.SpendFree(now) {
		if user.Stars < kazik.StarSpinCost {
			return SpinResult{}, ErrNoStars
		}
		user.Stars -= kazik.StarSpinCost
		user.Session.RecordPaidSpin()
	}

	digits := kazik.RollDigits(h.rng, user.Session.SpinWinChance())
	result := SpinResult{Digits: digits}
	if digit, win := kazik.WinDigit(digits); win {
		result.Win = true
		result.Reward = h.pickReward(userID, digit)
		user.Session.NoWinStreak = 0
	} else {
		user.Session.NoWinStreak++
	}
	h.persistUser(user)
	result.State = h.stateLocked(userID)
	logging.Debugf("hub: spin user=%d digits=%v win=%v", userID, digits, result.Win)
	return result, nil
}

func (h *Hub) pickReward(userID int64, digit int) *Reward {
	var pool []catalog.Card
	for _, rarity := range kazik.RewardRarities(digit) {
		pool = append(pool, h.cat.ByRarity(rarity)...)
	}
	if len(pool) == 0 {
		return &Reward{Status: "missing"}
	}
	card := pool[h.rng.Intn(len(pool))]
	h.addItem(userID, card.File)
	return &Reward{
		Status:      "ok",
		Name:        card.Name,
		Rarity:      card.Rarity,
		RarityLabel: card.RarityLabel(),
		Price:       card.Price,
		MediaURL:    card.MediaURL(h.mediaBase),
		MediaType:   card.MediaType(),
	}
}

// Buy exchanges stars for a bonus spin pack. Returns the confirmation
// message and the refreshed state.
func (h *Hub) Buy(userID int64, spins, cost int) (string, StateView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !kazik.ValidPack(spins, cost) {
		return "", StateView{}, ErrInvalid
	}
	user := h.users[userID]
	if user == nil {
		return "", StateView{}, ErrNotFound
	}
	if user.Stars < cost {
		return "", StateView{}, ErrNoStars
	}
	user.Stars -= cost
	user.Session.BonusSpins += spins
	h.persistUser(user)
	logging.Infof("hub: buy user=%d spins=%d cost=%d", userID, spins, cost)
	return fmt.Sprintf("+%d спинов за %d⭐", spins, cost), h.stateLocked(userID), nil
}

// TopUpStars credits purchased stars. The production deployment settles the
// Telegram Stars invoice before this runs; here the credit is immediate.
func (h *Hub) TopUpStars(userID int64, amount int) (StateView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if amount <= 0 {
		return StateView{}, ErrAmount
	}
	user := h.users[userID]
	if user == nil {
		return StateView{}, ErrNotFound
	}
	user.Stars += amount
	h.persistUser(user)
	logging.Infof("hub: top-up user=%d stars=%d", userID, amount)
	return h.stateLocked(userID), nil
}
