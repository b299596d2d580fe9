package api

import (
	"context"
	"net/url"
	"strconv"

	"kazikapp/internal/cards"
	"kazikapp/internal/chess"
)

// BuyPack is one purchasable spin bundle.
type BuyPack struct {
	Spins int `json:"spins"`
	Cost  int `json:"cost"`
}

// Kazik is the slot block of the session state.
type Kazik struct {
	DailyFreeLeft int       `json:"daily_free_left"`
	FreeLimit     int       `json:"free_limit"`
	BonusSpins    int       `json:"bonus_spins"`
	ResetSeconds  int       `json:"reset_seconds"`
	SpinCost      int       `json:"spin_cost"`
	BuyPacks      []BuyPack `json:"buy_packs"`
	Digits        []int     `json:"digits"`
}

// State is the session snapshot.
type State struct {
	Balance int   `json:"balance"`
	Stars   int   `json:"stars"`
	VIP     bool  `json:"vip"`
	Kazik   Kazik `json:"kazik"`
}

// Reward is the card handed out for a winning spin.
type Reward struct {
	Status      string `json:"status"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	MediaURL    string `json:"media_url"`
	MediaType   string `json:"media_type"`
}

// SpinResult is the outcome of one slot spin.
type SpinResult struct {
	Digits [3]int  `json:"digits"`
	Win    bool    `json:"win"`
	Reward *Reward `json:"reward"`
	State  State   `json:"state"`
}

// BuyResult confirms a spin pack purchase.
type BuyResult struct {
	Message string `json:"message"`
	State   State  `json:"state"`
}

// Item is one inventory entry.
type Item struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	MediaURL    string `json:"media_url"`
}

// Target is one upgrade candidate.
type Target struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	Chance      int    `json:"chance"`
	MediaURL    string `json:"media_url"`
}

// TargetsResult is the upgrade target listing.
type TargetsResult struct {
	TotalValue int      `json:"total_value"`
	Filter     int      `json:"filter"`
	Targets    []Target `json:"targets"`
}

// RollReward describes the target card of an upgrade attempt; the server
// sends it on every roll, win or lose.
type RollReward struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	MediaURL    string `json:"media_url"`
}

// RollResult is the outcome of one upgrade attempt.
type RollResult struct {
	Success    bool       `json:"success"`
	Chance     int        `json:"chance"`
	TotalValue int        `json:"total_value"`
	Reward     RollReward `json:"reward"`
}

// Lobby is one lobby list entry. Players is a seat count.
type Lobby struct {
	ID        string `json:"lobby_id"`
	Mode      string `json:"mode"`
	DeckSize  int    `json:"deck_size"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
	OwnerID   int64  `json:"owner_id"`
	Status    string `json:"status"`
	Players   int    `json:"players"`
	Joined    bool   `json:"joined"`
}

// Lobbies is the lobby listing plus the lobby the viewer already sits in.
type Lobbies struct {
	Lobbies []Lobby `json:"lobbies"`
	Current string  `json:"current_lobby"`
}

// CardsState is the durak game payload with its lobby metadata.
type CardsState struct {
	cards.View
	LobbyID   string `json:"lobby_id"`
	OwnerID   int64  `json:"owner_id"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
}

// ChessState is the chess game payload with its lobby metadata.
type ChessState struct {
	chess.View
	LobbyID   string `json:"lobby_id"`
	OwnerID   int64  `json:"owner_id"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
}

// CreateLobby are the parameters for opening a new lobby. Mode and DeckSize
// only apply to cards; ItemID only to sausage bets.
type CreateLobby struct {
	Mode      string `json:"mode,omitempty"`
	DeckSize  int    `json:"deck_size,omitempty"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
	ItemID    string `json:"item_id,omitempty"`
}

// State fetches the session snapshot.
func (c *Client) State(ctx context.Context) (*State, error) {
	var out State
	if err := c.get(ctx, "/miniapp/api/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Spin performs one slot spin.
func (c *Client) Spin(ctx context.Context) (*SpinResult, error) {
	var out SpinResult
	if err := c.post(ctx, "/miniapp/api/spin", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Buy purchases a spin pack for stars.
func (c *Client) Buy(ctx context.Context, spins, cost int) (*BuyResult, error) {
	body := struct {
		Spins int `json:"spins"`
		Cost  int `json:"cost"`
	}{spins, cost}
	var out BuyResult
	if err := c.post(ctx, "/miniapp/api/buy", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OpenStars starts a star top-up for the given amount.
func (c *Client) OpenStars(ctx context.Context, amount int) (*State, error) {
	body := struct {
		Amount int `json:"amount"`
	}{amount}
	var out State
	if err := c.post(ctx, "/miniapp/api/open_stars", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type itemsPayload struct {
	Items []Item `json:"items"`
}

// UpgradeInventory lists items eligible as upgrade sources.
func (c *Client) UpgradeInventory(ctx context.Context, minPrice int) ([]Item, error) {
	query := url.Values{}
	if minPrice > 0 {
		query.Set("min_price", strconv.Itoa(minPrice))
	}
	var out itemsPayload
	if err := c.get(ctx, "/miniapp/api/upgrade/inventory", query, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpgradeTargets lists reachable targets for the selected items.
func (c *Client) UpgradeTargets(ctx context.Context, items []string, filter int) (*TargetsResult, error) {
	body := struct {
		Items  []string `json:"item_ids"`
		Filter int      `json:"filter"`
	}{items, filter}
	var out TargetsResult
	if err := c.post(ctx, "/miniapp/api/upgrade/targets", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpgradeRoll attempts to convert the selected items into the target card.
func (c *Client) UpgradeRoll(ctx context.Context, items []string, target string) (*RollResult, error) {
	body := struct {
		Items  []string `json:"item_ids"`
		Target string   `json:"target_file"`
	}{items, target}
	var out RollResult
	if err := c.post(ctx, "/miniapp/api/upgrade/roll", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CardsLobbies lists durak lobbies.
func (c *Client) CardsLobbies(ctx context.Context) (*Lobbies, error) {
	var out Lobbies
	if err := c.get(ctx, "/miniapp/api/cards/lobbies", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CardsInventory lists items eligible for a sausage bet.
func (c *Client) CardsInventory(ctx context.Context, minPrice int) ([]Item, error) {
	query := url.Values{}
	if minPrice > 0 {
		query.Set("min_price", strconv.Itoa(minPrice))
	}
	var out itemsPayload
	if err := c.get(ctx, "/miniapp/api/cards/inventory", query, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type createdPayload struct {
	LobbyID string `json:"lobby_id"`
}

// CardsCreate opens a durak lobby and returns its id.
func (c *Client) CardsCreate(ctx context.Context, params CreateLobby) (string, error) {
	var out createdPayload
	if err := c.post(ctx, "/miniapp/api/cards/create", params, &out); err != nil {
		return "", err
	}
	return out.LobbyID, nil
}

type joinPayload struct {
	LobbyID string `json:"lobby_id"`
	ItemID  string `json:"item_id,omitempty"`
}

// CardsJoin seats the user in a durak lobby.
func (c *Client) CardsJoin(ctx context.Context, lobbyID, itemID string) error {
	return c.post(ctx, "/miniapp/api/cards/join", joinPayload{lobbyID, itemID}, nil)
}

// CardsLeave leaves an open durak lobby.
func (c *Client) CardsLeave(ctx context.Context, lobbyID string) error {
	return c.post(ctx, "/miniapp/api/cards/leave", joinPayload{LobbyID: lobbyID}, nil)
}

// CardsStart begins the game in an owned durak lobby.
func (c *Client) CardsStart(ctx context.Context, lobbyID string) error {
	return c.post(ctx, "/miniapp/api/cards/start", joinPayload{LobbyID: lobbyID}, nil)
}

// CardsState fetches the durak game state.
func (c *Client) CardsState(ctx context.Context, lobbyID string) (*CardsState, error) {
	query := url.Values{"lobby_id": {lobbyID}}
	var out CardsState
	if err := c.get(ctx, "/miniapp/api/cards/state", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CardsAction applies a durak action and returns the refreshed state.
func (c *Client) CardsAction(ctx context.Context, lobbyID, action, card string, targetIndex int) (*CardsState, error) {
	body := struct {
		LobbyID     string `json:"lobby_id"`
		Action      string `json:"action"`
		Card        string `json:"card_id,omitempty"`
		TargetIndex int    `json:"target_index"`
	}{lobbyID, action, card, targetIndex}
	var out CardsState
	if err := c.post(ctx, "/miniapp/api/cards/action", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChessLobbies lists chess lobbies.
func (c *Client) ChessLobbies(ctx context.Context) (*Lobbies, error) {
	var out Lobbies
	if err := c.get(ctx, "/miniapp/api/chess/lobbies", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChessCreate opens a chess lobby and returns its id.
func (c *Client) ChessCreate(ctx context.Context, params CreateLobby) (string, error) {
	var out createdPayload
	if err := c.post(ctx, "/miniapp/api/chess/create", params, &out); err != nil {
		return "", err
	}
	return out.LobbyID, nil
}

// ChessJoin seats the user in a chess lobby; the game starts once both
// seats are filled.
func (c *Client) ChessJoin(ctx context.Context, lobbyID, itemID string) error {
	return c.post(ctx, "/miniapp/api/chess/join", joinPayload{lobbyID, itemID}, nil)
}

// ChessLeave leaves an open chess lobby.
func (c *Client) ChessLeave(ctx context.Context, lobbyID string) error {
	return c.post(ctx, "/miniapp/api/chess/leave", joinPayload{LobbyID: lobbyID}, nil)
}

// ChessState fetches the chess game state.
func (c *Client) ChessState(ctx context.Context, lobbyID string) (*ChessState, error) {
	query := url.Values{"lobby_id": {lobbyID}}
	var out ChessState
	if err := c.get(ctx, "/miniapp/api/chess/state", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChessMove applies a move and returns the refreshed state.
func (c *Client) ChessMove(ctx context.Context, lobbyID string, mv chess.Move) (*ChessState, error) {
	body := struct {
		LobbyID string `json:"lobby_id"`
		Action  string `json:"action"`
		chess.Move
	}{lobbyID, chess.ActionMove, mv}
	var out ChessState
	if err := c.post(ctx, "/miniapp/api/chess/action", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChessResign forfeits the game.
func (c *Client) ChessResign(ctx context.Context, lobbyID string) (*ChessState, error) {
	body := struct {
		LobbyID string `json:"lobby_id"`
		Action  string `json:"action"`
	}{lobbyID, chess.ActionResign}
	var out ChessState
	if err := c.post(ctx, "/miniapp/api/chess/action", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
