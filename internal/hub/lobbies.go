package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"kazikapp/internal/cards"
	"kazikapp/internal/chess"
	"kazikapp/internal/logging"
	"kazikapp/internal/storage"
)

// Games.
const (
	GameCards = "cards"
	GameChess = "chess"
)

// Lobby statuses.
const (
	StatusOpen     = "open"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Bet types.
const (
	BetBalance = "balance"
	BetSausage = "sausage"
)

const maxCardsPlayers = 4

// Stake is what one player put on the line to enter a lobby.
type Stake struct {
	Type   string
	Amount int
	File   string
}

// Seat is one joined player before the game starts.
type Seat struct {
	UserID int64
	Name   string
}

// Lobby is one durak or chess table.
type Lobby struct {
	ID        string
	Game      string
	Mode      string
	DeckSize  int
	BetType   string
	BetAmount int
	OwnerID   int64
	Status    string
	Seats     []Seat
	Stakes    map[int64]Stake
	Cards     *cards.State
	Chess     *chess.State
	Settled   bool
	LastSeen  time.Time
}

func (l *Lobby) seated(userID int64) bool {
	for _, seat := range l.Seats {
		if seat.UserID == userID {
			return true
		}
	}
	return false
}

func (l *Lobby) maxPlayers() int {
	if l.Game == GameChess {
		return 2
	}
	return maxCardsPlayers
}

// LobbyView is the lobby list entry sent to the client. Players is a seat
// count; names are only revealed by the game state endpoints.
type LobbyView struct {
	ID        string `json:"lobby_id"`
	Mode      string `json:"mode,omitempty"`
	DeckSize  int    `json:"deck_size,omitempty"`
	BetType   string `json:"bet_type"`
	BetAmount int    `json:"bet_amount"`
	OwnerID   int64  `json:"owner_id"`
	Status    string `json:"status"`
	Players   int    `json:"players"`
	Joined    bool   `json:"joined"`
}

func (h *Hub) lobbyView(l *Lobby, viewerID int64) LobbyView {
	return LobbyView{
		ID:        l.ID,
		Mode:      l.Mode,
		DeckSize:  l.DeckSize,
		BetType:   l.BetType,
		BetAmount: l.BetAmount,
		OwnerID:   l.OwnerID,
		Status:    l.Status,
		Players:   len(l.Seats),
		Joined:    l.seated(viewerID),
	}
}

// Lobbies lists every non-finished lobby for a game and reports which lobby
// the viewer currently sits in, if any.
func (h *Hub) Lobbies(game string, viewerID int64) ([]LobbyView, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]LobbyView, 0)
	current := ""
	for _, lobby := range h.lobbies {
		if lobby.Game != game || lobby.Status == StatusFinished {
			continue
		}
		if lobby.seated(viewerID) {
			current = lobby.ID
		}
		result = append(result, h.lobbyView(lobby, viewerID))
	}
	return result, current
}

// reserveStake validates the bet and withdraws it from the user. The itemID
// is only consulted for sausage bets.
func (h *Hub) reserveStake(user *User, betType string, betAmount int, itemID string) (Stake, error) {
	switch betType {
	case BetBalance:
		if betAmount <= 0 {
			return Stake{}, ErrBetAmount
		}
		if user.Balance < betAmount {
			return Stake{}, ErrFunds
		}
		user.Balance -= betAmount
		return Stake{Type: BetBalance, Amount: betAmount}, nil
	case BetSausage:
		item, ok := h.findItem(user.ID, itemID)
		if !ok {
			return Stake{}, ErrItem
		}
		card, ok := h.cat.ByFile(item.File)
		if !ok || card.Price < betAmount {
			return Stake{}, ErrItemPrice
		}
		h.takeItem(user.ID, item.ID)
		return Stake{Type: BetSausage, Amount: betAmount, File: item.File}, nil
	}
	return Stake{}, ErrBetType
}

// refundStake returns a withdrawn stake to the user.
func (h *Hub) refundStake(user *User, stake Stake) {
	switch stake.Type {
	case BetBalance:
		user.Balance += stake.Amount
	case BetSausage:
		h.addItem(user.ID, stake.File)
	}
}

func validMode(mode string) bool {
	switch mode {
	case cards.ModeClassic, cards.ModePodkidnoy, cards.ModeTransfer:
		return true
	}
	return false
}

// CreateLobby opens a new lobby with the creator seated and staked. For chess
// the mode and deck size are ignored.
func (h *Hub) CreateLobby(userID int64, game, mode string, deckSize int, betType string, betAmount int, itemID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	user := h.users[userID]
	if user == nil {
		return "", ErrNotFound
	}
	if game == GameCards {
		if !validMode(mode) {
			return "", ErrMode
		}
		if deckSize != 36 && deckSize != 52 {
			return "", ErrDeck
		}
	} else {
		mode = ""
		deckSize = 0
	}
	for _, lobby := range h.lobbies {
		if lobby.Game == game && lobby.Status != StatusFinished && lobby.seated(userID) {
			return "", ErrLobby
		}
	}
	stake, err := h.reserveStake(user, betType, betAmount, itemID)
	if err != nil {
		return "", err
	}
	lobby := &Lobby{
		ID:        uuid.NewString(),
		Game:      game,
		Mode:      mode,
		DeckSize:  deckSize,
		BetType:   betType,
		BetAmount: betAmount,
		OwnerID:   userID,
		Status:    StatusOpen,
		Seats:     []Seat{{UserID: userID, Name: user.Name}},
		Stakes:    map[int64]Stake{userID: stake},
		LastSeen:  time.Now(),
	}
	h.lobbies[lobby.ID] = lobby
	h.persistUser(user)
	h.persistLobby(lobby)
	logging.Infof("hub: lobby %s created game=%s owner=%d bet=%s/%d", lobby.ID, game, userID, betType, betAmount)
	return lobby.ID, nil
}

// JoinLobby seats the user in an open lobby, withdrawing their stake. Chess
// lobbies start immediately once the second player joins.
func (h *Hub) JoinLobby(userID int64, game, lobbyID, itemID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	user := h.users[userID]
	if user == nil {
		return ErrNotFound
	}
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != game {
		return ErrNotFound
	}
	if lobby.Status != StatusOpen {
		return ErrClosed
	}
	if lobby.seated(userID) {
		return nil
	}
	if len(lobby.Seats) >= lobby.maxPlayers() {
		return ErrFull
	}
	stake, err := h.reserveStake(user, lobby.BetType, lobby.BetAmount, itemID)
	if err != nil {
		return err
	}
	lobby.Seats = append(lobby.Seats, Seat{UserID: userID, Name: user.Name})
	lobby.Stakes[userID] = stake
	lobby.LastSeen = time.Now()
	if lobby.Game == GameChess && len(lobby.Seats) == 2 {
		h.startLocked(lobby)
	}
	h.persistUser(user)
	h.persistLobby(lobby)
	return nil
}

// LeaveLobby removes the user from an open lobby and refunds their stake.
// The owner leaving dissolves the lobby and refunds everyone. Leaving an
// active game is rejected.
func (h *Hub) LeaveLobby(userID int64, game, lobbyID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != game || !lobby.seated(userID) {
		return ErrNotFound
	}
	if lobby.Status == StatusActive {
		return ErrActive
	}
	if lobby.Status == StatusFinished {
		return nil
	}
	if userID == lobby.OwnerID {
		for _, seat := range lobby.Seats {
			if user := h.users[seat.UserID]; user != nil {
				h.refundStake(user, lobby.Stakes[seat.UserID])
				h.persistUser(user)
			}
		}
		delete(h.lobbies, lobbyID)
		if err := h.store.DeleteLobby(context.Background(), lobbyID); err != nil {
			logging.Errorf("hub: delete lobby %s: %v", lobbyID, err)
		}
		logging.Infof("hub: lobby %s dissolved by owner %d", lobbyID, userID)
		return nil
	}
	for i, seat := range lobby.Seats {
		if seat.UserID == userID {
			lobby.Seats = append(lobby.Seats[:i], lobby.Seats[i+1:]...)
			break
		}
	}
	if user := h.users[userID]; user != nil {
		h.refundStake(user, lobby.Stakes[userID])
		h.persistUser(user)
	}
	delete(lobby.Stakes, userID)
	h.persistLobby(lobby)
	return nil
}

// StartLobby begins a cards game. Only the owner may start, and only with at
// least two seated players.
func (h *Hub) StartLobby(userID int64, lobbyID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby := h.lobbies[lobbyID]
	if lobby == nil || lobby.Game != GameCards {
		return ErrNotFound
	}
	if lobby.OwnerID != userID {
		return ErrOwner
	}
	if lobby.Status != StatusOpen {
		return ErrStarted
	}
	if len(lobby.Seats) < 2 {
		return ErrPlayers
	}
	h.startLocked(lobby)
	h.persistLobby(lobby)
	return nil
}

func (h *Hub) startLocked(lobby *Lobby) {
	lobby.Status = StatusActive
	lobby.LastSeen = time.Now()
	switch lobby.Game {
	case GameCards:
		seeds := make([]cards.Seed, 0, len(lobby.Seats))
		for _, seat := range lobby.Seats {
			seeds = append(seeds, cards.Seed{UserID: seat.UserID, Name: seat.Name})
		}
		lobby.Cards = cards.NewState(seeds, lobby.DeckSize, lobby.Mode, h.rng)
	case GameChess:
		seeds := make([]chess.Seed, 0, len(lobby.Seats))
		for _, seat := range lobby.Seats {
			seeds = append(seeds, chess.Seed{UserID: seat.UserID, Name: seat.Name})
		}
		lobby.Chess = chess.NewState(seeds)
	}
	logging.Infof("hub: lobby %s started game=%s players=%d", lobby.ID, lobby.Game, len(lobby.Seats))
}

// settleLocked pays out a finished game exactly once: the pot for balance
// bets, every staked card for sausage bets.
func (h *Hub) settleLocked(lobby *Lobby, winnerID *int64) {
	if lobby.Settled {
		return
	}
	lobby.Settled = true
	lobby.Status = StatusFinished
	lobby.LastSeen = time.Now()
	if winnerID == nil {
		for id, stake := range lobby.Stakes {
			if user := h.users[id]; user != nil {
				h.refundStake(user, stake)
				h.persistUser(user)
			}
		}
		h.persistLobby(lobby)
		return
	}
	winner := h.users[*winnerID]
	if winner == nil {
		h.persistLobby(lobby)
		return
	}
	for _, stake := range lobby.Stakes {
		switch stake.Type {
		case BetBalance:
			winner.Balance += stake.Amount
		case BetSausage:
			h.addItem(winner.ID, stake.File)
		}
	}
	h.persistUser(winner)
	h.persistLobby(lobby)
	logging.Infof("hub: lobby %s settled winner=%d", lobby.ID, *winnerID)
}

func (h *Hub) persistLobby(lobby *Lobby) {
	row := storage.Lobby{
		LobbyID:   lobby.ID,
		Game:      lobby.Game,
		Status:    lobby.Status,
		Mode:      lobby.Mode,
		DeckSize:  lobby.DeckSize,
		BetType:   lobby.BetType,
		BetAmount: lobby.BetAmount,
		OwnerID:   lobby.OwnerID,
	}
	var state any
	if lobby.Cards != nil {
		state = lobby.Cards
	} else if lobby.Chess != nil {
		state = lobby.Chess
	}
	if state != nil {
		if raw, err := json.Marshal(state); err == nil {
			row.State = string(raw)
		}
	}
	if err := h.store.SaveLobby(context.Background(), row); err != nil {
		logging.Errorf("hub: persist lobby %s: %v", lobby.ID, err)
	}
}
