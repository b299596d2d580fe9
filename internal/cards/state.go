package cards

import (
	"math/rand"
	"time"
)

// TurnTimeoutSec is how long the turn owner has before forfeiting.
const TurnTimeoutSec = 60

// handSize is the number of cards players are dealt up to.
const handSize = 6

// Game phases.
const (
	PhaseAttack    = "attack"
	PhaseDefend    = "defend"
	PhaseThrow     = "throw"
	PhaseThrowTake = "throw_take"
	PhaseFinished  = "finished"
)

// Game modes.
const (
	ModeClassic   = "classic"
	ModePodkidnoy = "podkidnoy"
	ModeTransfer  = "transfer"
)

// Statuses.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// TablePair is one attack card and the card covering it, if any.
type TablePair struct {
	Attack  *Card `json:"attack"`
	Defense *Card `json:"defense"`
}

// Player holds the per-seat state; Hand is only revealed to its owner.
type Player struct {
	UserID   int64
	Name     string
	Hand     []Card
	Finished bool
}

// Seed identifies a player joining a new game.
type Seed struct {
	UserID int64
	Name   string
}

// State is the authoritative durak game state.
type State struct {
	Status        string
	Mode          string
	DeckSize      int
	Order         []int64
	Players       []*Player
	Deck          []Card
	Discard       []Card
	Trump         *Card
	Table         []TablePair
	AttackerIndex int
	DefenderIndex int
	Phase         string
	Passes        []int64
	PendingTake   bool
	MaxAttack     int
	FinishOrder   []int64
	WinnerID      *int64
	TurnOwnerID   *int64
	TurnStartedAt int64
}

// NewState deals a fresh game. The first attacker is whoever holds the lowest
// trump.
func NewState(seeds []Seed, deckSize int, mode string, rng *rand.Rand) *State {
	deck := shuffledDeck(deckSize, rng)
	var trump *Card
	if len(deck) > 0 {
		t := deck[len(deck)-1]
		trump = &t
	}
	order := make([]int64, 0, len(seeds))
	players := make([]*Player, 0, len(seeds))
	for _, seed := range seeds {
		order = append(order, seed.UserID)
		players = append(players, &Player{UserID: seed.UserID, Name: seed.Name})
	}
	for i := 0; i < handSize; i++ {
		for _, p := range players {
			if len(deck) == 0 {
				break
			}
			p.Hand = append(p.Hand, deck[len(deck)-1])
			deck = deck[:len(deck)-1]
		}
	}
	s := &State{
		Status:   StatusActive,
		Mode:     mode,
		DeckSize: deckSize,
		Order:    order,
		Players:  players,
		Deck:     deck,
		Trump:    trump,
		Table:    []TablePair{},
		Phase:    PhaseAttack,
	}
	if trump != nil {
		s.AttackerIndex = s.lowestTrumpIndex(trump.Suit)
	}
	s.DefenderIndex = s.nextActiveIndex(s.AttackerIndex)
	if defender := s.playerAt(s.DefenderIndex); defender != nil {
		s.MaxAttack = min(len(defender.Hand), handSize)
	}
	if len(order) > 0 {
		s.setTurn(&order[s.AttackerIndex])
	}
	return s
}

func (s *State) lowestTrumpIndex(trump string) int {
	lowest := -1
	index := 0
	for i, p := range s.Players {
		for _, card := range p.Hand {
			if card.Suit != trump {
				continue
			}
			if lowest == -1 || card.Value < lowest {
				lowest = card.Value
				index = i
			}
		}
	}
	return index
}

// nextActiveIndex finds the next unfinished seat after start, wrapping around.
func (s *State) nextActiveIndex(start int) int {
	count := len(s.Order)
	if count == 0 {
		return 0
	}
	for offset := 1; offset <= count; offset++ {
		idx := (start + offset) % count
		if p := s.playerAt(idx); p != nil && !p.Finished {
			return idx
		}
	}
	return start
}

func (s *State) playerAt(index int) *Player {
	if index < 0 || index >= len(s.Order) {
		return nil
	}
	return s.playerByID(s.Order[index])
}

func (s *State) playerByID(userID int64) *Player {
	for _, p := range s.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (s *State) orderID(index int) *int64 {
	if index < 0 || index >= len(s.Order) {
		return nil
	}
	id := s.Order[index]
	return &id
}

// AttackerID returns the current attacker, if any.
func (s *State) AttackerID() *int64 { return s.orderID(s.AttackerIndex) }

// DefenderID returns the current defender, if any.
func (s *State) DefenderID() *int64 { return s.orderID(s.DefenderIndex) }

func (s *State) setTurn(userID *int64) {
	if userID == nil {
		s.TurnOwnerID = nil
		s.TurnStartedAt = 0
		return
	}
	id := *userID
	s.TurnOwnerID = &id
	s.TurnStartedAt = time.Now().Unix()
}

func (s *State) turnOwnerFromPhase() *int64 {
	switch s.Phase {
	case PhaseAttack, PhaseThrow, PhaseThrowTake:
		return s.AttackerID()
	case PhaseDefend:
		return s.DefenderID()
	}
	return nil
}

func (s *State) syncTurn() {
	if s.Status != StatusActive {
		s.setTurn(nil)
		return
	}
	s.setTurn(s.turnOwnerFromPhase())
}

// PlayerView is the per-seat view; Hand is present only for the viewer.
type PlayerView struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	HandCount int    `json:"hand_count"`
	Finished  bool   `json:"finished"`
	Hand      []Card `json:"hand,omitempty"`
}

// View is the serialized game state for one viewer.
type View struct {
	Status         string       `json:"status"`
	Mode           string       `json:"mode"`
	DeckSize       int          `json:"deck_size"`
	Trump          *Card        `json:"trump"`
	Table          []TablePair  `json:"table"`
	DiscardCount   int          `json:"discard_count"`
	DeckCount      int          `json:"deck_count"`
	Players        []PlayerView `json:"players"`
	Order          []int64      `json:"order"`
	AttackerID     *int64       `json:"attacker_id"`
	DefenderID     *int64       `json:"defender_id"`
	Phase          string       `json:"phase"`
	PendingTake    bool         `json:"pending_take"`
	MaxAttack      int          `json:"max_attack"`
	WinnerID       *int64       `json:"winner_id"`
	FinishOrder    []int64      `json:"finish_order"`
	TurnOwnerID    *int64       `json:"turn_owner_id"`
	TurnStartedAt  int64        `json:"turn_started_at"`
	TurnTimeoutSec int          `json:"turn_timeout_sec"`
}

// View serializes the state for viewerID, revealing only their own hand.
func (s *State) View(viewerID int64) View {
	players := make([]PlayerView, 0, len(s.Players))
	for _, p := range s.Players {
		pv := PlayerView{
			UserID:    p.UserID,
			Name:      p.Name,
			HandCount: len(p.Hand),
			Finished:  p.Finished,
		}
		if p.UserID == viewerID {
			pv.Hand = p.Hand
		}
		players = append(players, pv)
	}
	return View{
		Status:         s.Status,
		Mode:           s.Mode,
		DeckSize:       s.DeckSize,
		Trump:          s.Trump,
		Table:          s.Table,
		DiscardCount:   len(s.Discard),
		DeckCount:      len(s.Deck),
		Players:        players,
		Order:          s.Order,
		AttackerID:     s.AttackerID(),
		DefenderID:     s.DefenderID(),
		Phase:          s.Phase,
		PendingTake:    s.PendingTake,
		MaxAttack:      s.MaxAttack,
		WinnerID:       s.WinnerID,
		FinishOrder:    s.FinishOrder,
		TurnOwnerID:    s.TurnOwnerID,
		TurnStartedAt:  s.TurnStartedAt,
		TurnTimeoutSec: TurnTimeoutSec,
	}
}
