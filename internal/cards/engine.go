package cards

import "time"

// Error is a machine-readable action rejection code; the client maps these to
// user-facing messages.
type Error string

func (e Error) Error() string { return string(e) }

// Action rejection codes.
const (
	ErrGameClosed      = Error("game_closed")
	ErrNotPlayer       = Error("not_player")
	ErrNotTurn         = Error("not_turn")
	ErrCardMissing     = Error("card_missing")
	ErrLimit           = Error("limit")
	ErrRank            = Error("rank")
	ErrTarget          = Error("target")
	ErrAlreadyDefended = Error("already_defended")
	ErrNoBeat          = Error("no_beat")
	ErrUnknownAction   = Error("action")
)

// Action names accepted by Apply.
const (
	ActionAttack = "attack"
	ActionDefend = "defend"
	ActionThrow  = "throw"
	ActionTake   = "take"
	ActionPass   = "pass"
)

func (s *State) selectCard(p *Player, cardID string) *Card {
	for i := range p.Hand {
		if p.Hand[i].ID() == cardID {
			card := p.Hand[i]
			return &card
		}
	}
	return nil
}

func (s *State) removeCard(p *Player, card Card) {
	for i := range p.Hand {
		if p.Hand[i].ID() == card.ID() {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

func (s *State) tableRanks() map[string]struct{} {
	ranks := make(map[string]struct{}, len(s.Table)*2)
	for _, pair := range s.Table {
		if pair.Attack != nil {
			ranks[pair.Attack.Rank] = struct{}{}
		}
		if pair.Defense != nil {
			ranks[pair.Defense.Rank] = struct{}{}
		}
	}
	return ranks
}

// canAttack reports whether a card may be added to the table: any card opens
// a round, afterwards only ranks already on the table.
func (s *State) canAttack(card Card) bool {
	if len(s.Table) == 0 {
		return true
	}
	_, ok := s.tableRanks()[card.Rank]
	return ok
}

// Apply validates and applies one player action. cardID and targetIndex are
// optional depending on the action.
func (s *State) Apply(userID int64, action, cardID string, targetIndex int) error {
	if s.Status != StatusActive {
		return ErrGameClosed
	}
	player := s.playerByID(userID)
	if player == nil || player.Finished {
		return ErrNotPlayer
	}

	trumpSuit := ""
	if s.Trump != nil {
		trumpSuit = s.Trump.Suit
	}
	attackerID := s.AttackerID()
	defenderID := s.DefenderID()

	var card *Card
	if cardID != "" {
		card = s.selectCard(player, cardID)
	}

	switch action {
	case ActionAttack:
		if attackerID == nil || *attackerID != userID || s.Phase != PhaseAttack {
			return ErrNotTurn
		}
		if card == nil {
			return ErrCardMissing
		}
		if len(s.Table) >= s.MaxAttack {
			return ErrLimit
		}
		if !s.canAttack(*card) {
			return ErrRank
		}
		s.removeCard(player, *card)
		s.Table = append(s.Table, TablePair{Attack: card})
		s.Phase = PhaseDefend
		s.syncTurn()
		return nil

	case ActionDefend:
		if defenderID == nil || *defenderID != userID || s.Phase != PhaseDefend {
			return ErrNotTurn
		}
		if card == nil {
			return ErrCardMissing
		}
		if targetIndex < 0 || targetIndex >= len(s.Table) {
			return ErrTarget
		}
		target := &s.Table[targetIndex]
		if target.Defense != nil {
			return ErrAlreadyDefended
		}
		if target.Attack == nil || !beats(*target.Attack, *card, trumpSuit) {
			if !s.canTransfer(*card, *target) {
				return ErrNoBeat
			}
			s.transfer(player, *card)
			return nil
		}
		s.removeCard(player, *card)
		target.Defense = card
		if s.allDefended() {
			s.Phase = PhaseThrow
		}
		s.syncTurn()
		return nil

	case ActionTake:
		if defenderID == nil || *defenderID != userID || s.Phase != PhaseDefend {
			return ErrNotTurn
		}
		s.PendingTake = true
		s.Phase = PhaseThrowTake
		s.syncTurn()
		return nil

	case ActionThrow:
		if defenderID != nil && *defenderID == userID {
			return ErrNotTurn
		}
		if s.Phase != PhaseThrow && s.Phase != PhaseThrowTake {
			return ErrNotTurn
		}
		if s.Mode == ModeClassic && (attackerID == nil || *attackerID != userID) {
			return ErrNotTurn
		}
		if card == nil {
			return ErrCardMissing
		}
		if len(s.Table) >= s.MaxAttack {
			return ErrLimit
		}
		if !s.canAttack(*card) {
			return ErrRank
		}
		s.removeCard(player, *card)
		s.Table = append(s.Table, TablePair{Attack: card})
		if s.PendingTake {
			s.Phase = PhaseThrowTake
		} else {
			s.Phase = PhaseDefend
		}
		s.Passes = nil
		s.syncTurn()
		return nil

	case ActionPass:
		if defenderID != nil && *defenderID == userID {
			return ErrNotTurn
		}
		if s.Phase != PhaseThrow && s.Phase != PhaseThrowTake {
			return ErrNotTurn
		}
		if s.Mode == ModeClassic && (attackerID == nil || *attackerID != userID) {
			return ErrNotTurn
		}
		s.recordPass(userID)
		if s.allEligiblePassed(defenderID) {
			s.resolveRound(s.PendingTake)
		}
		s.syncTurn()
		return nil
	}
	return ErrUnknownAction
}

// canTransfer reports whether the defender may shift the attack to the next
// player by matching the attacking rank (transfer mode, nothing covered yet).
func (s *State) canTransfer(card Card, target TablePair) bool {
	if s.Mode != ModeTransfer {
		return false
	}
	for _, pair := range s.Table {
		if pair.Defense != nil {
			return false
		}
	}
	return target.Attack != nil && card.Rank == target.Attack.Rank
}

func (s *State) transfer(player *Player, card Card) {
	s.removeCard(player, card)
	c := card
	s.Table = append(s.Table, TablePair{Attack: &c})
	newDefender := s.nextActiveIndex(s.DefenderIndex)
	s.AttackerIndex = s.DefenderIndex
	s.DefenderIndex = newDefender
	if defender := s.playerAt(newDefender); defender != nil {
		s.MaxAttack = min(len(defender.Hand), handSize)
	}
	s.Phase = PhaseDefend
	s.syncTurn()
}

func (s *State) allDefended() bool {
	for _, pair := range s.Table {
		if pair.Defense == nil {
			return false
		}
	}
	return true
}

func (s *State) recordPass(userID int64) {
	for _, id := range s.Passes {
		if id == userID {
			return
		}
	}
	s.Passes = append(s.Passes, userID)
}

func (s *State) allEligiblePassed(defenderID *int64) bool {
	passed := make(map[int64]struct{}, len(s.Passes))
	for _, id := range s.Passes {
		passed[id] = struct{}{}
	}
	for _, id := range s.Order {
		if defenderID != nil && id == *defenderID {
			continue
		}
		p := s.playerByID(id)
		if p == nil || p.Finished {
			continue
		}
		if _, ok := passed[id]; !ok {
			return false
		}
	}
	return true
}

// resolveRound clears the table (to the defender's hand or the discard pile),
// refills hands from the deck, retires empty-handed players once the deck is
// out, and advances the attacker/defender seats.
func (s *State) resolveRound(defenderTook bool) {
	if defenderTook {
		if defender := s.playerAt(s.DefenderIndex); defender != nil {
			for _, pair := range s.Table {
				if pair.Attack != nil {
					defender.Hand = append(defender.Hand, *pair.Attack)
				}
				if pair.Defense != nil {
					defender.Hand = append(defender.Hand, *pair.Defense)
				}
			}
		}
	} else {
		for _, pair := range s.Table {
			if pair.Attack != nil {
				s.Discard = append(s.Discard, *pair.Attack)
			}
			if pair.Defense != nil {
				s.Discard = append(s.Discard, *pair.Defense)
			}
		}
	}
	s.Table = []TablePair{}
	s.Passes = nil
	s.PendingTake = false

	// Refill starting from the attacker.
	for offset := 0; offset < len(s.Order); offset++ {
		idx := (s.AttackerIndex + offset) % len(s.Order)
		p := s.playerAt(idx)
		if p == nil || p.Finished {
			continue
		}
		for len(s.Deck) > 0 && len(p.Hand) < handSize {
			p.Hand = append(p.Hand, s.Deck[len(s.Deck)-1])
			s.Deck = s.Deck[:len(s.Deck)-1]
		}
	}

	if len(s.Deck) == 0 {
		for _, p := range s.Players {
			if !p.Finished && len(p.Hand) == 0 {
				p.Finished = true
				s.FinishOrder = append(s.FinishOrder, p.UserID)
				if s.WinnerID == nil {
					id := p.UserID
					s.WinnerID = &id
				}
			}
		}
	}

	if s.activeCount() <= 1 {
		s.Status = StatusFinished
		return
	}

	if defenderTook {
		s.DefenderIndex = s.nextActiveIndex(s.AttackerIndex)
	} else {
		s.AttackerIndex = s.DefenderIndex
		s.DefenderIndex = s.nextActiveIndex(s.AttackerIndex)
	}
	if defender := s.playerAt(s.DefenderIndex); defender != nil {
		s.MaxAttack = min(len(defender.Hand), handSize)
	}
	s.Phase = PhaseAttack
	s.setTurn(s.AttackerID())
}

func (s *State) activeCount() int {
	count := 0
	for _, p := range s.Players {
		if !p.Finished {
			count++
		}
	}
	return count
}

// ApplyTimeout forfeits the turn owner once their clock runs out. Returns
// true when the state changed.
func (s *State) ApplyTimeout(now int64) bool {
	if s.Status != StatusActive {
		return false
	}
	ownerID := s.TurnOwnerID
	if ownerID == nil {
		ownerID = s.turnOwnerFromPhase()
	}
	if ownerID == nil {
		s.syncTurn()
		return false
	}
	owner := s.playerByID(*ownerID)
	timedOut := owner != nil && owner.Finished
	if !timedOut {
		if s.TurnStartedAt <= 0 {
			s.setTurn(ownerID)
			return false
		}
		if now == 0 {
			now = time.Now().Unix()
		}
		timedOut = now-s.TurnStartedAt >= TurnTimeoutSec
	}
	if !timedOut {
		return false
	}
	if owner != nil && !owner.Finished {
		owner.Finished = true
		s.FinishOrder = append(s.FinishOrder, *ownerID)
	}
	if s.activeCount() <= 1 {
		s.Status = StatusFinished
		for _, p := range s.Players {
			if !p.Finished {
				id := p.UserID
				s.WinnerID = &id
				break
			}
		}
		s.Table = []TablePair{}
		s.PendingTake = false
		s.Phase = PhaseFinished
		s.setTurn(nil)
		return true
	}
	s.resolveRound(false)
	s.syncTurn()
	return true
}
