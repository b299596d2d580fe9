package cards

import "math/rand"

// Suits are encoded as single letters on the wire.
var Suits = []string{"S", "H", "D", "C"}

var ranks36 = []string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var ranks52 = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// rankValues orders ranks for comparison; 2 is lowest, A is highest.
var rankValues = func() map[string]int {
	values := make(map[string]int, len(ranks52))
	for i, rank := range ranks52 {
		values[rank] = i + 2
	}
	return values
}()

// Card is a playing card. Its wire id is the rank concatenated with the suit
// letter, e.g. "10H" or "QS".
type Card struct {
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

// ID returns the wire identifier of the card.
func (c Card) ID() string {
	return c.Rank + c.Suit
}

// BuildDeck returns an ordered deck of the given size (36 or 52).
func BuildDeck(deckSize int) []Card {
	ranks := ranks52
	if deckSize == 36 {
		ranks = ranks36
	}
	deck := make([]Card, 0, len(Suits)*len(ranks))
	for _, suit := range Suits {
		for _, rank := range ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit, Value: rankValues[rank]})
		}
	}
	return deck
}

func shuffledDeck(deckSize int, rng *rand.Rand) []Card {
	deck := BuildDeck(deckSize)
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// beats reports whether defense beats attack given the trump suit.
func beats(attack, defense Card, trump string) bool {
	if defense.Suit == attack.Suit && defense.Value > attack.Value {
		return true
	}
	return defense.Suit == trump && attack.Suit != trump
}
