// internal/deck/deck.go
package deck

import (
	"fmt"
	"math/rand"
	"time"
)

// Ranks and Suits define the card code grammar. A card code is a rank
// immediately followed by a suit letter, e.g. "AS" or "10H".
var (
	Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	Suits = []string{"C", "D", "H", "S"}
)

// MaxDecks bounds the numDecks room setting.
const MaxDecks = 33

// Card is a parsed card code.
type Card struct {
	Rank string
	Suit string
}

// Code formats the card back into its wire code.
func (c Card) Code() string {
	return c.Rank + c.Suit
}

// Parse splits a card code into rank and suit. The rank is everything up to
// the final character, which must be a known suit letter.
func Parse(code string) (Card, error) {
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	rank := code[:len(code)-1]
	suit := code[len(code)-1:]
	if !validRank(rank) {
		return Card{}, fmt.Errorf("invalid rank in card code %q", code)
	}
	if !validSuit(suit) {
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func validRank(r string) bool {
	for _, known := range Ranks {
		if r == known {
			return true
		}
	}
	return false
}

func validSuit(s string) bool {
	for _, known := range Suits {
		if s == known {
			return true
		}
	}
	return false
}

// Matches reports whether two card codes share a rank or a suit. Used for the
// authoritative play validation against the pre-play discard top.
func Matches(a, b string) bool {
	ca, err := Parse(a)
	if err != nil {
		return false
	}
	cb, err := Parse(b)
	if err != nil {
		return false
	}
	return ca.Rank == cb.Rank || ca.Suit == cb.Suit
}

// BuildDrawPile returns numDecks standard 52-card decks worth of codes in a
// uniformly shuffled order.
func BuildDrawPile(numDecks int) ([]string, error) {
	if numDecks < 1 || numDecks > MaxDecks {
		return nil, fmt.Errorf("numDecks must be between 1 and %d, got %d", MaxDecks, numDecks)
	}
	pile := make([]string, 0, numDecks*52)
	for d := 0; d < numDecks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				pile = append(pile, rank+suit)
			}
		}
	}
	Shuffle(pile)
	return pile, nil
}

// Shuffle permutes the pile in place (Fisher–Yates, uniform).
func Shuffle(pile []string) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
}
