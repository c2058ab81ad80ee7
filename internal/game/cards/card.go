package cards

import "fmt"

// Deck geometry for the single supported rule set.
const (
	RanksPerSuit = 13
	SuitCount    = 4
	DeckSize     = RanksPerSuit * SuitCount

	RankAce  = 1
	RankKing = 13
)

// CardID identifies a card for its whole lifetime.
type CardID int

// Card is a playing card. Number is the rank (1-13) and Color the suit group
// (0-3); colors with the same parity are the same color for tableau building.
// Flipped reports a face-down card.
type Card struct {
	ID      CardID `json:"id"`
	Number  int    `json:"number"`
	Color   int    `json:"color"`
	Flipped bool   `json:"flipped"`
}

// NewDeck returns the 52-card deck ordered by color then rank, all face-down.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for i := 0; i < DeckSize; i++ {
		deck = append(deck, Card{
			ID:      CardID(i),
			Number:  i%RanksPerSuit + 1,
			Color:   i / RanksPerSuit,
			Flipped: true,
		})
	}
	return deck
}

// SameSuit reports whether both cards belong to the same suit group.
func (c Card) SameSuit(other Card) bool {
	return c.Color == other.Color
}

// OppositeColor reports whether the cards differ in color parity.
func (c Card) OppositeColor(other Card) bool {
	return c.Color%2 != other.Color%2
}

// Valid reports whether rank and color are in range.
func (c Card) Valid() bool {
	return c.Number >= RankAce && c.Number <= RankKing && c.Color >= 0 && c.Color < SuitCount
}

// String renders id, rank/color and face, e.g. "#12 13/0 up".
func (c Card) String() string {
	face := "up"
	if c.Flipped {
		face = "down"
	}
	return fmt.Sprintf("#%d %d/%d %s", c.ID, c.Number, c.Color, face)
}
