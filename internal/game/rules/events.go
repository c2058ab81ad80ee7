package rules

import (
	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	EventMove EventType = "MOVE"
	EventFlip EventType = "FLIP"
)

// Event is one entry of a Batch: a MoveEvent or a FlipEvent.
type Event interface {
	Type() EventType
	CardID() cards.CardID
	isEvent()
}

// MoveEvent relocates one card. From is the zero Location for dealt cards.
type MoveEvent struct {
	Card cards.Card
	To   piles.Location
	From piles.Location
}

// Type implements Event.
func (MoveEvent) Type() EventType { return EventMove }

// CardID implements Event.
func (e MoveEvent) CardID() cards.CardID { return e.Card.ID }

func (MoveEvent) isEvent() {}

// FlipEvent changes the face of one card. Prev is kept for undo.
type FlipEvent struct {
	Card    cards.Card
	Flipped bool
	Prev    bool
}

// Type implements Event.
func (FlipEvent) Type() EventType { return EventFlip }

// CardID implements Event.
func (e FlipEvent) CardID() cards.CardID { return e.Card.ID }

func (FlipEvent) isEvent() {}

// Batch is the events produced by one logical action. It is the unit of undo.
type Batch []Event

// Split partitions the batch into moves and flips keeping relative order.
func (b Batch) Split() ([]MoveEvent, []FlipEvent) {
	var (
		moves []MoveEvent
		flips []FlipEvent
	)
	for _, ev := range b {
		switch e := ev.(type) {
		case MoveEvent:
			moves = append(moves, e)
		case FlipEvent:
			flips = append(flips, e)
		}
	}
	return moves, flips
}

// Reversed returns a copy of the batch in reverse order.
func (b Batch) Reversed() Batch {
	out := make(Batch, len(b))
	for i, ev := range b {
		out[len(b)-1-i] = ev
	}
	return out
}

// Destinations returns the distinct destination piles of the moves in
// first-seen order.
func Destinations(moves []MoveEvent) []piles.PileRef {
	seen := make(map[piles.PileRef]bool, len(moves))
	var refs []piles.PileRef
	for _, m := range moves {
		ref := m.To.Pile()
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// NewMove builds a move event from a card snapshot.
func NewMove(c *cards.Card, to, from piles.Location) MoveEvent {
	return MoveEvent{Card: *c, To: to, From: from}
}

// NewFlip builds a flip event recording the card's current face as Prev.
func NewFlip(c *cards.Card, flipped bool) FlipEvent {
	return FlipEvent{Card: *c, Flipped: flipped, Prev: c.Flipped}
}
