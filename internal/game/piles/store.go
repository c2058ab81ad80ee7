// Package piles holds the board: free cells, foundations, tableau columns and
// the stock/waste pair.
package piles

import "github.com/arjun115/freecell/internal/game/cards"

// Placement describes where a card currently sits.
type Placement struct {
	Card   *cards.Card
	Field  FieldKind
	Number int
	Order  int
}

// Location returns the placement without the card.
func (p Placement) Location() Location {
	return Location{Field: p.Field, Number: p.Number, Order: p.Order}
}

// Pile returns the pile reference of the placement.
func (p Placement) Pile() PileRef {
	return PileRef{Field: p.Field, Number: p.Number}
}

// Locator finds a card by id. The linear scan in Store is fine for one deck;
// an indexed implementation can replace it without touching callers.
type Locator interface {
	Locate(id cards.CardID) (Placement, bool)
}

var _ Locator = (*Store)(nil)

// Store owns every pile of one game.
type Store struct {
	free        [FreeCells]Pile
	foundations [Foundations]Pile
	tableau     [TableauColumns]Pile
	stock       Pile
	waste       Pile
}

// NewStore returns an empty board.
func NewStore() *Store {
	return &Store{}
}

// Pile returns the addressed pile or nil for an invalid ref.
func (s *Store) Pile(ref PileRef) *Pile {
	if !ref.Valid() {
		return nil
	}
	switch ref.Field {
	case FieldFree:
		return &s.free[ref.Number]
	case FieldFoundations:
		return &s.foundations[ref.Number]
	case FieldTableau:
		return &s.tableau[ref.Number]
	case FieldStock:
		return &s.stock
	case FieldWaste:
		return &s.waste
	}
	return nil
}

// Locate scans free cells, foundations, tableau, stock and waste in that
// order.
func (s *Store) Locate(id cards.CardID) (Placement, bool) {
	for _, field := range scanOrder {
		for n := 0; n < field.Count(); n++ {
			pile := s.Pile(PileRef{Field: field, Number: n})
			for i, c := range *pile {
				if c.ID == id {
					return Placement{Card: c, Field: field, Number: n, Order: i}, true
				}
			}
		}
	}
	return Placement{}, false
}

var scanOrder = [...]FieldKind{FieldFree, FieldFoundations, FieldTableau, FieldStock, FieldWaste}

// EmptyFreeCells counts free cells without a card.
func (s *Store) EmptyFreeCells() int {
	n := 0
	for i := range s.free {
		if s.free[i].Len() == 0 {
			n++
		}
	}
	return n
}

// EmptyTableauColumns counts empty tableau columns.
func (s *Store) EmptyTableauColumns() int {
	n := 0
	for i := range s.tableau {
		if s.tableau[i].Len() == 0 {
			n++
		}
	}
	return n
}

// CompleteFoundations counts foundations holding a full suit.
func (s *Store) CompleteFoundations() int {
	n := 0
	for i := range s.foundations {
		if s.foundations[i].Len() == cards.RanksPerSuit {
			n++
		}
	}
	return n
}

// Count returns the number of cards on the board.
func (s *Store) Count() int {
	n := s.stock.Len() + s.waste.Len()
	for i := range s.free {
		n += s.free[i].Len()
	}
	for i := range s.foundations {
		n += s.foundations[i].Len()
	}
	for i := range s.tableau {
		n += s.tableau[i].Len()
	}
	return n
}

// Snapshot is a value copy of every pile.
type Snapshot struct {
	Free        [FreeCells][]cards.Card      `json:"free"`
	Foundations [Foundations][]cards.Card    `json:"foundations"`
	Tableau     [TableauColumns][]cards.Card `json:"tableau"`
	Stock       []cards.Card                 `json:"stock"`
	Waste       []cards.Card                 `json:"waste"`
}

// Snapshot copies the board.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	for i := range s.free {
		snap.Free[i] = s.free[i].Values()
	}
	for i := range s.foundations {
		snap.Foundations[i] = s.foundations[i].Values()
	}
	for i := range s.tableau {
		snap.Tableau[i] = s.tableau[i].Values()
	}
	snap.Stock = s.stock.Values()
	snap.Waste = s.waste.Values()
	return snap
}
