package game

import "github.com/arjun115/freecell/internal/game/piles"

// Scoring holds the score deltas raised by the engine.
type Scoring struct {
	// FoundationMove is raised when a card reaches a foundation from any
	// field except another foundation.
	FoundationMove int
	// Exposure is raised when a card uncovered by a move is turned face-up.
	Exposure int
	// WasteToTableau and FoundationToTableau apply to tableau placements.
	WasteToTableau      int
	FoundationToTableau int
	// Undo is raised on every successful undo.
	Undo int
}

// DefaultScoring returns the standard deltas.
func DefaultScoring() Scoring {
	return Scoring{
		FoundationMove:      10,
		Exposure:            5,
		WasteToTableau:      5,
		FoundationToTableau: -15,
		Undo:                -5,
	}
}

// tableauPlacement returns the delta for a tableau placement from source.
func (s Scoring) tableauPlacement(source piles.FieldKind) int {
	switch source {
	case piles.FieldWaste:
		return s.WasteToTableau
	case piles.FieldFoundations:
		return s.FoundationToTableau
	default:
		return 0
	}
}
