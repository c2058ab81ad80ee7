package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
)

// Snapshot is a value copy of the board.
type Snapshot struct {
	piles.Snapshot
}

// Checksum returns a SHA-256 over a canonical rendering of every pile. Pile
// order matters, so two boards holding the same cards in different positions
// never collide.
func (s Snapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether both snapshots describe the same board.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.canonical() == other.canonical()
}

func (s Snapshot) canonical() string {
	var buf bytes.Buffer
	for n, pile := range s.Free {
		writePile(&buf, piles.FieldFree, n, pile)
	}
	for n, pile := range s.Foundations {
		writePile(&buf, piles.FieldFoundations, n, pile)
	}
	for n, pile := range s.Tableau {
		writePile(&buf, piles.FieldTableau, n, pile)
	}
	writePile(&buf, piles.FieldStock, 0, s.Stock)
	writePile(&buf, piles.FieldWaste, 0, s.Waste)
	return buf.String()
}

func writePile(buf *bytes.Buffer, field piles.FieldKind, number int, pile []cards.Card) {
	fmt.Fprintf(buf, "%s:%d|", field, number)
	for _, c := range pile {
		fmt.Fprintf(buf, "%d,%d,%d,%t;", c.ID, c.Number, c.Color, c.Flipped)
	}
	buf.WriteByte('\n')
}
