package game

import (
	"testing"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap/zaptest"
)

// recorder captures everything an engine publishes.
type recorder struct {
	batches  []rules.Batch
	points   []int
	finishes int
}

func (r *recorder) attach(e *Engine) {
	e.OnChange(func(b rules.Batch) { r.batches = append(r.batches, b) })
	e.OnPoints(func(d int) { r.points = append(r.points, d) })
	e.OnFinish(func() { r.finishes++ })
}

func (r *recorder) total() int {
	sum := 0
	for _, d := range r.points {
		sum += d
	}
	return sum
}

func newTestEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	settings := DefaultSettings()
	settings.Seed = 7
	e := NewEngine(zaptest.NewLogger(t), settings)
	rec := &recorder{}
	rec.attach(e)
	return e, rec
}

// up and down build face-up and face-down cards.
func up(id, number, color int) *cards.Card {
	return &cards.Card{ID: cards.CardID(id), Number: number, Color: color}
}

func down(id, number, color int) *cards.Card {
	return &cards.Card{ID: cards.CardID(id), Number: number, Color: color, Flipped: true}
}

// lay puts cards straight onto a pile, bottom first, bypassing the rules.
func lay(e *Engine, field piles.FieldKind, number int, cs ...*cards.Card) {
	e.store.Pile(piles.PileRef{Field: field, Number: number}).Push(cs...)
	e.dealt = true
}

// completeFoundationsExceptKing fills foundation 0..3 with every rank below
// the king of its color.
func completeFoundationsExceptKing(e *Engine) {
	for color := 0; color < piles.Foundations; color++ {
		for rank := cards.RankAce; rank < cards.RankKing; rank++ {
			id := color*cards.RanksPerSuit + rank - 1
			lay(e, piles.FieldFoundations, color, up(id, rank, color))
		}
	}
}

func ids(cs []cards.Card) []cards.CardID {
	out := make([]cards.CardID, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
