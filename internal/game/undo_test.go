package game

import (
	"testing"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoEmptyHistory(t *testing.T) {
	e, rec := newTestEngine(t)
	require.NoError(t, e.Prepare(cards.NewDeck()))
	before := e.Snapshot().Checksum()

	assert.False(t, e.Undo())
	assert.Equal(t, before, e.Snapshot().Checksum())
	assert.Len(t, rec.batches, 1, "only the deal is published")
	assert.Empty(t, rec.points)
}

func TestUndoRunMove(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, down(30, 10, 2), up(31, 8, 1), up(32, 7, 0), up(33, 6, 1))
	lay(e, piles.FieldTableau, 1, up(40, 9, 0))
	before := e.Snapshot()

	require.True(t, e.CanPlace(31, piles.FieldTableau, 1))
	require.True(t, e.Undo())

	assert.True(t, before.Equal(e.Snapshot()))
	assert.Equal(t, []cards.CardID{30, 31, 32, 33}, ids(e.Pile(piles.FieldTableau, 0)))
	assert.True(t, e.Pile(piles.FieldTableau, 0)[0].Flipped)
	assert.Equal(t, []cards.CardID{40}, ids(e.Pile(piles.FieldTableau, 1)))
	assert.Equal(t, []int{5, -5}, rec.points)
	assert.Zero(t, e.HistoryLen())

	require.Len(t, rec.batches, 2)
	moves, flips := rec.batches[1].Split()
	require.Len(t, moves, 3)
	require.Len(t, flips, 1)
	for i, m := range moves {
		assert.Equal(t, piles.FieldTableau, m.To.Field)
		assert.Equal(t, 0, m.To.Number)
		assert.Equal(t, 1+i, m.To.Order)
	}
	assert.True(t, flips[0].Flipped)
	assert.False(t, flips[0].Prev)
}

func TestUndoRestoresEveryCommand(t *testing.T) {
	tests := []struct {
		name string
		run  func(e *Engine) bool
	}{
		{"foundation", func(e *Engine) bool { return e.CanPlace(0, piles.FieldFoundations, 0) }},
		{"free cell", func(e *Engine) bool { return e.CanPlace(0, piles.FieldFree, 1) }},
		{"tableau from waste", func(e *Engine) bool { return e.CanPlace(21, piles.FieldTableau, 3) }},
		{"tableau from foundation", func(e *Engine) bool { return e.CanPlace(51, piles.FieldTableau, 3) }},
		{"auto move", func(e *Engine) bool { return e.CheckPossibleMove(0) }},
		{"draw", func(e *Engine) bool { return e.Draw() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			lay(e, piles.FieldTableau, 0, down(30, 10, 2), up(0, 1, 0))
			lay(e, piles.FieldTableau, 3, up(40, 9, 0))
			lay(e, piles.FieldWaste, 0, up(20, 4, 1), up(21, 8, 1))
			lay(e, piles.FieldFoundations, 3, up(51, 8, 3))
			lay(e, piles.FieldStock, 0, down(5, 6, 0), down(6, 7, 0))
			before := e.Snapshot()

			require.True(t, tt.run(e))
			require.False(t, before.Equal(e.Snapshot()))
			earned := e.Score()
			require.True(t, e.Undo())

			assert.True(t, before.Equal(e.Snapshot()), "undo must be the inverse of %s", tt.name)
			assert.Equal(t, earned+e.scoring.Undo, e.Score(), "undo does not refund points")
			assert.False(t, e.CanUndo())
		})
	}
}

func TestUndoDraw(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldStock, 0, down(1, 1, 0), down(2, 2, 0), down(3, 3, 0), down(4, 4, 0))
	before := e.Snapshot()

	require.True(t, e.Draw())
	assert.Equal(t, []cards.CardID{4, 3, 2}, ids(e.Pile(piles.FieldWaste, 0)))
	assert.Equal(t, []cards.CardID{1}, ids(e.Pile(piles.FieldStock, 0)))
	for _, c := range e.Pile(piles.FieldWaste, 0) {
		assert.False(t, c.Flipped)
	}

	require.True(t, e.Undo())
	assert.True(t, before.Equal(e.Snapshot()))
	assert.Equal(t, []int{-5}, rec.points)
}

func TestUndoRecyclingDraw(t *testing.T) {
	e, _ := newTestEngine(t)
	lay(e, piles.FieldWaste, 0, up(10, 10, 1), up(11, 11, 1), up(12, 12, 1))
	lay(e, piles.FieldStock, 0, down(1, 1, 0), down(2, 2, 0))
	before := e.Snapshot()

	require.True(t, e.Draw())
	assert.Equal(t, []cards.CardID{2, 1, 10}, ids(e.Pile(piles.FieldWaste, 0)))
	assert.Equal(t, []cards.CardID{12, 11}, ids(e.Pile(piles.FieldStock, 0)))
	for _, c := range e.Pile(piles.FieldStock, 0) {
		assert.True(t, c.Flipped, "recycled cards are face-down")
	}

	require.True(t, e.Undo())
	assert.True(t, before.Equal(e.Snapshot()), "grouped undo must rebuild both piles")
}

func TestUndoLargeRecyclingDraw(t *testing.T) {
	e, _ := newTestEngine(t)
	var waste []*cards.Card
	for i := 0; i < 20; i++ {
		waste = append(waste, up(i, i%13+1, i/13))
	}
	lay(e, piles.FieldWaste, 0, waste...)
	before := e.Snapshot()

	require.True(t, e.Draw())
	moves, _ := e.history.List()[0].Split()
	require.Len(t, moves, 23)

	require.True(t, e.Undo())
	assert.True(t, before.Equal(e.Snapshot()))
}

func TestDrawEmpty(t *testing.T) {
	e, rec := newTestEngine(t)
	assert.False(t, e.Draw())
	assert.Empty(t, rec.batches)
	assert.Zero(t, e.HistoryLen())
}

func TestUndoHasNoRedo(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, up(0, 1, 0))
	lay(e, piles.FieldTableau, 1, up(1, 5, 2))

	require.True(t, e.CanPlace(0, piles.FieldFree, 0))
	require.True(t, e.CanPlace(1, piles.FieldFree, 1))
	require.Equal(t, 2, e.HistoryLen())

	require.True(t, e.Undo())
	assert.Equal(t, 1, e.HistoryLen(), "the inverse batch is not recorded")
	require.True(t, e.Undo())
	assert.False(t, e.Undo())

	require.Len(t, rec.batches, 4)
	for _, ev := range rec.batches[3] {
		assert.Equal(t, rules.EventMove, ev.Type())
	}
	assert.Equal(t, []int{-5, -5}, rec.points)
}
