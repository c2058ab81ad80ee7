package game

import (
	"testing"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOnFoundation(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, down(20, 5, 1), up(0, cards.RankAce, 0))

	require.True(t, e.CanPlace(0, piles.FieldFoundations, 0))

	foundation := e.Pile(piles.FieldFoundations, 0)
	require.Len(t, foundation, 1)
	assert.Equal(t, cards.CardID(0), foundation[0].ID)

	column := e.Pile(piles.FieldTableau, 0)
	require.Len(t, column, 1)
	assert.False(t, column[0].Flipped, "exposed card should be turned face-up")

	require.Len(t, rec.batches, 1)
	moves, flips := rec.batches[0].Split()
	require.Len(t, moves, 1)
	require.Len(t, flips, 1)
	assert.Equal(t, piles.Location{Field: piles.FieldFoundations, Number: 0, Order: 0}, moves[0].To)
	assert.Equal(t, piles.Location{Field: piles.FieldTableau, Number: 0, Order: 1}, moves[0].From)
	assert.True(t, flips[0].Prev)
	assert.False(t, flips[0].Flipped)

	assert.Equal(t, []int{5, 10}, rec.points)
	assert.Equal(t, 15, e.Score())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestFoundationFlipsFaceUpTopToo(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldWaste, 0, up(20, 5, 1), up(0, cards.RankAce, 0))

	require.True(t, e.CanPlace(0, piles.FieldFoundations, 0))

	_, flips := rec.batches[0].Split()
	require.Len(t, flips, 1, "a foundation move always records the new top")
	assert.False(t, flips[0].Prev)
	assert.Equal(t, []int{5, 10}, rec.points)
}

func TestFoundationRejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(e *Engine)
		card   cards.CardID
		number int
	}{
		{
			name:   "ace on foreign foundation",
			setup:  func(e *Engine) { lay(e, piles.FieldTableau, 0, up(0, 1, 0)) },
			card:   0,
			number: 1,
		},
		{
			name:   "two on empty foundation",
			setup:  func(e *Engine) { lay(e, piles.FieldTableau, 0, up(1, 2, 0)) },
			card:   1,
			number: 0,
		},
		{
			name: "skipping a rank",
			setup: func(e *Engine) {
				lay(e, piles.FieldFoundations, 0, up(0, 1, 0))
				lay(e, piles.FieldTableau, 0, up(2, 3, 0))
			},
			card:   2,
			number: 0,
		},
		{
			name: "wrong suit",
			setup: func(e *Engine) {
				lay(e, piles.FieldFoundations, 0, up(0, 1, 0))
				lay(e, piles.FieldTableau, 0, up(14, 2, 1))
			},
			card:   14,
			number: 0,
		},
		{
			name:   "not the pile top",
			setup:  func(e *Engine) { lay(e, piles.FieldTableau, 0, up(0, 1, 0), up(30, 5, 2)) },
			card:   0,
			number: 0,
		},
		{
			name:   "face-down card",
			setup:  func(e *Engine) { lay(e, piles.FieldTableau, 0, down(0, 1, 0)) },
			card:   0,
			number: 0,
		},
		{
			name:   "from stock",
			setup:  func(e *Engine) { lay(e, piles.FieldStock, 0, up(0, 1, 0)) },
			card:   0,
			number: 0,
		},
		{
			name:   "unknown card",
			setup:  func(e *Engine) {},
			card:   99,
			number: 0,
		},
		{
			name:   "foundation out of range",
			setup:  func(e *Engine) { lay(e, piles.FieldTableau, 0, up(0, 1, 0)) },
			card:   0,
			number: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t)
			tt.setup(e)
			before := e.Snapshot().Checksum()

			assert.False(t, e.CanPlace(tt.card, piles.FieldFoundations, tt.number))

			assert.Equal(t, before, e.Snapshot().Checksum(), "an illegal move must not change the board")
			assert.Empty(t, rec.batches)
			assert.Empty(t, rec.points)
			assert.Zero(t, e.HistoryLen())
		})
	}
}

func TestPlaceOnTableauScoring(t *testing.T) {
	tests := []struct {
		name   string
		source piles.FieldKind
		points []int
	}{
		{"from waste", piles.FieldWaste, []int{5}},
		{"from foundation", piles.FieldFoundations, []int{-15}},
		{"from free cell", piles.FieldFree, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t)
			lay(e, piles.FieldTableau, 3, up(40, 9, 0))
			lay(e, tt.source, 0, up(21, 8, 1))

			require.True(t, e.CanPlace(21, piles.FieldTableau, 3))

			assert.Equal(t, []cards.CardID{40, 21}, ids(e.Pile(piles.FieldTableau, 3)))
			assert.Empty(t, e.Pile(tt.source, 0))
			assert.Equal(t, tt.points, rec.points)
		})
	}
}

func TestPlaceOnTableauRejections(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, up(40, 9, 0))
	lay(e, piles.FieldFree, 0, up(22, 8, 2))
	lay(e, piles.FieldFree, 1, up(23, 7, 1))

	assert.False(t, e.CanPlace(22, piles.FieldTableau, 0), "same color")
	assert.False(t, e.CanPlace(23, piles.FieldTableau, 0), "rank gap")
	assert.False(t, e.CanPlace(40, piles.FieldTableau, 0), "same pile")
	assert.False(t, e.CanPlace(40, piles.FieldTableau, 8), "column out of range")
	assert.False(t, e.CanPlace(40, piles.FieldNone, 0), "no field")
	assert.Empty(t, rec.batches)
}

func TestPlaceOnEmptyTableauTakesAnyCard(t *testing.T) {
	e, _ := newTestEngine(t)
	lay(e, piles.FieldFree, 0, up(5, 6, 0))

	require.True(t, e.CanPlace(5, piles.FieldTableau, 7))
	assert.Equal(t, []cards.CardID{5}, ids(e.Pile(piles.FieldTableau, 7)))
}

func TestMoveRunBetweenColumns(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, down(30, 10, 2), up(31, 8, 1), up(32, 7, 0), up(33, 6, 1))
	lay(e, piles.FieldTableau, 1, up(40, 9, 0))

	require.True(t, e.CanDrag(31))
	assert.Equal(t, []cards.CardID{31, 32, 33}, ids(e.GetTableauArray(31)))
	require.True(t, e.CanPlace(31, piles.FieldTableau, 1))

	assert.Equal(t, []cards.CardID{40, 31, 32, 33}, ids(e.Pile(piles.FieldTableau, 1)))
	column := e.Pile(piles.FieldTableau, 0)
	require.Len(t, column, 1)
	assert.False(t, column[0].Flipped)

	require.Len(t, rec.batches, 1)
	moves, flips := rec.batches[0].Split()
	require.Len(t, moves, 3)
	require.Len(t, flips, 1)
	for i, m := range moves {
		assert.Equal(t, 1+i, m.From.Order)
		assert.Equal(t, 1+i, m.To.Order)
	}
	assert.Equal(t, []int{5}, rec.points)
}

func TestPlaceInFreeCell(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 2, down(30, 10, 2), up(31, 8, 1))

	require.True(t, e.CanPlace(31, piles.FieldFree, 3))

	assert.Equal(t, []cards.CardID{31}, ids(e.Pile(piles.FieldFree, 3)))
	assert.False(t, e.Pile(piles.FieldTableau, 2)[0].Flipped)
	assert.Equal(t, []int{5}, rec.points)

	lay(e, piles.FieldTableau, 4, up(32, 4, 3))
	assert.False(t, e.CanPlace(32, piles.FieldFree, 3), "occupied cell")
}

func TestPlaceInFreeCellRejections(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldFoundations, 0, up(0, 1, 0))
	lay(e, piles.FieldTableau, 0, up(31, 8, 1), up(32, 7, 0))

	assert.False(t, e.CanPlace(0, piles.FieldFree, 0), "foundation cards stay put")
	assert.False(t, e.CanPlace(31, piles.FieldFree, 0), "only the top card fits a cell")
	assert.Empty(t, rec.batches)
}

func TestCanDrag(t *testing.T) {
	e, _ := newTestEngine(t)
	// Four free cells plus five empty columns leave nine helper slots.
	lay(e, piles.FieldTableau, 0, down(1, 12, 0), up(2, 9, 1), up(3, 8, 0), up(4, 7, 1))
	lay(e, piles.FieldTableau, 1, up(5, 9, 2), up(6, 8, 2))
	lay(e, piles.FieldTableau, 2, up(7, 4, 3))
	lay(e, piles.FieldWaste, 0, up(8, 2, 1), up(9, 3, 1))
	lay(e, piles.FieldStock, 0, up(10, 5, 0))

	assert.True(t, e.CanDrag(2), "alternating run")
	assert.True(t, e.CanDrag(4), "single top card")
	assert.False(t, e.CanDrag(1), "face-down card")
	assert.False(t, e.CanDrag(5), "broken run")
	assert.True(t, e.CanDrag(9), "waste top")
	assert.False(t, e.CanDrag(8), "buried waste card")
	assert.False(t, e.CanDrag(10), "stock card")
	assert.False(t, e.CanDrag(99), "unknown card")
}

func TestCanDragCountsHelperSlots(t *testing.T) {
	e, _ := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, up(1, 10, 0), up(2, 9, 1), up(3, 8, 0))
	for n := 1; n < piles.TableauColumns; n++ {
		lay(e, piles.FieldTableau, n, up(100+n, 13, n%4))
	}
	for n := 0; n < piles.FreeCells-1; n++ {
		lay(e, piles.FieldFree, n, up(200+n, 1, n))
	}

	// One empty free cell, no empty columns: one card may ride along.
	assert.False(t, e.CanDrag(1))
	assert.True(t, e.CanDrag(2))

	e.store.Pile(piles.PileRef{Field: piles.FieldFree, Number: 0}).Pop()
	assert.True(t, e.CanDrag(1))
}

func TestGetTableauArrayOutsideTableau(t *testing.T) {
	e, _ := newTestEngine(t)
	lay(e, piles.FieldFree, 0, up(1, 5, 0))

	got := e.GetTableauArray(1)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, e.GetTableauArray(77))
}

func TestWinSignalFiresOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	completeFoundationsExceptKing(e)
	for color := 0; color < piles.FreeCells; color++ {
		lay(e, piles.FieldFree, color, up(color*cards.RanksPerSuit+12, cards.RankKing, color))
	}

	for color := 0; color < piles.Foundations; color++ {
		id := cards.CardID(color*cards.RanksPerSuit + 12)
		require.True(t, e.CanPlace(id, piles.FieldFoundations, color))
		if color < piles.Foundations-1 {
			assert.False(t, e.Finished())
		}
	}

	assert.True(t, e.Finished())
	assert.Equal(t, 1, rec.finishes)

	require.True(t, e.Undo())
	king := cards.CardID(3*cards.RanksPerSuit + 12)
	require.True(t, e.CanPlace(king, piles.FieldFoundations, 3))
	assert.Equal(t, 1, rec.finishes, "the win is only signaled once")
}

func TestEventsCarryCardSnapshots(t *testing.T) {
	e, rec := newTestEngine(t)
	lay(e, piles.FieldTableau, 0, up(0, 1, 0))
	require.True(t, e.CanPlace(0, piles.FieldFree, 0))

	ev, ok := rec.batches[0][0].(rules.MoveEvent)
	require.True(t, ok)
	e.store.Pile(piles.PileRef{Field: piles.FieldFree}).Top().Number = 9
	assert.Equal(t, 1, ev.Card.Number)
}
