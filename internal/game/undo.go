package game

import (
	"slices"

	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap"
)

// maxRunUndo bounds the moves reverted as one contiguous run.
const maxRunUndo = 14

// Undo reverts the most recent batch and reports whether there was one. The
// inverse batch is published on the change signal but is not recorded, so
// undone actions cannot be redone.
func (e *Engine) Undo() bool {
	batch, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.addPoints(e.scoring.Undo)

	moves, flips := batch.Reversed().Split()
	dests := rules.Destinations(moves)

	var inverse rules.Batch
	switch {
	case len(moves) > 1 && len(dests) > 1:
		inverse = e.undoGrouped(moves, dests)
	case len(moves) > 1 && len(moves) < maxRunUndo && isRun(moves):
		inverse = e.undoRun(moves)
	default:
		inverse = e.undoEach(moves)
	}
	inverse = append(inverse, e.undoFlips(flips)...)

	e.logger.Debug("undid batch",
		zap.Int("moves", len(moves)),
		zap.Int("flips", len(flips)),
		zap.Int("destinations", len(dests)),
	)
	e.changed.Dispatch(inverse)
	return true
}

// undoGrouped sends every card back by id, one destination pile at a time.
// Stock receives recycled cards at its front, so its group is replayed
// backwards to rebuild the waste order.
func (e *Engine) undoGrouped(moves []rules.MoveEvent, dests []piles.PileRef) rules.Batch {
	groups := make(map[piles.PileRef][]rules.MoveEvent, len(dests))
	for _, m := range moves {
		ref := m.To.Pile()
		groups[ref] = append(groups[ref], m)
	}

	var inverse rules.Batch
	for _, ref := range dests {
		group := groups[ref]
		if ref.Field == piles.FieldStock {
			group = slices.Clone(group)
			slices.Reverse(group)
		}
		for _, m := range group {
			dest := e.store.Pile(ref)
			src := e.store.Pile(m.From.Pile())
			if dest == nil || src == nil {
				e.logger.Warn("undo skipped move", zap.Int("card_id", int(m.Card.ID)))
				continue
			}
			c := dest.RemoveID(m.Card.ID)
			if c == nil {
				e.logger.Warn("undo lost card", zap.Int("card_id", int(m.Card.ID)), zap.Stringer("pile", ref))
				continue
			}
			src.Push(c)
			inverse = append(inverse, rules.NewMove(c, m.From, m.To))
		}
	}
	return inverse
}

// undoRun moves the trailing cards of the shared destination back onto the
// shared source in their original order. moves is newest first.
func (e *Engine) undoRun(moves []rules.MoveEvent) rules.Batch {
	dest := e.store.Pile(moves[0].To.Pile())
	src := e.store.Pile(moves[0].From.Pile())
	if dest == nil || src == nil {
		e.logger.Warn("undo skipped run", zap.Int("moves", len(moves)))
		return nil
	}
	tail := dest.TakeTail(len(moves))
	src.Push(tail...)

	inverse := make(rules.Batch, 0, len(tail))
	for i, c := range tail {
		m := moves[len(moves)-1-i]
		inverse = append(inverse, rules.NewMove(c, m.From, m.To))
	}
	return inverse
}

// isRun reports whether the moves lifted consecutive cards off one source,
// bottom card first. moves is newest first.
func isRun(moves []rules.MoveEvent) bool {
	for i := 1; i < len(moves); i++ {
		prev, cur := moves[i-1].From, moves[i].From
		if prev.Pile() != cur.Pile() || prev.Order != cur.Order+1 {
			return false
		}
	}
	return true
}

func (e *Engine) undoEach(moves []rules.MoveEvent) rules.Batch {
	var inverse rules.Batch
	for _, m := range moves {
		dest := e.store.Pile(m.To.Pile())
		src := e.store.Pile(m.From.Pile())
		if dest == nil || src == nil {
			e.logger.Warn("undo skipped move", zap.Int("card_id", int(m.Card.ID)))
			continue
		}
		c := dest.Pop()
		if c == nil {
			continue
		}
		src.Push(c)
		inverse = append(inverse, rules.NewMove(c, m.From, m.To))
	}
	return inverse
}

// undoFlips restores each card's previous face. flips is newest first.
func (e *Engine) undoFlips(flips []rules.FlipEvent) rules.Batch {
	var inverse rules.Batch
	for _, f := range flips {
		pl, ok := e.locator.Locate(f.CardID())
		if !ok {
			continue
		}
		inverse = append(inverse, rules.NewFlip(pl.Card, f.Prev))
		pl.Card.Flipped = f.Prev
	}
	return inverse
}

