package game

import (
	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap"
)

// Settle moves face-up aces from tableau tops to their foundations until
// none remain and returns how many moved. Each move is its own batch.
func (e *Engine) Settle() int {
	moved := 0
	for e.settleStep() {
		moved++
	}
	return moved
}

// CheckPossibleMove sends the card to the foundation that continues its suit
// and reports whether it moved. A single ace sweep step follows regardless.
func (e *Engine) CheckPossibleMove(id cards.CardID) bool {
	moved := false
	if pl, ok := e.locator.Locate(id); ok && e.autoMovable(pl) {
		for n := 0; n < piles.Foundations; n++ {
			ref := piles.PileRef{Field: piles.FieldFoundations, Number: n}
			if foundationAccepts(e.store.Pile(ref), pl.Card, n) {
				moved = e.autoMove(pl, ref)
				break
			}
		}
	}
	e.logger.Debug("auto move checked", zap.Int("card_id", int(id)), zap.Bool("moved", moved))

	e.settleStep()
	return moved
}

func (e *Engine) autoMovable(pl piles.Placement) bool {
	if pl.Card.Flipped || pl.Field == piles.FieldFoundations || pl.Field == piles.FieldStock {
		return false
	}
	return e.isTop(pl)
}

// settleStep moves the first face-up tableau-top ace, scanning columns left
// to right.
func (e *Engine) settleStep() bool {
	for n := 0; n < piles.TableauColumns; n++ {
		column := e.store.Pile(piles.PileRef{Field: piles.FieldTableau, Number: n})
		top := column.Top()
		if top == nil || top.Flipped || top.Number != cards.RankAce {
			continue
		}
		pl := piles.Placement{Card: top, Field: piles.FieldTableau, Number: n, Order: column.Len() - 1}
		ref := piles.PileRef{Field: piles.FieldFoundations, Number: top.Color}
		if !foundationAccepts(e.store.Pile(ref), top, ref.Number) {
			continue
		}
		return e.autoMove(pl, ref)
	}
	return false
}

// autoMove commits a foundation move found by the finder. Unlike a placement
// it earns no foundation bonus.
func (e *Engine) autoMove(pl piles.Placement, target piles.PileRef) bool {
	src := e.store.Pile(pl.Pile())
	dest := e.store.Pile(target)
	src.Pop()
	dest.Push(pl.Card)

	events := rules.Batch{
		rules.NewMove(pl.Card, locationOf(target, dest.Len()-1), pl.Location()),
	}
	exposed := e.exposeTop(src, true, &events)
	e.applyEvents(events, false)
	e.addPoints(exposed)
	e.logger.Debug("auto moved",
		zap.Int("card_id", int(pl.Card.ID)),
		zap.Stringer("from", pl.Location()),
		zap.Stringer("to", target),
	)
	e.checkFinish()
	return true
}
