package game

import (
	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap"
)

// CanPlace moves the card onto the target pile when the move is legal and
// reports whether it did. An illegal move changes nothing and publishes
// nothing. A card taken from a tableau column carries every card above it.
func (e *Engine) CanPlace(id cards.CardID, field piles.FieldKind, number int) bool {
	pl, ok := e.locator.Locate(id)
	if !ok {
		e.logger.Debug("place rejected: unknown card", zap.Int("card_id", int(id)))
		return false
	}

	target := piles.PileRef{Field: field, Number: number}
	dest := e.store.Pile(target)
	if dest == nil || target == pl.Pile() || pl.Card.Flipped || pl.Field == piles.FieldStock {
		e.logger.Debug("place rejected",
			zap.Int("card_id", int(id)),
			zap.Stringer("from", pl.Location()),
			zap.Stringer("to", target),
		)
		return false
	}

	var placed bool
	switch field {
	case piles.FieldFoundations:
		placed = e.placeFoundation(pl, target, dest)
	case piles.FieldTableau:
		placed = e.placeTableau(pl, target, dest)
	case piles.FieldFree:
		placed = e.placeFree(pl, target, dest)
	}

	e.logger.Debug("place attempted",
		zap.Int("card_id", int(id)),
		zap.Stringer("from", pl.Location()),
		zap.Stringer("to", target),
		zap.Bool("placed", placed),
	)
	return placed
}

// placeFoundation accepts a single pile-top card building up in suit.
func (e *Engine) placeFoundation(pl piles.Placement, target piles.PileRef, dest *piles.Pile) bool {
	if !e.isTop(pl) || !foundationAccepts(dest, pl.Card, target.Number) {
		return false
	}

	src := e.store.Pile(pl.Pile())
	src.Pop()
	dest.Push(pl.Card)

	events := rules.Batch{
		rules.NewMove(pl.Card, locationOf(target, dest.Len()-1), pl.Location()),
	}
	exposed := e.exposeTop(src, true, &events)
	e.applyEvents(events, false)
	e.addPoints(exposed)
	if pl.Field != piles.FieldFoundations {
		e.addPoints(e.scoring.FoundationMove)
	}
	e.checkFinish()
	return true
}

// placeTableau accepts a card one rank below the target top with the
// opposite color, or anything on an empty column.
func (e *Engine) placeTableau(pl piles.Placement, target piles.PileRef, dest *piles.Pile) bool {
	if top := dest.Top(); top != nil {
		if top.Number != pl.Card.Number+1 || !top.OppositeColor(*pl.Card) {
			return false
		}
	}

	src := e.store.Pile(pl.Pile())
	var events rules.Batch

	if pl.Field == piles.FieldTableau {
		// Run legality was settled by CanDrag.
		run := src.SplitFrom(pl.Order)
		for i, c := range run {
			dest.Push(c)
			from := piles.Location{Field: pl.Field, Number: pl.Number, Order: pl.Order + i}
			events = append(events, rules.NewMove(c, locationOf(target, dest.Len()-1), from))
		}
		exposed := e.exposeTop(src, false, &events)
		e.applyEvents(events, false)
		e.addPoints(exposed)
		return true
	}

	if !e.isTop(pl) {
		return false
	}
	src.Pop()
	dest.Push(pl.Card)
	events = append(events, rules.NewMove(pl.Card, locationOf(target, dest.Len()-1), pl.Location()))
	exposed := e.exposeTop(src, false, &events)
	e.applyEvents(events, false)
	e.addPoints(exposed)
	e.addPoints(e.scoring.tableauPlacement(pl.Field))
	return true
}

// placeFree parks a single pile-top card in an empty cell.
func (e *Engine) placeFree(pl piles.Placement, target piles.PileRef, dest *piles.Pile) bool {
	if dest.Len() != 0 || !e.isTop(pl) || pl.Field == piles.FieldFoundations {
		return false
	}

	src := e.store.Pile(pl.Pile())
	src.Pop()
	dest.Push(pl.Card)

	events := rules.Batch{
		rules.NewMove(pl.Card, locationOf(target, 0), pl.Location()),
	}
	exposed := e.exposeTop(src, false, &events)
	e.applyEvents(events, false)
	e.addPoints(exposed)
	return true
}

// CanDrag reports whether the card can be lifted together with everything
// above it. Empty free cells and empty tableau columns each count as one
// helper slot; the lifted cards above the grabbed one may not outnumber them.
func (e *Engine) CanDrag(id cards.CardID) bool {
	pl, ok := e.locator.Locate(id)
	if !ok || pl.Card.Flipped {
		return false
	}
	if pl.Field != piles.FieldTableau {
		return pl.Field != piles.FieldStock && e.isTop(pl)
	}

	helpers := e.store.EmptyFreeCells() + e.store.EmptyTableauColumns()
	column := *e.store.Pile(pl.Pile())
	prev := pl.Card
	lifted := 0
	for _, c := range column[pl.Order+1:] {
		if c.Number != prev.Number-1 || !c.OppositeColor(*prev) {
			return false
		}
		lifted++
		if helpers < lifted {
			return false
		}
		prev = c
	}
	return true
}

// GetTableauArray returns the card and every card stacked above it in its
// tableau column. Cards outside the tableau yield an empty slice.
func (e *Engine) GetTableauArray(id cards.CardID) []cards.Card {
	pl, ok := e.locator.Locate(id)
	if !ok || pl.Field != piles.FieldTableau {
		return []cards.Card{}
	}
	column := e.store.Pile(pl.Pile()).Values()
	return column[pl.Order:]
}

func foundationAccepts(dest *piles.Pile, c *cards.Card, number int) bool {
	top := dest.Top()
	if top == nil {
		return c.Number == cards.RankAce && c.Color == number
	}
	return top.Number+1 == c.Number && top.SameSuit(*c)
}

// exposeTop turns the new top of src face-up after a removal and returns the
// points earned. With always set the flip is recorded even for a card that
// is already face-up.
func (e *Engine) exposeTop(src *piles.Pile, always bool, events *rules.Batch) int {
	top := src.Top()
	if top == nil || (!always && !top.Flipped) {
		return 0
	}
	*events = append(*events, rules.NewFlip(top, false))
	top.Flipped = false
	return e.scoring.Exposure
}

func (e *Engine) isTop(pl piles.Placement) bool {
	return pl.Order == e.store.Pile(pl.Pile()).Len()-1
}

func locationOf(ref piles.PileRef, order int) piles.Location {
	return piles.Location{Field: ref.Field, Number: ref.Number, Order: order}
}
