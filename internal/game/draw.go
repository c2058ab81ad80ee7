package game

import (
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap"
)

// DrawCount is the number of cards turned from stock per draw.
const DrawCount = 3

var (
	stockRef = piles.PileRef{Field: piles.FieldStock}
	wasteRef = piles.PileRef{Field: piles.FieldWaste}
)

// Draw turns up to three cards from stock onto waste. A non-empty waste is
// first recycled face-down under the stock. It reports false when both piles
// are empty.
func (e *Engine) Draw() bool {
	stock := e.store.Pile(stockRef)
	waste := e.store.Pile(wasteRef)
	if stock.Len() == 0 && waste.Len() == 0 {
		return false
	}

	var events rules.Batch
	recycled := waste.SplitFrom(0)
	for i, c := range recycled {
		stock.Unshift(c)
		events = append(events,
			rules.NewMove(c, locationOf(stockRef, 0), locationOf(wasteRef, i)),
			rules.NewFlip(c, true),
		)
		c.Flipped = true
	}

	drawn := 0
	for ; drawn < DrawCount && stock.Len() > 0; drawn++ {
		c := stock.Pop()
		waste.Push(c)
		events = append(events,
			rules.NewMove(c, locationOf(wasteRef, waste.Len()-1), locationOf(stockRef, stock.Len())),
			rules.NewFlip(c, false),
		)
		c.Flipped = false
	}

	e.applyEvents(events, false)
	e.logger.Debug("drew cards", zap.Int("recycled", len(recycled)), zap.Int("drawn", drawn))
	return true
}
