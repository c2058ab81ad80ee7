// Package game implements the FreeCell-style solitaire rules engine.
//
// The engine owns the board, validates and commits moves, records every
// committed action as an undoable event batch and publishes batches, score
// deltas and the win on synchronous signals. It is single-threaded: listeners
// run inside the command that triggered them and may call query methods, so
// the engine takes no locks. Callers serialize access per engine.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
	"go.uber.org/zap"
)

var (
	// ErrInvalidDeck is returned by Prepare for a deck that is not 52 distinct valid cards.
	ErrInvalidDeck = errors.New("invalid deck")
	// ErrAlreadyDealt is returned by a second Prepare call.
	ErrAlreadyDealt = errors.New("game already dealt")
)

// Settings configures an engine.
type Settings struct {
	Scoring Scoring
	// Seed makes the shuffle reproducible. Zero means random.
	Seed uint64
}

// DefaultSettings returns the standard scoring with a random shuffle.
func DefaultSettings() Settings {
	return Settings{Scoring: DefaultScoring()}
}

// Engine is one solitaire game.
type Engine struct {
	logger   *zap.Logger
	scoring  Scoring
	rng      *rand.Rand
	store    *piles.Store
	locator  piles.Locator
	history  *rules.History
	changed  rules.Signal[rules.Batch]
	points   rules.Signal[int]
	finish   rules.Signal[struct{}]
	score    int
	dealt    bool
	finished bool
}

// NewEngine creates an engine with an empty board.
func NewEngine(logger *zap.Logger, settings Settings) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	var rng *rand.Rand
	if settings.Seed != 0 {
		rng = rand.New(rand.NewPCG(settings.Seed, settings.Seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	store := piles.NewStore()
	return &Engine{
		logger:  logger,
		scoring: settings.Scoring,
		rng:     rng,
		store:   store,
		locator: store,
		history: rules.NewHistory(),
	}
}

// OnChange registers a listener for committed and undone event batches.
func (e *Engine) OnChange(listener func(rules.Batch)) int {
	return e.changed.Add(listener)
}

// RemoveOnChange unregisters a change listener.
func (e *Engine) RemoveOnChange(handle int) {
	e.changed.Remove(handle)
}

// OnPoints registers a listener for signed score deltas.
func (e *Engine) OnPoints(listener func(int)) int {
	return e.points.Add(listener)
}

// RemoveOnPoints unregisters a points listener.
func (e *Engine) RemoveOnPoints(handle int) {
	e.points.Remove(handle)
}

// OnFinish registers a listener fired once when every foundation is complete.
func (e *Engine) OnFinish(listener func()) int {
	if listener == nil {
		return -1
	}
	return e.finish.Add(func(struct{}) { listener() })
}

// RemoveOnFinish unregisters a finish listener.
func (e *Engine) RemoveOnFinish(handle int) {
	e.finish.Remove(handle)
}

// Prepare shuffles a copy of deck and deals card i to tableau column i%8.
// Every card lands face-down except the last card of each column. The deal
// is published but cannot be undone.
func (e *Engine) Prepare(deck []cards.Card) error {
	if e.dealt {
		return ErrAlreadyDealt
	}
	if err := validateDeck(deck); err != nil {
		return err
	}

	dealing := make([]*cards.Card, len(deck))
	for i, c := range deck {
		dealing[i] = &cards.Card{ID: c.ID, Number: c.Number, Color: c.Color, Flipped: true}
	}
	e.shuffle(dealing)

	events := make(rules.Batch, 0, len(dealing)+piles.TableauColumns)
	for i, c := range dealing {
		ref := piles.PileRef{Field: piles.FieldTableau, Number: i % piles.TableauColumns}
		column := e.store.Pile(ref)
		column.Push(c)
		to := piles.Location{Field: ref.Field, Number: ref.Number, Order: column.Len() - 1}
		events = append(events, rules.NewMove(c, to, piles.Location{}))
	}
	for n := 0; n < piles.TableauColumns; n++ {
		top := e.store.Pile(piles.PileRef{Field: piles.FieldTableau, Number: n}).Top()
		if top == nil {
			continue
		}
		events = append(events, rules.NewFlip(top, false))
		top.Flipped = false
	}

	e.dealt = true
	e.logger.Debug("dealt game", zap.Int("cards", len(dealing)))
	e.applyEvents(events, true)
	return nil
}

func validateDeck(deck []cards.Card) error {
	if len(deck) != cards.DeckSize {
		return fmt.Errorf("expected %d cards, got %d: %w", cards.DeckSize, len(deck), ErrInvalidDeck)
	}
	ids := make(map[cards.CardID]bool, len(deck))
	faces := make(map[[2]int]bool, len(deck))
	for _, c := range deck {
		if !c.Valid() {
			return fmt.Errorf("card %d has rank %d color %d: %w", c.ID, c.Number, c.Color, ErrInvalidDeck)
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate card id %d: %w", c.ID, ErrInvalidDeck)
		}
		face := [2]int{c.Number, c.Color}
		if faces[face] {
			return fmt.Errorf("duplicate card %d/%d: %w", c.Number, c.Color, ErrInvalidDeck)
		}
		ids[c.ID] = true
		faces[face] = true
	}
	return nil
}

// shuffle is a Fisher-Yates shuffle.
func (e *Engine) shuffle(deck []*cards.Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// applyEvents records the batch unless excluded and publishes it.
func (e *Engine) applyEvents(batch rules.Batch, excludeFromHistory bool) {
	if !excludeFromHistory {
		e.history.Push(batch)
	}
	e.changed.Dispatch(batch)
}

// addPoints raises a score delta. Zero deltas are not published.
func (e *Engine) addPoints(delta int) {
	if delta == 0 {
		return
	}
	e.score += delta
	e.points.Dispatch(delta)
}

// checkFinish fires the finish signal the first time all foundations are complete.
func (e *Engine) checkFinish() {
	if e.finished || e.store.CompleteFoundations() != piles.Foundations {
		return
	}
	e.finished = true
	e.logger.Info("game finished", zap.Int("score", e.score))
	e.finish.Dispatch(struct{}{})
}

// Locate returns where a card currently sits.
func (e *Engine) Locate(id cards.CardID) (piles.Placement, bool) {
	return e.locator.Locate(id)
}

// Pile returns a copy of one pile, bottom first. Invalid refs yield nil.
func (e *Engine) Pile(field piles.FieldKind, number int) []cards.Card {
	p := e.store.Pile(piles.PileRef{Field: field, Number: number})
	if p == nil {
		return nil
	}
	return p.Values()
}

// Snapshot copies the whole board.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{Snapshot: e.store.Snapshot()}
}

// Score returns the sum of every published delta.
func (e *Engine) Score() int {
	return e.score
}

// CanUndo reports whether Undo has something to revert.
func (e *Engine) CanUndo() bool {
	return !e.history.IsEmpty()
}

// HistoryLen returns the number of undoable batches.
func (e *Engine) HistoryLen() int {
	return e.history.Len()
}

// Finished reports whether the win has been signaled.
func (e *Engine) Finished() bool {
	return e.finished
}

// Dealt reports whether Prepare has run.
func (e *Engine) Dealt() bool {
	return e.dealt
}
