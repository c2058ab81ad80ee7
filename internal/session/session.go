package session

import (
	"sync"
	"time"

	"github.com/arjun115/freecell/internal/game"
	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
)

// Observer receives what a session's engine publishes. Nil fields are skipped.
// Callbacks run while the session lock is held and must not call back into
// the session.
type Observer struct {
	OnChange func(rules.Batch)
	OnPoints func(delta, score int)
	OnFinish func()
}

// State is a consistent view of one game.
type State struct {
	GameID   string        `json:"game_id"`
	Piles    game.Snapshot `json:"piles"`
	Score    int           `json:"score"`
	Checksum string        `json:"checksum"`
	Finished bool          `json:"finished"`
	CanUndo  bool          `json:"can_undo"`
}

// Session owns one engine and serializes every command on it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	engine     *game.Engine
	autoSettle bool
	lastActive time.Time
}

func newSession(id string, engine *game.Engine, autoSettle bool) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		engine:     engine,
		autoSettle: autoSettle,
		lastActive: now,
	}
}

// touch must be called with mu held.
func (s *Session) touch() {
	s.lastActive = time.Now()
}

// settle must be called with mu held.
func (s *Session) settle() {
	if s.autoSettle {
		s.engine.Settle()
	}
}

// LastActive returns the time of the last command.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Observe registers o on the engine and returns a function removing it.
func (s *Session) Observe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var remove []func()
	if o.OnChange != nil {
		h := s.engine.OnChange(o.OnChange)
		remove = append(remove, func() { s.engine.RemoveOnChange(h) })
	}
	if o.OnPoints != nil {
		h := s.engine.OnPoints(func(delta int) { o.OnPoints(delta, s.engine.Score()) })
		remove = append(remove, func() { s.engine.RemoveOnPoints(h) })
	}
	if o.OnFinish != nil {
		h := s.engine.OnFinish(o.OnFinish)
		remove = append(remove, func() { s.engine.RemoveOnFinish(h) })
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, fn := range remove {
			fn()
		}
	}
}

// Place tries to move the card onto the pile.
func (s *Session) Place(id cards.CardID, field piles.FieldKind, number int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	ok := s.engine.CanPlace(id, field, number)
	if ok {
		s.settle()
	}
	return ok
}

// Drag reports whether the card can be lifted and which cards come with it.
func (s *Session) Drag(id cards.CardID) (bool, []cards.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.engine.CanDrag(id) {
		return false, []cards.Card{}
	}
	lifted := s.engine.GetTableauArray(id)
	if len(lifted) == 0 {
		if pl, ok := s.engine.Locate(id); ok {
			lifted = []cards.Card{*pl.Card}
		}
	}
	return true, lifted
}

// AutoMove sends the card home when one is given, otherwise settles every
// uncovered ace. It reports whether anything moved.
func (s *Session) AutoMove(id *cards.CardID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if id == nil {
		return s.engine.Settle() > 0
	}
	before := s.engine.HistoryLen()
	s.engine.CheckPossibleMove(*id)
	moved := s.engine.HistoryLen() > before
	if moved {
		s.settle()
	}
	return moved
}

// Draw turns cards from stock to waste.
func (s *Session) Draw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	ok := s.engine.Draw()
	if ok {
		s.settle()
	}
	return ok
}

// Undo reverts the last command. Auto-settle is skipped so an undone ace
// stays where it was.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.engine.Undo()
}

// State returns the current board, score and checksum.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.engine.Snapshot()
	return State{
		GameID:   s.ID,
		Piles:    snap,
		Score:    s.engine.Score(),
		Checksum: snap.Checksum(),
		Finished: s.engine.Finished(),
		CanUndo:  s.engine.CanUndo(),
	}
}
