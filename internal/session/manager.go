// Package session keeps the live games of a server process in memory.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arjun115/freecell/internal/game"
	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for an unknown game id.
	ErrNotFound = errors.New("session not found")
	// ErrLimitReached is returned by Create when MaxSessions games are live.
	ErrLimitReached = errors.New("session limit reached")
)

// Options configures the games a Manager creates.
type Options struct {
	Settings game.Settings
	// AutoSettle runs a settle sweep after every accepted command except undo.
	AutoSettle bool
	// MaxSessions caps live games. Zero means no limit.
	MaxSessions int
	// IdleTTL drops games idle for longer. Zero keeps them until removed.
	IdleTTL time.Duration
}

// Manager manages live sessions.
type Manager struct {
	opts     Options
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a new session manager.
func NewManager(opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create deals a fresh game and registers it under a new id.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		return nil, ErrLimitReached
	}

	id := uuid.NewString()
	engine := game.NewEngine(m.logger.With(zap.String("game_id", id)), m.opts.Settings)
	if err := engine.Prepare(cards.NewDeck()); err != nil {
		return nil, fmt.Errorf("deal game %s: %w", id, err)
	}

	s := newSession(id, engine, m.opts.AutoSettle)
	if m.opts.AutoSettle {
		engine.Settle()
	}
	m.sessions[id] = s

	m.logger.Info("session created",
		zap.String("game_id", id),
		zap.Int("active_sessions", len(m.sessions)),
	)
	return s, nil
}

// Get retrieves a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Remove drops a session. Unknown ids are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	m.logger.Info("session removed", zap.String("game_id", id))
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll drops every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.logger.Info("all sessions closed", zap.Int("count", n))
}

// RemoveIdle drops sessions idle since before cutoff and returns how many.
func (m *Manager) RemoveIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.logger.Info("session expired", zap.String("game_id", id))
		}
	}
	return removed
}

// CleanupExpiredSessions removes idle sessions every interval until ctx is
// done. It returns at once when IdleTTL is zero.
func (m *Manager) CleanupExpiredSessions(ctx context.Context, interval time.Duration) {
	if m.opts.IdleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.RemoveIdle(now.Add(-m.opts.IdleTTL)); n > 0 {
				m.logger.Debug("idle sessions cleaned", zap.Int("removed", n))
			}
		}
	}
}
