package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/tictactoe/internal/tictactoe"
)

var ErrNotFound = errors.New("not found")

type gameEntry struct {
	mu         sync.Mutex
	game       *tictactoe.Game
	lastActive time.Time
}

// Registry holds the in-memory games, one writer per game at a time.
type Registry struct {
	now   func() time.Time
	mu    sync.RWMutex
	games map[string]*gameEntry
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		now:   now,
		games: make(map[string]*gameEntry),
	}
}

// Create registers a new game waiting for player names.
func (r *Registry) Create() string {
	id := uuid.NewString()
	e := &gameEntry{
		game:       tictactoe.NewGame(r.now),
		lastActive: r.now(),
	}

	r.mu.Lock()
	r.games[id] = e
	r.mu.Unlock()
	return id
}

// With runs fn while holding the game's lock.
func (r *Registry) With(id string, fn func(g *tictactoe.Game) error) error {
	r.mu.RLock()
	e, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActive = r.now()
	return fn(e.game)
}

func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.games[id]
	return ok
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ErrNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep drops games untouched for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.games {
		e.mu.Lock()
		idle := e.lastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle games every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, logger *slog.Logger, interval, maxIdle time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				logger.Info("idle games dropped", "count", n, "remaining", r.Len())
			}
		}
	}
}
