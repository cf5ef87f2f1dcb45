package session

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

// Registry keeps the live sessions of this process. Sessions that have not
// seen a command for longer than the idle TTL are closed by [Registry.Reap].
type Registry struct {
	logger  *slog.Logger
	clock   Clock
	journal Journal
	idleTTL time.Duration

	mu       sync.RWMutex
	rnd      *rand.Rand // guarded by mu
	sessions map[string]*Session
}

func NewRegistry(
	logger *slog.Logger,
	rnd *rand.Rand,
	journal Journal,
	clock Clock,
	idleTTL time.Duration,
) *Registry {
	return &Registry{
		logger:   logger.With(slog.String("component", "sessions")),
		clock:    clock,
		journal:  journal,
		idleTTL:  idleTTL,
		rnd:      rnd,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session with a fresh game in the reset state.
func (r *Registry) Create(params mines.GameParams) (*Session, error) {
	game, err := mines.NewGame(params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	rnd := rand.New(rand.NewPCG(r.rnd.Uint64(), r.rnd.Uint64()))
	s := newSession(id, game, r.logger, rnd, r.clock, r.journal)
	r.sessions[id] = s

	r.logger.Info("session created",
		slog.String("session", id),
		slog.String("params", params.Seed()),
		slog.Int("total", len(r.sessions)),
	)

	return s, nil
}

func (r *Registry) newID() string {
	for {
		id := strconv.FormatUint(r.rnd.Uint64(), 36)
		if _, taken := r.sessions[id]; !taken {
			return id
		}
	}
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Close()
	r.logger.Info("session removed", slog.String("session", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap closes every session idle since before now minus the idle TTL and
// returns how many were removed.
func (r *Registry) Reap(now time.Time) int {
	deadline := now.Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.LastActive().Before(deadline) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		r.logger.Info("idle sessions reaped", slog.Int("removed", len(stale)))
	}
	return len(stale)
}

// Run reaps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Reap(r.clock.Now())
		}
	}
}
