package session

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("session closed")
)

type Move string

const (
	MoveOpen      Move = "open"
	MoveFlag      Move = "flag"
	MoveChord     Move = "chord"
	MoveReset     Move = "reset"
	MoveConfigure Move = "configure"
)

// Update describes one applied command. Seq grows by one for every command
// that produced a new snapshot; no-ops carry the current Seq and are not
// broadcast.
type Update struct {
	Seq      uint64
	Move     Move
	Point    mines.Point
	Game     *mines.Game
	Revealed []mines.RevealedCell
	Terminal bool
}

// Journal receives every update a session broadcasts.
type Journal interface {
	Record(sessionID string, u Update)
}

type Subscription struct {
	C <-chan Update

	ch      chan Update
	session *Session
	once    sync.Once
}

// Close detaches the subscription. C is closed once the session lets go of
// it.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.session.unsubscribe(sub)
	})
}

// Session owns one game. Commands are applied one at a time and each new
// snapshot is published to subscribers; readers can take a snapshot at any
// point without blocking the writer.
type Session struct {
	id      string
	logger  *slog.Logger
	clock   Clock
	journal Journal

	game atomic.Pointer[mines.Game]

	mu         sync.Mutex // guards everything below
	rnd        *rand.Rand
	seq        uint64
	startedAt  time.Time
	endedAt    time.Time
	lastActive time.Time
	subs       map[*Subscription]struct{}
	closed     bool
}

func newSession(
	id string,
	game *mines.Game,
	logger *slog.Logger,
	rnd *rand.Rand,
	clock Clock,
	journal Journal,
) *Session {
	s := &Session{
		id:         id,
		logger:     logger.With(slog.String("session", id)),
		clock:      clock,
		journal:    journal,
		rnd:        rnd,
		lastActive: clock.Now(),
		subs:       make(map[*Subscription]struct{}),
	}
	s.game.Store(game)
	return s
}

func (s *Session) ID() string { return s.id }

// Snapshot returns the current game.
func (s *Session) Snapshot() *mines.Game {
	return s.game.Load()
}

// Current returns the snapshot together with the sequence number of the
// update that produced it.
func (s *Session) Current() (uint64, *mines.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq, s.game.Load()
}

func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

func (s *Session) Reveal(p mines.Point) (Update, error) {
	return s.apply(MoveOpen, p, func(g *mines.Game) (*mines.Game, mines.RevealResult, error) {
		next, res := g.Reveal(p, s.rnd)
		return next, res, nil
	})
}

func (s *Session) Flag(p mines.Point) (Update, error) {
	return s.apply(MoveFlag, p, func(g *mines.Game) (*mines.Game, mines.RevealResult, error) {
		next, _ := g.ToggleFlag(p)
		return next, mines.RevealResult{Status: next.Status()}, nil
	})
}

func (s *Session) Chord(p mines.Point) (Update, error) {
	return s.apply(MoveChord, p, func(g *mines.Game) (*mines.Game, mines.RevealResult, error) {
		next, res := g.Chord(p, s.rnd)
		return next, res, nil
	})
}

func (s *Session) Reset() (Update, error) {
	return s.apply(MoveReset, mines.Point{}, func(g *mines.Game) (*mines.Game, mines.RevealResult, error) {
		next := g.Reset()
		return next, mines.RevealResult{Status: next.Status()}, nil
	})
}

func (s *Session) Configure(params mines.GameParams) (Update, error) {
	return s.apply(MoveConfigure, mines.Point{}, func(g *mines.Game) (*mines.Game, mines.RevealResult, error) {
		next, err := g.Reconfigure(params)
		if err != nil {
			return nil, mines.RevealResult{}, err
		}
		return next, mines.RevealResult{Status: next.Status()}, nil
	})
}

type command func(*mines.Game) (*mines.Game, mines.RevealResult, error)

func (s *Session) apply(move Move, p mines.Point, cmd command) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Update{}, ErrClosed
	}

	cur := s.game.Load()
	next, res, err := cmd(cur)
	if err != nil {
		return Update{}, err
	}

	now := s.clock.Now()
	s.lastActive = now

	u := Update{Seq: s.seq, Move: move, Point: p, Game: next}
	if next == cur {
		return u, nil
	}

	s.seq++
	u.Seq = s.seq
	u.Revealed = res.Revealed
	u.Terminal = res.Terminal

	switch {
	case next.Status() == mines.Reset:
		s.startedAt, s.endedAt = time.Time{}, time.Time{}
	case cur.Status() == mines.Reset:
		s.startedAt = now
	}
	if next.Status().Terminal() && !cur.Status().Terminal() {
		s.endedAt = now
	}

	s.game.Store(next)

	if s.journal != nil {
		s.journal.Record(s.id, u)
	}
	s.broadcast(u)

	if u.Terminal {
		s.logger.Info("game over",
			slog.String("status", next.Status().String()),
			slog.Duration("elapsed", s.elapsed(now)),
		)
	}

	return u, nil
}

func (s *Session) broadcast(u Update) {
	for sub := range s.subs {
		select {
		case sub.ch <- u:
		default:
			s.logger.Warn("update dropped - subscriber buffer full",
				slog.Uint64("seq", u.Seq))
		}
	}
}

// Subscribe registers an observer. Updates that do not fit into a buffer of
// the given size are dropped for that subscriber only.
func (s *Session) Subscribe(buffer int) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	ch := make(chan Update, buffer)
	sub := &Subscription{C: ch, ch: ch, session: s}
	s.subs[sub] = struct{}{}
	s.logger.Debug("subscriber registered", slog.Int("total", len(s.subs)))
	return sub, nil
}

func (s *Session) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.ch)
		s.logger.Debug("subscriber unregistered", slog.Int("total", len(s.subs)))
	}
}

// Close rejects further commands and closes every subscription channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		close(sub.ch)
		delete(s.subs, sub)
	}
}

// StartedAt is the time of the first reveal, zero while the game is in
// [mines.Reset].
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// EndedAt is zero until the game is won or lost.
func (s *Session) EndedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

// Elapsed is the play time a timer display should show.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed(s.clock.Now())
}

func (s *Session) elapsed(now time.Time) time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case !s.endedAt.IsZero():
		return s.endedAt.Sub(s.startedAt)
	default:
		return now.Sub(s.startedAt)
	}
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
