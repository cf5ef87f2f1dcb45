package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type GameHandler struct {
	logger   *slog.Logger
	sessions *session.Registry
	tokens   *config.SessionToken
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	sessions *session.Registry,
	tokens *config.SessionToken,
	ws *config.WebSocket,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		sessions: sessions,
		tokens:   tokens,
		ws:       ws,
	}

	return handler
}

func (g GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := g.sessions.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		SendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return nil, false
	}
	return s, true
}

// commandFailed maps a session command error to a response.
func (g GameHandler) commandFailed(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration):
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
	case errors.Is(err, session.ErrClosed):
		SendErrorOrLog(w, g.logger, http.StatusGone, err)
	default:
		g.logger.Error("unable to apply command", slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
	}
}

func (g GameHandler) sendSnapshot(w http.ResponseWriter, s *session.Session) {
	seq, game := s.Current()
	SendJSONOrLog(w, g.logger, NewGameDTO(s, seq, game))
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseGameParams(r.URL.Query())
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, err := g.sessions.Create(params)
	if err != nil {
		g.commandFailed(w, err)
		return
	}

	token, err := g.tokens.Sign(s.ID())
	if err != nil {
		g.logger.Error("unable to sign session token", slog.Any("error", err))
		g.sessions.Remove(s.ID())
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, errors.New("unable to create session"))
		return
	}

	seq, game := s.Current()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	SendJSONOrLog(w, g.logger, NewGameResponse{
		Token: token,
		Game:  NewGameDTO(s, seq, game),
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}
	g.sendSnapshot(w, s)
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	move, p, err := ParseMove(r.URL.Query())
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	if _, err := s.Snapshot().CellState(p); err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, errOutOfBounds)
		return
	}

	var u session.Update
	switch move {
	case session.MoveOpen:
		u, err = s.Reveal(p)
	case session.MoveFlag:
		u, err = s.Flag(p)
	case session.MoveChord:
		u, err = s.Chord(p)
	}
	if err != nil {
		g.commandFailed(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, NewUpdateDTO(s, u))
}

func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	u, err := s.Reset()
	if err != nil {
		g.commandFailed(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, NewUpdateDTO(s, u))
}

func (g GameHandler) Configure(w http.ResponseWriter, r *http.Request) {
	params, err := ParseGameParams(r.URL.Query())
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	u, err := s.Configure(params)
	if err != nil {
		g.commandFailed(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, NewUpdateDTO(s, u))
}
