package handlers

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type wsCommand string

const (
	wsGet   wsCommand = "g"
	wsOpen  wsCommand = "o"
	wsFlag  wsCommand = "f"
	wsChord wsCommand = "c"
	wsReset wsCommand = "n"
)

// Maps known commands to number of arguments
var commandNargs = map[wsCommand]int{
	wsGet:   0,
	wsOpen:  2,
	wsFlag:  2,
	wsChord: 2,
	wsReset: 0,
}

type command struct {
	op    wsCommand
	point mines.Point
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}
	op := wsCommand(parts[0])
	nargs, ok := commandNargs[op]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, errors.New("invalid number of arguments")
	}
	c := command{op: op}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return command{}, err
		}
		c.point = mines.Point{Row: row, Col: col}
	}
	return c, nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

type wsMessage struct {
	Type  string   `json:"type"`
	Error string   `json:"error,omitempty"`
	Game  *GameDTO `json:"game,omitempty"`
}

func snapshotMessage(s *session.Session) wsMessage {
	seq, game := s.Current()
	return wsMessage{Type: "game", Game: NewGameDTO(s, seq, game)}
}

func errorMessage(err error) wsMessage {
	return wsMessage{Type: "error", Error: err.Error()}
}

// execute applies c and reports whether it produced a new snapshot, which
// then reaches the client through the subscription.
func execute(s *session.Session, c command) (bool, error) {
	var (
		u   session.Update
		err error
	)
	switch c.op {
	case wsOpen, wsFlag, wsChord:
		if _, err := s.Snapshot().CellState(c.point); err != nil {
			return false, errOutOfBounds
		}
	}
	before := s.Seq()
	switch c.op {
	case wsOpen:
		u, err = s.Reveal(c.point)
	case wsFlag:
		u, err = s.Flag(c.point)
	case wsChord:
		u, err = s.Chord(c.point)
	case wsReset:
		u, err = s.Reset()
	default:
		return false, fmt.Errorf("unexpected command %q", c.op)
	}
	if err != nil {
		return false, err
	}
	return u.Seq != before, nil
}

// ConnectWS streams session updates to the client and accepts newline
// separated text commands:
//
//	o <row> <col>   open
//	f <row> <col>   toggle flag
//	c <row> <col>   chord
//	n               new game with the same dimensions
//	g               send the current game
//
// Every update of the session is pushed, including the ones made by other
// connections. A message that changes nothing is answered with the current
// game.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	sub, err := s.Subscribe(g.ws.SendBuffer)
	if err != nil {
		g.commandFailed(w, err)
		return
	}
	defer sub.Close()

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := g.logger.With(slog.String("session", s.ID()))
	logger.Debug("websocket connected")

	replies := make(chan wsMessage, g.ws.SendBuffer)
	writerDone := make(chan struct{})
	readerDone := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(writerDone)
		g.wsWriteLoop(conn, s, sub, replies, readerDone, logger)
	}()

	send := func(m wsMessage) {
		select {
		case replies <- m:
		case <-writerDone:
		}
	}

	send(snapshotMessage(s))
	g.wsReadLoop(conn, s, send, logger)

	close(readerDone)
	wg.Wait()
	logger.Debug("websocket disconnected")
}

func (g GameHandler) wsReadLoop(
	conn *websocket.Conn,
	s *session.Session,
	send func(wsMessage),
	logger *slog.Logger,
) {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read failed", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		answered := false
		text := strings.TrimSpace(string(buf))
	LINES:
		for _, line := range byPiece(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			logger.Debug("> " + line)

			c, err := parseCommand(line)
			if err != nil {
				send(errorMessage(err))
				answered = true
				continue
			}
			if c.op == wsGet {
				send(snapshotMessage(s))
				answered = true
				continue
			}

			changed, err := execute(s, c)
			switch {
			case errors.Is(err, session.ErrClosed):
				return
			case err != nil:
				send(errorMessage(err))
				answered = true
				continue
			}
			answered = answered || changed
			if s.Snapshot().Status().Terminal() {
				break LINES
			}
		}

		if !answered {
			send(snapshotMessage(s))
		}
	}
}

func (g GameHandler) wsWriteLoop(
	conn *websocket.Conn,
	s *session.Session,
	sub *session.Subscription,
	replies <-chan wsMessage,
	readerDone <-chan struct{},
	logger *slog.Logger,
) {
	// closing the connection unblocks the reader
	defer conn.Close()

	for {
		var msg any
		select {
		case <-readerDone:
			return
		case u, ok := <-sub.C:
			if !ok {
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(g.ws.WriteTimeout),
				)
				return
			}
			msg = NewUpdateDTO(s, u)
		case m := <-replies:
			msg = m
		}

		conn.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn("websocket write failed", slog.Any("error", err))
			return
		}
	}
}
