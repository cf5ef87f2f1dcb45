// Package journal keeps an append-only record of the moves applied to every
// session, one JSON line per move.
package journal

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type Journal struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Journal {
	return &Journal{log: log}
}

// Open builds a journal that writes to a size-rotated file, or discards
// every entry when no path is configured.
func Open(cfg *config.Journal) (*Journal, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	if cfg.Path == "" {
		return New(log), nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Level:      logrus.InfoLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open journal file: %w", err)
	}
	log.AddHook(hook)

	return New(log), nil
}

func (j *Journal) Record(sessionID string, u session.Update) {
	g := u.Game
	entry := j.log.WithFields(logrus.Fields{
		"session":   sessionID,
		"seq":       u.Seq,
		"move":      string(u.Move),
		"status":    g.Status().String(),
		"revealed":  len(u.Revealed),
		"remaining": g.Remaining(),
		"params":    g.Params().Seed(),
	})
	switch u.Move {
	case session.MoveOpen, session.MoveFlag, session.MoveChord:
		entry = entry.WithFields(logrus.Fields{
			"row": u.Point.Row,
			"col": u.Point.Col,
		})
	}

	if u.Terminal {
		entry.Info("game over")
		return
	}
	entry.Info("move")
}
