package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateGameDTO struct {
	Level   string `schema:"level"`
	Rows    int    `schema:"rows"`
	Columns int    `schema:"columns"`
	Mines   int    `schema:"mines"`
}

// ParseGameParams reads a level preset, or custom dimensions, from a query
// string. A bare query starts an easy game.
func ParseGameParams(src url.Values) (mines.GameParams, error) {
	var dto CreateGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}

	level := mines.Easy
	switch {
	case dto.Level != "":
		l, err := mines.ParseLevel(dto.Level)
		if err != nil {
			return mines.GameParams{}, err
		}
		level = l
	case dto.Rows != 0 || dto.Columns != 0:
		level = mines.Custom
	}

	return mines.LevelParams(level, mines.GameParams{
		Rows:      dto.Rows,
		Columns:   dto.Columns,
		MineCount: dto.Mines,
	})
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row,required"`
	Col  int    `schema:"col,required"`
}

func ParseMove(src url.Values) (session.Move, mines.Point, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return "", mines.Point{}, err
	}
	switch m := session.Move(dto.Move); m {
	case session.MoveOpen, session.MoveFlag, session.MoveChord:
		return m, mines.Point{Row: dto.Row, Col: dto.Col}, nil
	default:
		return "", mines.Point{}, fmt.Errorf("unknown move %q", dto.Move)
	}
}

var errOutOfBounds = errors.New("invalid cell position")

type PointDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CellDTO struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Value mines.CellValue `json:"value"`
}

type GameDTO struct {
	SessionID       string       `json:"session_id"`
	Seq             uint64       `json:"seq"`
	Status          mines.Status `json:"status"`
	Rows            int          `json:"rows"`
	Columns         int          `json:"columns"`
	MineCount       int          `json:"mine_count"`
	Remaining       int          `json:"remaining"`
	RevealedCount   int          `json:"revealed_count"`
	SquaresToReveal int          `json:"squares_to_reveal"`
	Grid            []int        `json:"grid"`
	FirstClicked    *PointDTO    `json:"first_clicked,omitempty"`
	Exploded        *PointDTO    `json:"exploded,omitempty"`
	StartedAt       *int64       `json:"started_at,omitempty"`
	EndedAt         *int64       `json:"ended_at,omitempty"`
	ElapsedMs       int64        `json:"elapsed_ms"`
}

func unixMilli(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func pointDTO(p mines.Point, ok bool) *PointDTO {
	if !ok {
		return nil
	}
	return &PointDTO{Row: p.Row, Col: p.Col}
}

// NewGameDTO renders g, a snapshot of s, the way the board shows it to the
// player: see [mines.CellStatus] for the grid codes.
func NewGameDTO(s *session.Session, seq uint64, g *mines.Game) *GameDTO {
	params := g.Params()
	playerGrid := g.PlayerGrid()
	grid := make([]int, len(playerGrid))
	for i, c := range playerGrid {
		grid[i] = int(c)
	}

	return &GameDTO{
		SessionID:       s.ID(),
		Seq:             seq,
		Status:          g.Status(),
		Rows:            params.Rows,
		Columns:         params.Columns,
		MineCount:       params.MineCount,
		Remaining:       g.Remaining(),
		RevealedCount:   g.RevealedCount(),
		SquaresToReveal: g.SquaresToReveal(),
		Grid:            grid,
		FirstClicked:    pointDTO(g.FirstClicked()),
		Exploded:        pointDTO(g.Exploded()),
		StartedAt:       unixMilli(s.StartedAt()),
		EndedAt:         unixMilli(s.EndedAt()),
		ElapsedMs:       s.Elapsed().Milliseconds(),
	}
}

type NewGameResponse struct {
	Token string   `json:"token"`
	Game  *GameDTO `json:"game"`
}

type UpdateDTO struct {
	Type     string       `json:"type"`
	Move     session.Move `json:"move,omitempty"`
	Revealed []CellDTO    `json:"revealed"`
	Terminal bool         `json:"terminal"`
	Game     *GameDTO     `json:"game"`
}

func NewUpdateDTO(s *session.Session, u session.Update) *UpdateDTO {
	revealed := make([]CellDTO, len(u.Revealed))
	for i, c := range u.Revealed {
		revealed[i] = CellDTO{Row: c.Row, Col: c.Col, Value: c.Value}
	}
	return &UpdateDTO{
		Type:     "update",
		Move:     u.Move,
		Revealed: revealed,
		Terminal: u.Terminal,
		Game:     NewGameDTO(s, u.Seq, u.Game),
	}
}
