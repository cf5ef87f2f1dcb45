package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Rows, Columns, MineCount int
}

func (p GameParams) Unpack() (rows int, columns int, mineCount int) {
	return p.Rows, p.Columns, p.MineCount
}

func (p GameParams) Cells() int {
	return p.Rows * p.Columns
}

// SquaresToReveal is the number of safe cells a player has to open to win.
func (p GameParams) SquaresToReveal() int {
	return p.Cells() - p.MineCount
}

func (p GameParams) Validate() error {
	switch {
	case p.Rows <= 0 || p.Columns <= 0:
		return ConfigError{p, "dimensions must be positive"}
	case p.MineCount < 0:
		return ConfigError{p, "mine count must not be negative"}
	case p.MineCount >= p.Cells():
		return ConfigError{p, "mine count must be less than the number of cells"}
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Columns, p.MineCount)
}

func ParseSeed(seed string) (GameParams, error) {
	var p GameParams
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Columns, &p.MineCount)
	if n != 3 || err != nil {
		return GameParams{}, fmt.Errorf(
			`invalid game params seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	return p, nil
}

type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
	Custom Level = "custom"
)

var presets = map[Level]GameParams{
	Easy:   {Rows: 9, Columns: 9, MineCount: 10},
	Medium: {Rows: 16, Columns: 16, MineCount: 40},
	Hard:   {Rows: 16, Columns: 30, MineCount: 99},
}

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Easy, Medium, Hard, Custom:
		return l, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// Params returns the preset dimensions of l. Custom has no preset.
func (l Level) Params() (GameParams, bool) {
	p, ok := presets[l]
	return p, ok
}

// LevelParams resolves the parameters for a level. custom is only consulted
// (and validated) for [Custom].
func LevelParams(l Level, custom GameParams) (GameParams, error) {
	if l == Custom {
		if err := custom.Validate(); err != nil {
			return GameParams{}, err
		}
		return custom, nil
	}
	p, ok := l.Params()
	if !ok {
		return GameParams{}, fmt.Errorf("unknown level %q", l)
	}
	return p, nil
}
