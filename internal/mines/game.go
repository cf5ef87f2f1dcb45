package mines

import (
	"fmt"
	"log/slog"
	"slices"
)

var Log *slog.Logger = slog.Default()

type Status uint8

const (
	Reset Status = iota
	InProgress
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Reset:
		return "reset"
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{Reset, InProgress, Won, Lost} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

type RevealedCell struct {
	Point
	Value CellValue
}

type RevealResult struct {
	// Cells uncovered by the call: the target first, then anything the
	// move uncovered on top of it in row-major order.
	Revealed []RevealedCell
	Status   Status
	// Terminal is set only by the call that ended the game.
	Terminal bool
}

// Game is an immutable snapshot of one match. Every command returns a new
// snapshot (or the receiver itself when the command is a no-op), so a *Game
// can be shared freely between readers.
type Game struct {
	params        GameParams
	board         *Board
	revealed      []bool
	flags         FlagLedger
	status        Status
	revealedCount int
	firstClicked  *Point
	exploded      *Point
}

// NewGame returns a game in the [Reset] state. Mines are placed on the first
// reveal.
func NewGame(params GameParams) (*Game, error) {
	board, err := NewPlaceholder(params)
	if err != nil {
		return nil, err
	}
	return newGame(board), nil
}

func newGame(board *Board) *Game {
	return &Game{
		params:   board.Params(),
		board:    board,
		revealed: make([]bool, board.Params().Cells()),
		flags:    NewFlagLedger(board.Params()),
	}
}

func (g *Game) clone() *Game {
	next := *g
	next.revealed = slices.Clone(g.revealed)
	return &next
}

func (g *Game) noop() RevealResult {
	return RevealResult{Status: g.status}
}

func (g *Game) open(p Point) RevealedCell {
	g.revealed[g.board.index(p)] = true
	g.revealedCount++
	return RevealedCell{Point: p, Value: g.board.Value(p)}
}

// Reveal opens p. The first reveal of a match places the mines with p kept
// safe. Revealing a flagged or already revealed cell, a cell outside the
// board, or anything after the game has ended changes nothing.
func (g *Game) Reveal(p Point, rnd Rand) (*Game, RevealResult) {
	if g.status.Terminal() || !g.board.InBounds(p) ||
		g.isRevealed(p) || g.flags.Flagged(p) {
		return g, g.noop()
	}

	next := g.clone()
	if next.status == Reset {
		board, err := Generate(next.params, p, rnd)
		if err != nil {
			Log.Error("unable to generate board",
				slog.String("params", next.params.Seed()),
				slog.Any("error", err),
			)
			return g, g.noop()
		}
		next.board = board
		next.status = InProgress
		first := p
		next.firstClicked = &first
	}

	if next.board.Value(p) == Mine {
		return next, next.explode(p)
	}

	res := RevealResult{Revealed: []RevealedCell{next.open(p)}}
	if next.board.Value(p) == 0 {
		for _, q := range SortPoints(Expand(next.board, p)) {
			// flagged cells stay covered; a zero never borders a mine
			if next.isRevealed(q) || next.flags.Flagged(q) || next.board.Value(q) == Mine {
				continue
			}
			res.Revealed = append(res.Revealed, next.open(q))
		}
	}

	if next.revealedCount == next.params.SquaresToReveal() {
		next.status = Won
		res.Terminal = true
	}
	res.Status = next.status

	return next, res
}

func (g *Game) explode(p Point) RevealResult {
	g.status = Lost
	g.exploded = &p

	res := RevealResult{Status: Lost, Terminal: true}
	res.Revealed = append(res.Revealed, RevealedCell{Point: p, Value: Mine})
	g.revealed[g.board.index(p)] = true
	for _, m := range g.board.Mines() {
		if g.isRevealed(m) {
			continue
		}
		g.revealed[g.board.index(m)] = true
		res.Revealed = append(res.Revealed, RevealedCell{Point: m, Value: Mine})
	}
	return res
}

// ToggleFlag flips the flag on a covered cell and returns the flag counter.
// Flags may be placed before the first reveal and survive board generation.
func (g *Game) ToggleFlag(p Point) (*Game, int) {
	if g.status.Terminal() || !g.board.InBounds(p) || g.isRevealed(p) {
		return g, g.Remaining()
	}
	next := *g
	next.flags = g.flags.Toggle(p)
	return &next, next.Remaining()
}

// Chord reveals every covered, unflagged neighbour of an open number once the
// player has placed as many flags around it as the number says.
func (g *Game) Chord(p Point, rnd Rand) (*Game, RevealResult) {
	if g.status != InProgress || !g.board.InBounds(p) || !g.isRevealed(p) {
		return g, g.noop()
	}

	var (
		covered []Point
		flagged CellValue
	)
	for _, n := range g.board.Neighbors(p) {
		switch {
		case g.isRevealed(n):
		case g.flags.Flagged(n):
			flagged++
		default:
			covered = append(covered, n)
		}
	}
	if flagged != g.board.Value(p) || len(covered) == 0 {
		return g, g.noop()
	}

	cur, res := g, g.noop()
	for _, n := range covered {
		var r RevealResult
		cur, r = cur.Reveal(n, rnd)
		res.Revealed = append(res.Revealed, r.Revealed...)
		res.Status = r.Status
		res.Terminal = res.Terminal || r.Terminal
		if cur.status.Terminal() {
			break
		}
	}
	return cur, res
}

// Reset starts the match over with the same dimensions.
func (g *Game) Reset() *Game {
	return newGame(&Board{
		params: g.params,
		cells:  make([]CellValue, g.params.Cells()),
	})
}

// Reconfigure starts a new match with different dimensions. On error the
// receiver stays valid.
func (g *Game) Reconfigure(params GameParams) (*Game, error) {
	return NewGame(params)
}

func (g *Game) Params() GameParams   { return g.params }
func (g *Game) Status() Status       { return g.status }
func (g *Game) RevealedCount() int   { return g.revealedCount }
func (g *Game) SquaresToReveal() int { return g.params.SquaresToReveal() }
func (g *Game) FlagCount() int       { return g.flags.Count() }

// Remaining is the flag counter: mines minus placed flags, or zero once the
// game is won.
func (g *Game) Remaining() int {
	if g.status == Won {
		return 0
	}
	return g.flags.Remaining()
}

func (g *Game) FirstClicked() (Point, bool) {
	if g.firstClicked == nil {
		return Point{}, false
	}
	return *g.firstClicked, true
}

func (g *Game) Exploded() (Point, bool) {
	if g.exploded == nil {
		return Point{}, false
	}
	return *g.exploded, true
}

func (g *Game) isRevealed(p Point) bool {
	return g.board.InBounds(p) && g.revealed[g.board.index(p)]
}

func (g *Game) Revealed(p Point) bool {
	return g.isRevealed(p)
}

// Flagged reports a flag on a covered cell. Mines uncovered by a loss no
// longer count as flagged even though the flag counter keeps them.
func (g *Game) Flagged(p Point) bool {
	return !g.isRevealed(p) && g.flags.Flagged(p)
}

// Misflagged reports a flag on a safe cell once the game is lost.
func (g *Game) Misflagged(p Point) bool {
	return g.status == Lost && g.flags.Flagged(p) && g.board.Value(p) != Mine
}

// Flags lists covered flagged cells in row-major order.
func (g *Game) Flags() []Point {
	return slices.DeleteFunc(g.flags.Flags(), g.isRevealed)
}

type CellState struct {
	Point
	// Value is only meaningful when Revealed is set.
	Value      CellValue
	Revealed   bool
	Flagged    bool
	Misflagged bool
	Exploded   bool
}

func (g *Game) CellState(p Point) (CellState, error) {
	if !g.board.InBounds(p) {
		return CellState{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	s := CellState{
		Point:      p,
		Revealed:   g.isRevealed(p),
		Flagged:    g.Flagged(p),
		Misflagged: g.Misflagged(p),
		Exploded:   g.exploded != nil && *g.exploded == p,
	}
	if s.Revealed {
		s.Value = g.board.Value(p)
	}
	return s, nil
}
