package mines

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// scriptedRand hands out queued values first and falls back to a seeded
// source afterwards.
type scriptedRand struct {
	values   []int
	fallback *rand.Rand
}

func script(values ...int) *scriptedRand {
	return &scriptedRand{values: values, fallback: newRand()}
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.values) == 0 {
		return r.fallback.IntN(n)
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

// boardFrom builds a generated board from a picture where '*' is a mine and
// anything else is a safe cell.
func boardFrom(t *testing.T, rows ...string) *Board {
	t.Helper()
	params := GameParams{Rows: len(rows), Columns: len(rows[0])}
	for _, row := range rows {
		params.MineCount += strings.Count(row, "*")
	}
	b := &Board{params: params, cells: make([]CellValue, params.Cells()), generated: true}
	for r, row := range rows {
		if len(row) != params.Columns {
			t.Fatalf("ragged board row %d", r)
		}
		for c, ch := range row {
			if ch == '*' {
				b.cells[r*params.Columns+c] = Mine
			}
		}
	}
	for i, v := range b.cells {
		if v != Mine {
			b.cells[i] = b.countMines(b.point(i))
		}
	}
	return b
}

// inProgress returns a game on b that already had its first reveal at
// first. Mines are never placed again once the status left Reset.
func inProgress(t *testing.T, b *Board, first Point) *Game {
	t.Helper()
	g := newGame(b)
	g.status = InProgress
	g.firstClicked = &first
	g, _ = g.Reveal(first, nil)
	return g
}

func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	revealedSafe := 0
	for i := range g.params.Cells() {
		p := g.board.point(i)
		if g.Revealed(p) && g.Flagged(p) {
			t.Errorf("cell %s is both revealed and flagged", p)
		}
		if g.Revealed(p) && g.board.Value(p) != Mine {
			revealedSafe++
		}
	}
	if revealedSafe != g.RevealedCount() {
		t.Errorf("revealed count %d, want %d", g.RevealedCount(), revealedSafe)
	}
	if g.RevealedCount() > g.SquaresToReveal() {
		t.Errorf("revealed count %d exceeds %d", g.RevealedCount(), g.SquaresToReveal())
	}
	if g.RevealedCount() == g.SquaresToReveal() && g.Status() != Won {
		t.Errorf("all squares revealed but status is %s", g.Status())
	}
}
