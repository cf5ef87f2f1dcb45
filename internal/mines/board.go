package mines

import (
	"fmt"
	"strings"
)

// CellValue is either [Mine] or the number of mines among the 8 neighbours.
type CellValue int8

const Mine CellValue = -1

type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Rand is the subset of *math/rand/v2.Rand used for mine placement.
type Rand interface {
	IntN(n int) int
}

// Board is a rows x columns grid of cell values. A board is never mutated
// once it has been handed out.
type Board struct {
	params    GameParams
	cells     []CellValue
	generated bool
}

// NewPlaceholder returns the all-zero grid a game shows before its first
// reveal.
func NewPlaceholder(params GameParams) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Board{
		params: params,
		cells:  make([]CellValue, params.Cells()),
	}, nil
}

// Generate places params.MineCount mines so that safe is never one of them,
// then fills in the adjacency counts.
//
// Whichever of mines and safe cells is rarer gets scattered over a grid
// filled with the other one, so the expected number of draws follows
// min(mines, safe cells) rather than the board size.
func Generate(params GameParams, safe Point, rnd Rand) (*Board, error) {
	b, err := NewPlaceholder(params)
	if err != nil {
		return nil, err
	}
	if !b.InBounds(safe) {
		return nil, ConfigError{params, fmt.Sprintf("safe cell %s out of bounds", safe)}
	}

	rows, columns, mineCount := params.Unpack()

	majority, minority := CellValue(0), Mine
	toPlace := mineCount
	if 2*mineCount >= params.Cells() {
		majority, minority = Mine, 0
		toPlace = params.Cells() - mineCount
	}

	for i := range b.cells {
		b.cells[i] = majority
	}

	placed := 0
	safeIdx := b.index(safe)
	if majority == Mine {
		b.cells[safeIdx] = minority
		placed = 1
	}

	for placed < toPlace {
		row, col := rnd.IntN(rows), rnd.IntN(columns)
		i := row*columns + col
		if i != safeIdx && b.cells[i] == majority {
			b.cells[i] = minority
			placed++
		}
	}

	for i, v := range b.cells {
		if v != Mine {
			b.cells[i] = b.countMines(b.point(i))
		}
	}
	b.generated = true

	return b, nil
}

func (b *Board) Params() GameParams { return b.params }
func (b *Board) Rows() int          { return b.params.Rows }
func (b *Board) Columns() int       { return b.params.Columns }
func (b *Board) MineCount() int     { return b.params.MineCount }

// Generated reports whether mines have been placed.
func (b *Board) Generated() bool { return b.generated }

func (b *Board) InBounds(p Point) bool {
	return 0 <= p.Row && p.Row < b.params.Rows &&
		0 <= p.Col && p.Col < b.params.Columns
}

func (b *Board) index(p Point) int {
	return p.Row*b.params.Columns + p.Col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.params.Columns, Col: i % b.params.Columns}
}

// Value returns the value at p, or 0 when p is outside the board.
func (b *Board) Value(p Point) CellValue {
	if !b.InBounds(p) {
		return 0
	}
	return b.cells[b.index(p)]
}

// Neighbors returns the in-bounds cells at Chebyshev distance 1 from p, in
// row-major order.
func (b *Board) Neighbors(p Point) []Point {
	ns := make([]Point, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Point{Row: p.Row + dr, Col: p.Col + dc}
			if b.InBounds(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

func (b *Board) countMines(p Point) CellValue {
	var n CellValue
	for _, q := range b.Neighbors(p) {
		if b.cells[b.index(q)] == Mine {
			n++
		}
	}
	return n
}

// Mines returns every mine position in row-major order.
func (b *Board) Mines() []Point {
	mines := make([]Point, 0, b.params.MineCount)
	for i, v := range b.cells {
		if v == Mine {
			mines = append(mines, b.point(i))
		}
	}
	return mines
}

// Count returns how many cells hold v.
func (b *Board) Count(v CellValue) (count int) {
	for _, c := range b.cells {
		if c == v {
			count++
		}
	}
	return
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := range b.params.Rows {
		for col := range b.params.Columns {
			v := b.cells[row*b.params.Columns+col]
			switch {
			case v == Mine:
				sb.WriteString("* ")
			case v == 0:
				sb.WriteString(". ")
			default:
				fmt.Fprintf(&sb, "%d ", v)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
