package mines

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	t.Parallel()

	tests := []GameParams{
		{Rows: 9, Columns: 9, MineCount: 10},
		{Rows: 16, Columns: 16, MineCount: 40},
		{Rows: 16, Columns: 30, MineCount: 99},
		{Rows: 5, Columns: 5, MineCount: 20},
		{Rows: 4, Columns: 4, MineCount: 15},
		{Rows: 1, Columns: 8, MineCount: 0},
	}

	for _, params := range tests {
		t.Run(params.Seed(), func(t *testing.T) {
			t.Parallel()
			r := newRand()
			for row := range params.Rows {
				for col := range params.Columns {
					safe := Point{row, col}
					b, err := Generate(params, safe, r)
					require.NoError(t, err)
					require.True(t, b.Generated())

					if b.Value(safe) == Mine {
						t.Fatalf("safe cell %s holds a mine\n%s", safe, b)
					}
					if got := b.Count(Mine); got != params.MineCount {
						t.Fatalf("expected %d mines, got %d\n%s", params.MineCount, got, b)
					}
					assert.Len(t, b.Mines(), params.MineCount)
					checkCounts(t, b)
				}
			}
		})
	}
}

func checkCounts(t *testing.T, b *Board) {
	t.Helper()
	for row := range b.Rows() {
		for col := range b.Columns() {
			p := Point{row, col}
			v := b.Value(p)
			if v == Mine {
				continue
			}
			var want CellValue
			for _, n := range b.Neighbors(p) {
				if b.Value(n) == Mine {
					want++
				}
			}
			if v != want {
				t.Fatalf("cell %s holds %d, expected %d\n%s", p, v, want, b)
			}
		}
	}
}

func TestGenerateScripted(t *testing.T) {
	params := GameParams{Rows: 3, Columns: 3, MineCount: 2}

	// the draw at the safe cell and the repeated draw are both rejected
	r := script(1, 1, 0, 0, 0, 0, 2, 2)
	b, err := Generate(params, Point{1, 1}, r)
	require.NoError(t, err)

	assert.Equal(t, []Point{{0, 0}, {2, 2}}, b.Mines())
	assert.Equal(t, CellValue(2), b.Value(Point{1, 1}))
	assert.Equal(t, CellValue(1), b.Value(Point{0, 1}))
	assert.Equal(t, CellValue(0), b.Value(Point{0, 2}))
}

func TestGenerateDenseKeepsSafeCell(t *testing.T) {
	params := GameParams{Rows: 3, Columns: 3, MineCount: 8}
	b, err := Generate(params, Point{2, 0}, newRand())
	require.NoError(t, err)

	assert.Equal(t, 8, b.Count(Mine))
	assert.Equal(t, CellValue(3), b.Value(Point{2, 0}))
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(GameParams{Rows: 5, Columns: 5, MineCount: 25}, Point{}, newRand())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Generate(GameParams{Rows: 5, Columns: 5, MineCount: 3}, Point{5, 0}, newRand())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPlaceholder(t *testing.T) {
	b, err := NewPlaceholder(GameParams{Rows: 2, Columns: 3, MineCount: 1})
	require.NoError(t, err)
	assert.False(t, b.Generated())
	assert.Equal(t, 6, b.Count(0))
	assert.Empty(t, b.Mines())
}

func TestNeighbors(t *testing.T) {
	b := boardFrom(t,
		"...",
		"...",
		"...",
	)

	tests := []struct {
		p    Point
		want []Point
	}{
		{Point{0, 0}, []Point{{0, 1}, {1, 0}, {1, 1}}},
		{Point{1, 1}, []Point{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}},
		{Point{2, 1}, []Point{{1, 0}, {1, 1}, {1, 2}, {2, 0}, {2, 2}}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprint(test.p), func(t *testing.T) {
			assert.Equal(t, test.want, b.Neighbors(test.p))
		})
	}
}

func TestBoardString(t *testing.T) {
	b := boardFrom(t,
		"*..",
		"...",
	)
	assert.Equal(t, "* 1 . \n1 1 . \n", b.String())
	assert.Equal(t, CellValue(0), b.Value(Point{-1, 0}))
}
