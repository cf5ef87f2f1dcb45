package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellStatus is what the player gets to see of a cell.
type CellStatus int8

const (
	Unknown          CellStatus = -2
	Flagged          CellStatus = -1
	CorrectlyFlagged CellStatus = 64 // post-game-over
	ExplodedMine     CellStatus = 65
	FalselyFlagged   CellStatus = 66
	UnflaggedMine    CellStatus = 67
	// 0-8 for an open cell with the given number of mined neighbours
)

func (s CellStatus) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged || s == CorrectlyFlagged:
		return "F"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

type Grid []CellStatus

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid renders the snapshot row-major the way the board is drawn:
// hidden values stay [Unknown] until the game ends. A lost game shows every
// mine and crosses out wrong flags, a won game shows every mine flagged.
func (g *Game) PlayerGrid() Grid {
	grid := make(Grid, g.params.Cells())
	for i := range grid {
		p := g.board.point(i)
		v := g.board.cells[i]
		flagged := g.flags.Flagged(p)

		switch {
		case g.status == Lost && v == Mine:
			switch {
			case g.exploded != nil && *g.exploded == p:
				grid[i] = ExplodedMine
			case flagged:
				grid[i] = CorrectlyFlagged
			default:
				grid[i] = UnflaggedMine
			}
		case g.status == Lost && flagged && !g.revealed[i]:
			grid[i] = FalselyFlagged
		case g.status == Won && v == Mine:
			grid[i] = Flagged
		case g.revealed[i]:
			grid[i] = CellStatus(v)
		case flagged:
			grid[i] = Flagged
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
