package mines

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Expand returns every cell that opening the zero-valued origin uncovers
// automatically: its neighbours, and recursively the neighbours of any of
// them that are zero themselves. origin is never part of the result.
//
// The result only depends on the board, not on what has been revealed so far.
func Expand(b *Board, origin Point) mapset.Set[Point] {
	visited := mapset.New[Point]()
	queue := b.Neighbors(origin)
	for _, p := range queue {
		visited.Put(p)
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if b.Value(p) != 0 {
			continue
		}
		for _, n := range b.Neighbors(p) {
			if n == origin || visited.Has(n) {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}

	return visited
}

// SortPoints flattens a point set into row-major order.
func SortPoints(s mapset.Set[Point]) []Point {
	points := make([]Point, 0, s.Size())
	s.Each(func(p Point) {
		points = append(points, p)
	})
	slices.SortFunc(points, comparePoints)
	return points
}

func comparePoints(a, b Point) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}
