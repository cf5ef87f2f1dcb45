package mines

// FlagLedger tracks flagged cells and the flag counter shown to the player.
// Toggle returns a new ledger and leaves the receiver untouched.
//
// The counter is informational: it goes negative when the player places more
// flags than there are mines.
type FlagLedger struct {
	params  GameParams
	flagged []bool
	count   int
}

func NewFlagLedger(params GameParams) FlagLedger {
	return FlagLedger{
		params:  params,
		flagged: make([]bool, params.Cells()),
	}
}

func (l FlagLedger) inBounds(p Point) bool {
	return 0 <= p.Row && p.Row < l.params.Rows &&
		0 <= p.Col && p.Col < l.params.Columns
}

func (l FlagLedger) Toggle(p Point) FlagLedger {
	if !l.inBounds(p) {
		return l
	}
	i := p.Row*l.params.Columns + p.Col
	next := FlagLedger{
		params:  l.params,
		flagged: make([]bool, len(l.flagged)),
		count:   l.count,
	}
	copy(next.flagged, l.flagged)
	next.flagged[i] = !next.flagged[i]
	if next.flagged[i] {
		next.count++
	} else {
		next.count--
	}
	return next
}

func (l FlagLedger) Flagged(p Point) bool {
	return l.inBounds(p) && l.flagged[p.Row*l.params.Columns+p.Col]
}

// Count is the number of flags currently placed.
func (l FlagLedger) Count() int { return l.count }

func (l FlagLedger) Remaining() int {
	return l.params.MineCount - l.count
}

// Flags lists flagged cells in row-major order.
func (l FlagLedger) Flags() []Point {
	flags := make([]Point, 0, l.count)
	for i, f := range l.flagged {
		if f {
			flags = append(flags, Point{Row: i / l.params.Columns, Col: i % l.params.Columns})
		}
	}
	return flags
}
