package domain

import "strings"

// axes are the four line directions a run can lie along.
var axes = [4]Coord{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// OuterBoard is the strategic board: one LocalBoard per cell plus the stones
// won from them. Both grids are flat and indexed row-major.
type OuterBoard struct {
    size      int
    winLength int
    locals    []LocalBoard
    stones    []Side
    placed    int
    winner    Side
    finished  bool
}

func newOuterBoard(cfg Config) *OuterBoard {
    n := cfg.OuterSize * cfg.OuterSize
    return &OuterBoard{
        size:      cfg.OuterSize,
        winLength: cfg.WinLength,
        locals:    make([]LocalBoard, n),
        stones:    make([]Side, n),
    }
}

// Size is the width of the board.
func (o *OuterBoard) Size() int { return o.size }

// CanHostLocalGame reports whether the local game at c is still open: no stone
// on the cell and the local board not finished.
func (o *OuterBoard) CanHostLocalGame(c Coord) bool {
    if !c.Valid(o.size) {
        return false
    }
    i := c.index(o.size)
    return o.stones[i] == None && !o.locals[i].finished
}

// AvailableOuterCells lists every cell that can host a local game, row-major.
// It is empty once the board is finished.
func (o *OuterBoard) AvailableOuterCells() []Coord {
    out := make([]Coord, 0)
    if o.finished {
        return out
    }
    for i := range o.stones {
        if c := coordAt(i, o.size); o.CanHostLocalGame(c) {
            out = append(out, c)
        }
    }
    return out
}

func (o *OuterBoard) hasHostableCell() bool {
    for i := range o.stones {
        if o.CanHostLocalGame(coordAt(i, o.size)) {
            return true
        }
    }
    return false
}

// ApplyLocalOutcome records side's win of the local board at c as a stone and
// checks for a winning run through it. It returns false if the board is
// finished or the cell already holds a stone.
func (o *OuterBoard) ApplyLocalOutcome(c Coord, side Side) bool {
    if o.finished || !c.Valid(o.size) || side == None {
        return false
    }
    i := c.index(o.size)
    if o.stones[i] != None {
        return false
    }
    o.stones[i] = side
    o.placed++

    if o.longestRun(c, side) >= o.winLength {
        o.winner = side
        o.finished = true
    }
    return true
}

// longestRun counts, per axis, the contiguous stones of side through c and
// returns the largest count. Runs longer than winLength still count.
func (o *OuterBoard) longestRun(c Coord, side Side) int {
    best := 0
    for _, d := range axes {
        n := 1
        for p := c.Add(d); p.Valid(o.size) && o.stones[p.index(o.size)] == side; p = p.Add(d) {
            n++
        }
        for p := c.Offset(-d.Row, -d.Col); p.Valid(o.size) && o.stones[p.index(o.size)] == side; p = p.Offset(-d.Row, -d.Col) {
            n++
        }
        if n > best {
            best = n
        }
    }
    return best
}

// Stone returns the stone at c, or None.
func (o *OuterBoard) Stone(c Coord) Side {
    if !c.Valid(o.size) {
        return None
    }
    return o.stones[c.index(o.size)]
}

// LocalAt returns a copy of the local board at c.
func (o *OuterBoard) LocalAt(c Coord) (LocalBoard, bool) {
    if !c.Valid(o.size) {
        return LocalBoard{}, false
    }
    return o.locals[c.index(o.size)], true
}

func (o *OuterBoard) local(c Coord) *LocalBoard { return &o.locals[c.index(o.size)] }

func (o *OuterBoard) Winner() Side { return o.winner }
func (o *OuterBoard) IsFinished() bool { return o.finished }

// Stones is the number of stones placed.
func (o *OuterBoard) Stones() int { return o.placed }

// IsDraw reports a game that cannot be won any more: finished without a
// winner, or no winner and no cell left that can host a local game.
func (o *OuterBoard) IsDraw() bool {
    if o.winner != None {
        return false
    }
    return o.finished || !o.hasHostableCell()
}

// Reset clears the stones and every local board in place.
func (o *OuterBoard) Reset() {
    for i := range o.locals {
        o.locals[i].Reset()
        o.stones[i] = None
    }
    o.placed = 0
    o.winner = None
    o.finished = false
}

// String draws the stone grid, "+" for cells without a stone.
func (o *OuterBoard) String() string {
    var sb strings.Builder
    for r := 0; r < o.size; r++ {
        for c := 0; c < o.size; c++ {
            if c > 0 {
                sb.WriteByte(' ')
            }
            if s := o.stones[r*o.size+c]; s != None {
                sb.WriteString(s.Symbol())
            } else {
                sb.WriteByte('+')
            }
        }
        sb.WriteByte('\n')
    }
    return sb.String()
}
