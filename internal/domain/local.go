package domain

import "strings"

// LocalSize is the width of a local board.
const LocalSize = 3

const localCells = LocalSize * LocalSize

// LocalBoard is one 3x3 tactical board stored row-major. The zero value is an
// empty board ready for play.
type LocalBoard struct {
    cells    [localCells]Side
    moves    int
    winner   Side
    finished bool
}

// TryMove places side's mark at cell. It returns false without touching the
// board if the board is finished or the cell is off the board or taken.
func (b *LocalBoard) TryMove(cell Coord, side Side) bool {
    if side != First && side != Second {
        return false
    }
    if !b.IsLegal(cell) {
        return false
    }

    b.cells[cell.index(LocalSize)] = side
    b.moves++

    if b.winsThrough(cell, side) {
        b.winner = side
        b.finished = true
        return true
    }
    if b.moves == localCells {
        b.finished = true
    }
    return true
}

// IsLegal reports whether a mark may be placed at cell.
func (b *LocalBoard) IsLegal(cell Coord) bool {
    if b.finished || !cell.Valid(LocalSize) {
        return false
    }
    return b.cells[cell.index(LocalSize)] == None
}

// Occupant returns the mark at cell, or None for empty and off-board cells.
func (b *LocalBoard) Occupant(cell Coord) Side {
    if !cell.Valid(LocalSize) {
        return None
    }
    return b.cells[cell.index(LocalSize)]
}

func (b *LocalBoard) Winner() Side { return b.winner }
func (b *LocalBoard) IsFinished() bool { return b.finished }
func (b *LocalBoard) IsDraw() bool { return b.finished && b.winner == None }

// Moves is the number of occupied cells.
func (b *LocalBoard) Moves() int { return b.moves }

// Reset empties the board.
func (b *LocalBoard) Reset() { *b = LocalBoard{} }

// winsThrough checks only the lines passing through the cell just played.
func (b *LocalBoard) winsThrough(cell Coord, side Side) bool {
    r, c := cell.Row, cell.Col
    at := func(r, c int) bool { return b.cells[r*LocalSize+c] == side }

    if at(r, 0) && at(r, 1) && at(r, 2) {
        return true
    }
    if at(0, c) && at(1, c) && at(2, c) {
        return true
    }
    if r == c && at(0, 0) && at(1, 1) && at(2, 2) {
        return true
    }
    if r+c == LocalSize-1 && at(0, 2) && at(1, 1) && at(2, 0) {
        return true
    }
    return false
}

// String draws the board one row per line, "-" for empty cells.
func (b *LocalBoard) String() string {
    var sb strings.Builder
    for r := 0; r < LocalSize; r++ {
        for c := 0; c < LocalSize; c++ {
            if c > 0 {
                sb.WriteByte(' ')
            }
            if s := b.cells[r*LocalSize+c]; s != None {
                sb.WriteString(s.Symbol())
            } else {
                sb.WriteByte('-')
            }
        }
        sb.WriteByte('\n')
    }
    return sb.String()
}
