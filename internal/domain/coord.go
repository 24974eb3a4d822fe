package domain

import "fmt"

// Coord is a row/column location on a square grid. Validity depends on the
// grid it is used with: LocalSize for local boards, the configured outer size
// for the outer board.
type Coord struct {
    Row int `json:"row"`
    Col int `json:"col"`
}

// C is shorthand for Coord{Row: r, Col: c}.
func C(r, c int) Coord { return Coord{Row: r, Col: c} }

// Valid reports whether c lies inside a bound x bound grid.
func (c Coord) Valid(bound int) bool {
    return c.Row >= 0 && c.Row < bound && c.Col >= 0 && c.Col < bound
}

// Offset returns a new coordinate shifted by (dr, dc).
func (c Coord) Offset(dr, dc int) Coord {
    return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// Add returns c shifted by the vector d.
func (c Coord) Add(d Coord) Coord { return c.Offset(d.Row, d.Col) }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// index is the row-major slot of c in a bound-wide grid. Callers check Valid first.
func (c Coord) index(bound int) int { return c.Row*bound + c.Col }

func coordAt(i, bound int) Coord { return Coord{Row: i / bound, Col: i % bound} }
