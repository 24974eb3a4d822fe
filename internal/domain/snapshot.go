package domain

// LocalSnapshot is a copy of one local board.
type LocalSnapshot struct {
    Cells    [localCells]Side `json:"cells"`
    Winner   Side             `json:"winner"`
    Finished bool             `json:"finished"`
}

// Snapshot is a deep copy of everything a presentation layer can observe.
// Grids are row-major.
type Snapshot struct {
    OuterSize  int             `json:"outer_size"`
    WinLength  int             `json:"win_length"`
    Current    Side            `json:"current"`
    Active     *Coord          `json:"active,omitempty"`
    FreeChoice bool            `json:"free_choice"`
    LastLocal  *Coord          `json:"last_local,omitempty"`
    Started    bool            `json:"started"`
    Moves      int             `json:"moves"`
    Finished   bool            `json:"finished"`
    Winner     Side            `json:"winner"`
    Draw       bool            `json:"draw"`
    Stones     []Side          `json:"stones"`
    Locals     []LocalSnapshot `json:"locals"`
    Targets    []Coord         `json:"targets"`
    Status     string          `json:"status"`
    Result     string          `json:"result"`
}

// Snapshot copies the current game state.
func (e *Engine) Snapshot() Snapshot {
    s := Snapshot{
        OuterSize:  e.cfg.OuterSize,
        WinLength:  e.cfg.WinLength,
        Current:    e.turn.Current(),
        FreeChoice: e.turn.FreeChoice(),
        Started:    e.turn.Started(),
        Moves:      e.moves,
        Finished:   e.IsOuterFinished(),
        Winner:     e.outer.Winner(),
        Draw:       e.outer.IsDraw(),
        Stones:     append([]Side(nil), e.outer.stones...),
        Locals:     make([]LocalSnapshot, len(e.outer.locals)),
        Targets:    e.LegalOuterTargets(),
        Status:     e.Status(),
        Result:     e.Result(),
    }
    if c, ok := e.turn.Active(); ok {
        s.Active = &c
    }
    if c, ok := e.turn.LastLocal(); ok {
        s.LastLocal = &c
    }
    for i, b := range e.outer.locals {
        s.Locals[i] = LocalSnapshot{Cells: b.cells, Winner: b.winner, Finished: b.finished}
    }
    return s
}

// Local returns the snapshot of the local board at outer.
func (s Snapshot) Local(outer Coord) (LocalSnapshot, bool) {
    if !outer.Valid(s.OuterSize) {
        return LocalSnapshot{}, false
    }
    return s.Locals[outer.index(s.OuterSize)], true
}

// Stone returns the outer stone at outer.
func (s Snapshot) Stone(outer Coord) Side {
    if !outer.Valid(s.OuterSize) {
        return None
    }
    return s.Stones[outer.index(s.OuterSize)]
}

// IsTarget reports whether outer is a legal target in this snapshot.
func (s Snapshot) IsTarget(outer Coord) bool {
    for _, t := range s.Targets {
        if t == outer {
            return true
        }
    }
    return false
}
