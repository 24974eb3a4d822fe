package domain

// TurnState tracks whose turn it is and where they must play. A nil active
// cell means free choice; every mutator keeps the two in step.
type TurnState struct {
    current    Side
    active     *Coord
    freeChoice bool
    lastLocal  *Coord
    started    bool
}

// NewTurnState returns the state of a fresh game: First to move, free choice.
func NewTurnState() TurnState {
    return TurnState{current: First, freeChoice: true}
}

func (t *TurnState) Reset() { *t = NewTurnState() }

func (t *TurnState) Current() Side { return t.current }
func (t *TurnState) FreeChoice() bool { return t.freeChoice }
func (t *TurnState) Started() bool { return t.started }

// Active returns the forced outer cell, if any.
func (t *TurnState) Active() (Coord, bool) {
    if t.active == nil {
        return Coord{}, false
    }
    return *t.active, true
}

// LastLocal returns the local cell of the last accepted move, if any.
func (t *TurnState) LastLocal() (Coord, bool) {
    if t.lastLocal == nil {
        return Coord{}, false
    }
    return *t.lastLocal, true
}

// SetActiveOuterCell forces play into c and clears free choice.
func (t *TurnState) SetActiveOuterCell(c Coord) {
    t.active = &c
    t.freeChoice = false
}

// ClearActiveOuterCell drops the forced cell, leaving free choice.
func (t *TurnState) ClearActiveOuterCell() { t.SetFreeChoice(true) }

// SetFreeChoice(true) drops the forced cell. Free choice can only be turned
// off by forcing a cell, so SetFreeChoice(false) without one is a no-op.
func (t *TurnState) SetFreeChoice(free bool) {
    if free {
        t.active = nil
        t.freeChoice = true
        return
    }
    if t.active != nil {
        t.freeChoice = false
    }
}

func (t *TurnState) SetLastLocalMove(c Coord) { t.lastLocal = &c }
func (t *TurnState) MarkStarted() { t.started = true }

// SwitchSide hands the turn to the opponent.
func (t *TurnState) SwitchSide() { t.current = t.current.Opponent() }
