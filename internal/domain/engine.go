package domain

import "fmt"

// directions maps each local cell, row-major, to the outer-board step the
// opponent is sent along. Corners go diagonally, edges orthogonally and the
// centre back to the same outer cell.
var directions = [localCells]Coord{
    {-1, -1}, {-1, 0}, {-1, 1},
    {0, -1}, {0, 0}, {0, 1},
    {1, -1}, {1, 0}, {1, 1},
}

// Direction returns the routing step for a local cell.
func Direction(local Coord) (Coord, bool) {
    if !local.Valid(LocalSize) {
        return Coord{}, false
    }
    return directions[local.index(LocalSize)], true
}

// Engine runs one game: it owns the outer board and the turn state and is
// the only way to change either. It is not safe for concurrent use; hosts
// serialise calls per game. The zero value is not usable: build engines with
// NewEngine, MustNewEngine or New.
type Engine struct {
    cfg   Config
    outer *OuterBoard
    turn  TurnState
    moves int
}

// NewEngine returns an engine with a fresh game for cfg.
func NewEngine(cfg Config) (*Engine, error) {
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return &Engine{cfg: cfg, outer: newOuterBoard(cfg), turn: NewTurnState()}, nil
}

// MustNewEngine is NewEngine for configs known to be valid.
func MustNewEngine(cfg Config) *Engine {
    e, err := NewEngine(cfg)
    if err != nil {
        panic(err)
    }
    return e
}

// New returns an engine for the standard game.
func New() *Engine { return MustNewEngine(DefaultConfig()) }

// NewGame resets both boards and the turn state in place.
func (e *Engine) NewGame() {
    e.outer.Reset()
    e.turn.Reset()
    e.moves = 0
}

// Play places the current side's mark at local inside the local board at
// outer. Validation happens before any mutation, so a returned error means
// nothing changed.
func (e *Engine) Play(outer, local Coord) error {
    if e.IsOuterFinished() {
        return ErrGameOver
    }
    if !e.isLegalTarget(outer) {
        return ErrNotLegalTarget
    }
    side := e.turn.Current()
    board := e.outer.local(outer)
    if !board.TryMove(local, side) {
        return ErrLocalRejected
    }

    e.moves++
    e.turn.MarkStarted()
    e.turn.SetLastLocalMove(local)

    if board.IsFinished() && board.Winner() != None {
        e.outer.ApplyLocalOutcome(outer, side)
    }
    // Routing depends on where the mark went, not on how the board ended.
    e.route(outer, local)
    e.turn.SwitchSide()
    return nil
}

// AttemptMove is Play reduced to success or failure.
func (e *Engine) AttemptMove(outer, local Coord) bool { return e.Play(outer, local) == nil }

// Select fixes the outer cell to play in while the current side has free
// choice. It does not place a mark or pass the turn.
func (e *Engine) Select(outer Coord) error {
    if e.IsOuterFinished() {
        return ErrGameOver
    }
    if !e.turn.FreeChoice() {
        return ErrNotFreeChoice
    }
    if !e.outer.CanHostLocalGame(outer) {
        return ErrNotLegalTarget
    }
    e.turn.SetActiveOuterCell(outer)
    return nil
}

// SelectOuterCell is Select reduced to success or failure.
func (e *Engine) SelectOuterCell(outer Coord) bool { return e.Select(outer) == nil }

func (e *Engine) route(outer, local Coord) {
    next := outer.Add(directions[local.index(LocalSize)])
    if !e.outer.CanHostLocalGame(next) {
        e.turn.ClearActiveOuterCell()
        return
    }
    e.turn.SetActiveOuterCell(next)
}

func (e *Engine) isLegalTarget(outer Coord) bool {
    if !e.outer.CanHostLocalGame(outer) {
        return false
    }
    if e.turn.FreeChoice() {
        return true
    }
    active, ok := e.turn.Active()
    return ok && active == outer
}

// LegalOuterTargets lists the outer cells the current side may play in.
// While a cell is forced this is that cell alone, or nothing if it can no
// longer host a game.
func (e *Engine) LegalOuterTargets() []Coord {
    if e.IsOuterFinished() {
        return make([]Coord, 0)
    }
    if e.turn.FreeChoice() {
        return e.outer.AvailableOuterCells()
    }
    active, ok := e.turn.Active()
    if ok && e.outer.CanHostLocalGame(active) {
        return []Coord{active}
    }
    return make([]Coord, 0)
}

// AvailableOuterCells lists every outer cell that can still host a game.
func (e *Engine) AvailableOuterCells() []Coord { return e.outer.AvailableOuterCells() }

// IsOuterFinished reports a won or drawn outer game.
func (e *Engine) IsOuterFinished() bool { return e.outer.IsFinished() || e.outer.IsDraw() }

func (e *Engine) OuterWinner() Side { return e.outer.Winner() }
func (e *Engine) IsOuterDraw() bool { return e.outer.IsDraw() }

// LocalBoardAt returns a copy of the local board at outer.
func (e *Engine) LocalBoardAt(outer Coord) (LocalBoard, bool) { return e.outer.LocalAt(outer) }

// OccupantAt returns the mark at local inside the board at outer.
func (e *Engine) OccupantAt(outer, local Coord) Side {
    b, ok := e.outer.LocalAt(outer)
    if !ok {
        return None
    }
    return b.Occupant(local)
}

// StoneAt returns the outer stone at outer.
func (e *Engine) StoneAt(outer Coord) Side { return e.outer.Stone(outer) }

func (e *Engine) CurrentSide() Side { return e.turn.Current() }
func (e *Engine) ActiveOuterCell() (Coord, bool) { return e.turn.Active() }
func (e *Engine) IsFreeChoice() bool { return e.turn.FreeChoice() }
func (e *Engine) LastLocalMove() (Coord, bool) { return e.turn.LastLocal() }
func (e *Engine) Started() bool { return e.turn.Started() }
func (e *Engine) Config() Config { return e.cfg }

// MoveCount is the number of accepted moves since the game began.
func (e *Engine) MoveCount() int { return e.moves }

// Status is a one-line summary of whose turn it is and where they play.
func (e *Engine) Status() string {
    where := "free choice"
    if active, ok := e.turn.Active(); ok {
        where = active.String()
    }
    return fmt.Sprintf("current: %s | active: %s", e.turn.Current(), where)
}

// Result describes the outcome of the outer game.
func (e *Engine) Result() string {
    switch {
    case e.outer.Winner() != None:
        return fmt.Sprintf("%s wins", e.outer.Winner())
    case e.outer.IsDraw():
        return "draw"
    default:
        return "in progress"
    }
}

// String draws the outer board followed by the status line.
func (e *Engine) String() string {
    return e.outer.String() + e.Status() + "\n"
}
