package domain

import "errors"

// Errors returned by rules operations. Every failing operation leaves the
// game untouched.
var (
    ErrGameOver       = errors.New("game over")
    ErrNotLegalTarget = errors.New("outer cell not playable this turn")
    ErrLocalRejected  = errors.New("local cell occupied or board finished")
    ErrNotFreeChoice  = errors.New("outer cell is forced")
    ErrInvalidConfig  = errors.New("invalid rules config")
)
