package domain

import "fmt"

// Config fixes the outer board dimensions and the run length that wins it.
// Local boards are always LocalSize x LocalSize.
type Config struct {
    OuterSize int `json:"outer_size"`
    WinLength int `json:"win_length"`
}

// DefaultConfig is the standard 15x15 board with five in a row.
func DefaultConfig() Config {
    return Config{OuterSize: 15, WinLength: 5}
}

// Validate reports whether the config describes a playable game.
func (c Config) Validate() error {
    if c.OuterSize < 1 {
        return fmt.Errorf("%w: outer size %d", ErrInvalidConfig, c.OuterSize)
    }
    if c.WinLength < 1 || c.WinLength > c.OuterSize {
        return fmt.Errorf("%w: win length %d on a %dx%d board", ErrInvalidConfig, c.WinLength, c.OuterSize, c.OuterSize)
    }
    return nil
}
