package domain

import "fmt"

// Side identifies a player. The zero value None marks an empty cell or the
// absence of a winner.
type Side uint8

const (
    None Side = iota
    First
    Second
)

// Opponent returns the other player. None has no opponent.
func (s Side) Opponent() Side {
    switch s {
    case First:
        return Second
    case Second:
        return First
    default:
        return None
    }
}

// Symbol is the mark drawn for the side on a board.
func (s Side) Symbol() string {
    switch s {
    case First:
        return "X"
    case Second:
        return "O"
    default:
        return ""
    }
}

func (s Side) String() string {
    switch s {
    case First:
        return "First"
    case Second:
        return "Second"
    default:
        return "None"
    }
}

// MarshalText encodes the side as "first", "second" or "".
func (s Side) MarshalText() ([]byte, error) {
    switch s {
    case First:
        return []byte("first"), nil
    case Second:
        return []byte("second"), nil
    case None:
        return []byte{}, nil
    }
    return nil, fmt.Errorf("invalid side %d", uint8(s))
}

// UnmarshalText is the inverse of MarshalText.
func (s *Side) UnmarshalText(b []byte) error {
    switch string(b) {
    case "first":
        *s = First
    case "second":
        *s = Second
    case "":
        *s = None
    default:
        return fmt.Errorf("invalid side %q", string(b))
    }
    return nil
}
