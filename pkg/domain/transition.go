package domain

import (
	"fmt"
	"strings"
)

// Move is the head movement applied after writing.
type Move string

const (
	MoveLeft  Move = "L"
	MoveRight Move = "R"
	MoveStay  Move = "S"
)

// ParseMove accepts the single-letter notation used by the definition formats.
func ParseMove(s string) (Move, error) {
	switch m := Move(strings.TrimSpace(s)); m {
	case MoveLeft, MoveRight, MoveStay:
		return m, nil
	default:
		return "", &ValidationError{Key: "move", Reason: "must be one of L, R, S", Value: s}
	}
}

// Delta returns the head offset for the move.
func (m Move) Delta() int {
	switch m {
	case MoveLeft:
		return -1
	case MoveRight:
		return 1
	default:
		return 0
	}
}

// Transition is one row of the transition table:
// in State reading Read, write Write, switch to Next and move the head.
type Transition struct {
	State string `json:"state" yaml:"state" mapstructure:"state"`
	Read  string `json:"read" yaml:"read" mapstructure:"read"`
	Next  string `json:"next" yaml:"next" mapstructure:"next"`
	Write string `json:"write" yaml:"write" mapstructure:"write"`
	Move  Move   `json:"move" yaml:"move" mapstructure:"move"`
}

func (t Transition) String() string {
	return fmt.Sprintf("(%s, %s) -> (%s, %s, %s)", t.State, t.Read, t.Next, t.Write, t.Move)
}
