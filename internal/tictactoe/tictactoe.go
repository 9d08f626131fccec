// Package tictactoe defines the board, the session state and the move rules.
// It has no external dependencies.
package tictactoe

import (
	"errors"
	"fmt"
)

var (
	ErrBlankName      = errors.New("player names must not be blank")
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotStarted     = errors.New("game not started")
)

type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X":
		*m = X
	case "O":
		*m = O
	case "":
		*m = Empty
	default:
		return fmt.Errorf("unknown mark %q", b)
	}
	return nil
}

// Size is the number of cells on the board.
const Size = 9

// Board holds cells 0..8 in row-major order.
type Board [Size]Mark

// Full reports whether every cell is marked.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

type Outcome uint8

const (
	InProgress Outcome = iota
	WinX
	WinO
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WinX:
		return "X"
	case WinO:
		return "O"
	case Draw:
		return "draw"
	default:
		return ""
	}
}

// Terminal reports whether no further moves are accepted.
func (o Outcome) Terminal() bool { return o != InProgress }

// Winner returns the winning mark, or Empty for a draw or a game in progress.
func (o Outcome) Winner() Mark {
	switch o {
	case WinX:
		return X
	case WinO:
		return O
	default:
		return Empty
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X":
		*o = WinX
	case "O":
		*o = WinO
	case "draw":
		*o = Draw
	case "":
		*o = InProgress
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

func outcomeFor(m Mark) Outcome {
	if m == X {
		return WinX
	}
	return WinO
}

// lines lists every winning triple: rows, then columns, then diagonals.
var lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// EvaluateOutcome reports the state of b. A board reached by alternating
// legal moves completes lines for at most one mark, so the scan order never
// changes the result.
func EvaluateOutcome(b Board) Outcome {
	for _, l := range lines {
		m := b[l[0]]
		if m != Empty && m == b[l[1]] && m == b[l[2]] {
			return outcomeFor(m)
		}
	}
	if b.Full() {
		return Draw
	}
	return InProgress
}
