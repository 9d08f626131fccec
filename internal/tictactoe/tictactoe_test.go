package tictactoe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func board(s string) Board {
	var b Board
	for i, c := range s {
		switch c {
		case 'X':
			b[i] = X
		case 'O':
			b[i] = O
		}
	}
	return b
}

func TestEvaluateOutcome(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  Outcome
	}{
		{"empty", ".........", InProgress},
		{"top row", "XXX......", WinX},
		{"middle row O", "XX.OOOX.X", WinO},
		{"bottom row", "OO....XXX", WinX},
		{"left column", "O..O..O..", WinO},
		{"middle column", ".X..X..X.", WinX},
		{"right column", "..O..O..O", WinO},
		{"diagonal", "X...X...X", WinX},
		{"anti-diagonal", "..O.O.O..", WinO},
		{"draw", "XOOOXXXXO", Draw},
		{"full with winner", "XXXOOXOXO", WinX},
		{"in progress", "XO.......", InProgress},
		{"mixed line", "XOX......", InProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateOutcome(board(tt.board)))
		})
	}
}

// Every board reachable through alternating legal moves completes lines for
// at most one mark.
func TestEvaluateOutcomeSingleWinner(t *testing.T) {
	var visit func(s Session)
	terminals := 0
	visit = func(s Session) {
		if s.Outcome.Terminal() {
			terminals++
			winners := map[Mark]bool{}
			for _, l := range lines {
				m := s.Board[l[0]]
				if m != Empty && m == s.Board[l[1]] && m == s.Board[l[2]] {
					winners[m] = true
				}
			}
			require.LessOrEqual(t, len(winners), 1, "board %v", s.Board)
			if s.Outcome == Draw {
				require.Empty(t, winners)
			} else {
				require.True(t, winners[s.Outcome.Winner()])
			}
			return
		}
		for i := 0; i < Size; i++ {
			next := s
			if next.ApplyMove(i).Accepted {
				visit(next)
			}
		}
	}

	s, err := StartSession("a", "b", t0)
	require.NoError(t, err)
	visit(s)
	assert.Equal(t, 255168, terminals)
}

func TestMarkOpponent(t *testing.T) {
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}

func TestBoardJSON(t *testing.T) {
	data, err := json.Marshal(board("XO......X"))
	require.NoError(t, err)
	assert.JSONEq(t, `["X","O","","","","","","","X"]`, string(data))

	var b Board
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Equal(t, board("XO......X"), b)

	var m Mark
	assert.Error(t, m.UnmarshalText([]byte("Z")))
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{InProgress, WinX, WinO, Draw} {
		text, err := o.MarshalText()
		require.NoError(t, err)
		var got Outcome
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, o, got)
	}
	assert.Equal(t, X, WinX.Winner())
	assert.Equal(t, O, WinO.Winner())
	assert.Equal(t, Empty, Draw.Winner())
	assert.False(t, InProgress.Terminal())
}
