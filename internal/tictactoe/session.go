package tictactoe

import (
	"strings"
	"time"
)

// Session is one round of play between two named players.
type Session struct {
	Board     Board     `json:"board"`
	Current   Mark      `json:"currentMark"`
	PlayerX   string    `json:"playerXName"`
	PlayerO   string    `json:"playerOName"`
	MoveCount int       `json:"moveCount"`
	StartedAt time.Time `json:"startedAt,omitzero"`
	Outcome   Outcome   `json:"outcome"`
}

// MoveResult describes what ApplyMove did.
type MoveResult struct {
	Accepted bool
	Index    int
	Mark     Mark
	Outcome  Outcome
}

// Finished reports whether this move ended the session. It is true for
// exactly one move per round.
func (r MoveResult) Finished() bool { return r.Accepted && r.Outcome.Terminal() }

// StartSession validates both names and returns a fresh session with X to move.
func StartSession(playerX, playerO string, now time.Time) (Session, error) {
	playerX = strings.TrimSpace(playerX)
	playerO = strings.TrimSpace(playerO)
	if playerX == "" || playerO == "" {
		return Session{}, ErrBlankName
	}
	return Session{
		Current:   X,
		PlayerX:   playerX,
		PlayerO:   playerO,
		StartedAt: now,
	}, nil
}

// ApplyMove places the current mark on index. Moves after the end of the
// round, out-of-range indexes and occupied cells are ignored.
func (s *Session) ApplyMove(index int) MoveResult {
	if s.Outcome.Terminal() || index < 0 || index >= Size || s.Board[index] != Empty {
		return MoveResult{Index: index, Outcome: s.Outcome}
	}

	m := s.Current
	s.Board[index] = m
	s.MoveCount++
	s.Outcome = EvaluateOutcome(s.Board)
	if !s.Outcome.Terminal() {
		s.Current = m.Opponent()
	}

	return MoveResult{Accepted: true, Index: index, Mark: m, Outcome: s.Outcome}
}

// Rematch clears the board for another round between the same players.
func (s *Session) Rematch(now time.Time) {
	*s = Session{
		Current:   X,
		PlayerX:   s.PlayerX,
		PlayerO:   s.PlayerO,
		StartedAt: now,
	}
}

// NameFor returns the display name of the player holding m.
func (s Session) NameFor(m Mark) string {
	switch m {
	case X:
		return s.PlayerX
	case O:
		return s.PlayerO
	default:
		return ""
	}
}
