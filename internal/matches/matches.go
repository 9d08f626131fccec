// Package matches persists finished games and serves the recent-matches feed.
package matches

import (
	"context"
	"errors"
	"time"

	"github.com/playperu/tictactoe/internal/tictactoe"
)

// WinnerDraw is stored in place of a mark or a name when nobody won.
const WinnerDraw = "draw"

var ErrNotFinished = errors.New("game not finished")

// MatchRecord is the aggregate row written for every finished game.
type MatchRecord struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Winner    string    `json:"winner"`
}

// ScoreRecord is the detailed row written for every finished game. Winner
// holds the winner's display name or WinnerDraw.
type ScoreRecord struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	PlayerName      string    `json:"playerName"`
	OpponentName    string    `json:"opponentName"`
	Winner          string    `json:"winner"`
	Moves           int       `json:"moves"`
	DurationSeconds *int64    `json:"durationSeconds"`
}

// Store is the append-only storage backend. Recent* return rows newest first.
type Store interface {
	InsertGame(ctx context.Context, winner string) error
	InsertScore(ctx context.Context, rec ScoreRecord) error
	RecentGames(ctx context.Context, limit int) ([]MatchRecord, error)
	RecentScores(ctx context.Context, limit int) ([]ScoreRecord, error)
	CountGames(ctx context.Context) (int, error)
}

// Summarize derives both records for a finished session. The duration is
// whole seconds elapsed since the session started, floored and never negative,
// or nil without a start time.
func Summarize(s tictactoe.Session, now time.Time) (string, ScoreRecord, error) {
	if !s.Outcome.Terminal() {
		return "", ScoreRecord{}, ErrNotFinished
	}

	winner := s.Outcome.String()
	display := WinnerDraw
	if m := s.Outcome.Winner(); m != tictactoe.Empty {
		display = s.NameFor(m)
	}

	var duration *int64
	if !s.StartedAt.IsZero() {
		d := int64(max(now.Sub(s.StartedAt), 0) / time.Second)
		duration = &d
	}

	return winner, ScoreRecord{
		PlayerName:      s.PlayerX,
		OpponentName:    s.PlayerO,
		Winner:          display,
		Moves:           s.MoveCount,
		DurationSeconds: duration,
	}, nil
}
