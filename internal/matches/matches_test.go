package matches

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/tictactoe/internal/database"
	"github.com/playperu/tictactoe/internal/migrations"
	"github.com/playperu/tictactoe/internal/tictactoe"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// newTestStore opens a migrated in-memory SQLite store.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err, "opening database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(ctx, db, discardLogger()), "running migrations")
	return NewSQLiteStore(db)
}

// finished plays moves from a fresh Alice-vs-Bob session started at t0.
func finished(t *testing.T, moves ...int) tictactoe.Session {
	t.Helper()
	s, err := tictactoe.StartSession("Alice", "Bob", t0)
	require.NoError(t, err)
	for _, i := range moves {
		require.True(t, s.ApplyMove(i).Accepted, "move %d", i)
	}
	return s
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		moves       []int
		elapsed     time.Duration
		wantWinner  string
		wantDisplay string
		wantMoves   int
		wantSeconds int64
	}{
		{
			name:        "x wins",
			moves:       []int{0, 3, 1, 4, 2},
			elapsed:     42 * time.Second,
			wantWinner:  "X",
			wantDisplay: "Alice",
			wantMoves:   5,
			wantSeconds: 42,
		},
		{
			name:        "o wins",
			moves:       []int{0, 3, 1, 4, 8, 5},
			elapsed:     65*time.Second + 900*time.Millisecond,
			wantWinner:  "O",
			wantDisplay: "Bob",
			wantMoves:   6,
			wantSeconds: 65,
		},
		{
			name:        "draw",
			moves:       []int{0, 1, 2, 4, 5, 3, 6, 8, 7},
			elapsed:     999 * time.Millisecond,
			wantWinner:  "draw",
			wantDisplay: "draw",
			wantMoves:   9,
			wantSeconds: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := finished(t, tt.moves...)

			winner, score, err := Summarize(s, t0.Add(tt.elapsed))
			require.NoError(t, err)

			assert.Equal(t, tt.wantWinner, winner)
			assert.Equal(t, "Alice", score.PlayerName)
			assert.Equal(t, "Bob", score.OpponentName)
			assert.Equal(t, tt.wantDisplay, score.Winner)
			assert.Equal(t, tt.wantMoves, score.Moves)
			require.NotNil(t, score.DurationSeconds)
			assert.Equal(t, tt.wantSeconds, *score.DurationSeconds)
		})
	}
}

func TestSummarizeWithoutStartTime(t *testing.T) {
	s := finished(t, 0, 3, 1, 4, 2)
	s.StartedAt = time.Time{}

	_, score, err := Summarize(s, t0)
	require.NoError(t, err)
	assert.Nil(t, score.DurationSeconds)
}

func TestSummarizeUnfinished(t *testing.T) {
	s := finished(t, 0, 3)

	_, _, err := Summarize(s, t0)
	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestSummarizeClockSkewClampsToZero(t *testing.T) {
	s := finished(t, 0, 3, 1, 4, 2)

	_, score, err := Summarize(s, t0.Add(-1500*time.Millisecond))
	require.NoError(t, err)
	require.NotNil(t, score.DurationSeconds)
	assert.Equal(t, int64(0), *score.DurationSeconds)
}
