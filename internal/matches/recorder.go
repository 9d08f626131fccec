package matches

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/tictactoe/internal/tictactoe"
)

// Feed is the recent-matches view handed to the display layer.
type Feed struct {
	Matches []MatchRecord `json:"matches"`

	// GamesPlayed is the length of the fetched page, capped at the limit.
	GamesPlayed int `json:"gamesPlayed"`
	// TotalGames is the stored row count, or GamesPlayed when counting fails.
	TotalGames int `json:"totalGames"`
}

// Recorder writes finished games to a Store. Storage failures are logged and
// never reach the game.
type Recorder struct {
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	feedLimit int

	// OnRecorded, if set, receives the refreshed feed after each recording.
	OnRecorded func(Feed)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRecorder(store Store, logger *slog.Logger, feedLimit int) *Recorder {
	return &Recorder{
		store:     store,
		logger:    logger,
		now:       time.Now,
		feedLimit: feedLimit,
	}
}

// Record issues the games and scores inserts independently. A failed insert
// does not undo or prevent the other; both errors are joined.
func (r *Recorder) Record(ctx context.Context, s tictactoe.Session) error {
	winner, score, err := Summarize(s, r.now())
	if err != nil {
		return err
	}

	var (
		g        errgroup.Group
		gameErr  error
		scoreErr error
	)
	g.Go(func() error {
		if gameErr = r.store.InsertGame(ctx, winner); gameErr != nil {
			r.logger.Error("recording failed", "collection", "games", "error", gameErr)
			gameErr = fmt.Errorf("inserting game: %w", gameErr)
		}
		return nil
	})
	g.Go(func() error {
		if scoreErr = r.store.InsertScore(ctx, score); scoreErr != nil {
			r.logger.Error("recording failed", "collection", "scores", "error", scoreErr)
			scoreErr = fmt.Errorf("inserting score: %w", scoreErr)
		}
		return nil
	})
	g.Wait()

	if err := errors.Join(gameErr, scoreErr); err != nil {
		return err
	}

	attrs := []any{"winner", score.Winner, "moves", score.Moves}
	if score.DurationSeconds != nil {
		attrs = append(attrs, "duration_s", *score.DurationSeconds)
	}
	r.logger.Info("match recorded", attrs...)
	return nil
}

// RecordCompletedGame records s in the background and then publishes the
// refreshed feed through OnRecorded. The work is detached from ctx
// cancellation and is not correlated with whatever the session does next.
func (r *Recorder) RecordCompletedGame(ctx context.Context, s tictactoe.Session) {
	ctx = context.WithoutCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("recorder closed, dropping finished game", "moves", s.MoveCount)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		if err := r.Record(ctx, s); errors.Is(err, ErrNotFinished) {
			r.logger.Warn("skipping unfinished game", "moves", s.MoveCount)
			return
		}

		if r.OnRecorded != nil {
			r.OnRecorded(r.Feed(ctx, r.feedLimit))
		}
	}()
}

// Wait blocks until every background recording started so far has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Close stops accepting recordings and waits for the ones in flight. Games
// finished afterwards, e.g. over a WebSocket that outlived the HTTP server,
// are logged and dropped so nothing writes to a closed database.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
}

// FetchRecentMatches returns at most limit records, newest first. A storage
// failure yields an empty slice.
func (r *Recorder) FetchRecentMatches(ctx context.Context, limit int) []MatchRecord {
	if limit <= 0 {
		return []MatchRecord{}
	}
	recs, err := r.store.RecentGames(ctx, limit)
	if err != nil {
		r.logger.Error("fetching recent matches failed", "error", err)
		return []MatchRecord{}
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// FetchRecentScores returns at most limit score rows, newest first. A
// storage failure yields an empty slice.
func (r *Recorder) FetchRecentScores(ctx context.Context, limit int) []ScoreRecord {
	if limit <= 0 {
		return []ScoreRecord{}
	}
	recs, err := r.store.RecentScores(ctx, limit)
	if err != nil {
		r.logger.Error("fetching recent scores failed", "error", err)
		return []ScoreRecord{}
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (r *Recorder) Feed(ctx context.Context, limit int) Feed {
	recs := r.FetchRecentMatches(ctx, limit)
	feed := Feed{
		Matches:     recs,
		GamesPlayed: len(recs),
		TotalGames:  len(recs),
	}

	n, err := r.store.CountGames(ctx)
	if err != nil {
		r.logger.Error("counting games failed", "error", err)
		return feed
	}
	feed.TotalGames = n
	return feed
}

// FeedLimit is the page size used for feeds published after a recording.
func (r *Recorder) FeedLimit() int { return r.feedLimit }
