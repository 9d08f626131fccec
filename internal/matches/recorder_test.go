package matches

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyStore wraps a Store and fails selected operations.
type faultyStore struct {
	Store
	failGames  bool
	failScores bool
	failRecent bool
	failCount  bool
}

var errBackend = errors.New("backend unavailable")

func (f faultyStore) InsertGame(ctx context.Context, winner string) error {
	if f.failGames {
		return errBackend
	}
	return f.Store.InsertGame(ctx, winner)
}

func (f faultyStore) InsertScore(ctx context.Context, rec ScoreRecord) error {
	if f.failScores {
		return errBackend
	}
	return f.Store.InsertScore(ctx, rec)
}

func (f faultyStore) RecentGames(ctx context.Context, limit int) ([]MatchRecord, error) {
	if f.failRecent {
		return nil, errBackend
	}
	return f.Store.RecentGames(ctx, limit)
}

func (f faultyStore) CountGames(ctx context.Context) (int, error) {
	if f.failCount {
		return 0, errBackend
	}
	return f.Store.CountGames(ctx)
}

func newTestRecorder(store Store) *Recorder {
	r := NewRecorder(store, discardLogger(), 10)
	r.now = func() time.Time { return t0.Add(12 * time.Second) }
	return r
}

func TestRecordWinScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	r := newTestRecorder(store)

	s := finished(t, 0, 3, 1, 4, 2)
	require.NoError(t, r.Record(ctx, s))

	games := r.FetchRecentMatches(ctx, 10)
	require.Len(t, games, 1)
	assert.Equal(t, "X", games[0].Winner)

	scores := r.FetchRecentScores(ctx, 10)
	require.Len(t, scores, 1)
	assert.Equal(t, "Alice", scores[0].Winner)
	assert.Equal(t, 5, scores[0].Moves)
	require.NotNil(t, scores[0].DurationSeconds)
	assert.Equal(t, int64(12), *scores[0].DurationSeconds)
}

func TestRecordDrawScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	r := newTestRecorder(store)

	s := finished(t, 0, 1, 2, 4, 5, 3, 6, 8, 7)
	require.NoError(t, r.Record(ctx, s))

	games := r.FetchRecentMatches(ctx, 10)
	require.Len(t, games, 1)
	assert.Equal(t, WinnerDraw, games[0].Winner)

	scores := r.FetchRecentScores(ctx, 10)
	require.Len(t, scores, 1)
	assert.Equal(t, WinnerDraw, scores[0].Winner)
	assert.Equal(t, 9, scores[0].Moves)
}

func TestRecordPartialFailureKeepsOtherWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("games fail", func(t *testing.T) {
		store := newTestStore(t)
		r := newTestRecorder(faultyStore{Store: store, failGames: true})

		err := r.Record(ctx, finished(t, 0, 3, 1, 4, 2))
		require.ErrorIs(t, err, errBackend)

		scores, err := store.RecentScores(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, scores, 1)
		n, _ := store.CountGames(ctx)
		assert.Zero(t, n)
	})

	t.Run("scores fail", func(t *testing.T) {
		store := newTestStore(t)
		r := newTestRecorder(faultyStore{Store: store, failScores: true})

		err := r.Record(ctx, finished(t, 0, 3, 1, 4, 2))
		require.ErrorIs(t, err, errBackend)

		n, _ := store.CountGames(ctx)
		assert.Equal(t, 1, n)
		scores, _ := store.RecentScores(ctx, 10)
		assert.Empty(t, scores)
	})
}

func TestRecordUnfinished(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(store)

	err := r.Record(context.Background(), finished(t, 0))
	assert.ErrorIs(t, err, ErrNotFinished)
	n, _ := store.CountGames(context.Background())
	assert.Zero(t, n)
}

func TestRecordCompletedGamePublishesFeed(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(store)

	var (
		mu    sync.Mutex
		feeds []Feed
	)
	r.OnRecorded = func(f Feed) {
		mu.Lock()
		feeds = append(feeds, f)
		mu.Unlock()
	}

	// A cancelled request context must not abort the recording.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.RecordCompletedGame(ctx, finished(t, 0, 3, 1, 4, 2))
	r.RecordCompletedGame(ctx, finished(t, 0, 1, 2, 4, 5, 3, 6, 8, 7))
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, feeds, 2)

	n, err := store.CountGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	last := feeds[0]
	if feeds[1].TotalGames > last.TotalGames {
		last = feeds[1]
	}
	assert.Equal(t, 2, last.TotalGames)
	assert.Len(t, last.Matches, 2)
}

func TestRecordCompletedGameSkipsUnfinished(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(store)

	called := false
	r.OnRecorded = func(Feed) { called = true }

	r.RecordCompletedGame(context.Background(), finished(t, 4))
	r.Wait()

	assert.False(t, called)
}

func TestFetchRecentMatchesNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	r := newTestRecorder(store)

	for range 15 {
		require.NoError(t, r.Record(ctx, finished(t, 0, 3, 1, 4, 2)))
	}

	assert.Len(t, r.FetchRecentMatches(ctx, 10), 10)
	assert.Len(t, r.FetchRecentMatches(ctx, 1), 1)
	assert.Empty(t, r.FetchRecentMatches(ctx, 0))
}

func TestFetchRecentMatchesFailureIsEmpty(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(faultyStore{Store: store, failRecent: true})

	recs := r.FetchRecentMatches(context.Background(), 10)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for range 12 {
		require.NoError(t, store.InsertGame(ctx, "O"))
	}

	t.Run("true count", func(t *testing.T) {
		f := newTestRecorder(store).Feed(ctx, 10)
		assert.Len(t, f.Matches, 10)
		assert.Equal(t, 10, f.GamesPlayed)
		assert.Equal(t, 12, f.TotalGames)
	})

	t.Run("count fails", func(t *testing.T) {
		f := newTestRecorder(faultyStore{Store: store, failCount: true}).Feed(ctx, 10)
		assert.Equal(t, 10, f.GamesPlayed)
		assert.Equal(t, 10, f.TotalGames)
	})

	t.Run("store down", func(t *testing.T) {
		f := newTestRecorder(faultyStore{Store: store, failRecent: true, failCount: true}).Feed(ctx, 10)
		assert.Empty(t, f.Matches)
		assert.Zero(t, f.TotalGames)
	})
}

func TestRecordCompletedGameAfterCloseIsDropped(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(store)

	called := false
	r.OnRecorded = func(Feed) { called = true }

	r.RecordCompletedGame(context.Background(), finished(t, 0, 3, 1, 4, 2))
	r.Close()

	r.RecordCompletedGame(context.Background(), finished(t, 0, 1, 2, 4, 5, 3, 6, 8, 7))
	r.Wait()

	n, err := store.CountGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the game finished before Close is stored")
	assert.True(t, called)
}

func TestCloseWhileRecording(t *testing.T) {
	store := newTestStore(t)
	r := newTestRecorder(store)
	win := finished(t, 0, 3, 1, 4, 2)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i == 10 {
				r.Close()
				return
			}
			r.RecordCompletedGame(context.Background(), win)
		}()
	}
	wg.Wait()
	r.Close()

	// Every accepted recording has landed and nothing is still running.
	n, err := store.CountGames(context.Background())
	require.NoError(t, err)
	scores, err := store.RecentScores(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, scores, n)
	assert.LessOrEqual(t, n, 19)
}
