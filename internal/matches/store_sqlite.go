package matches

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed width so created_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// parseStamp reads created_at back. libSQL recognises the column as a
// datetime and returns it as time.Time or as RFC 3339 text with trailing
// fractional zeros trimmed, so timeLayout itself cannot parse it.
func parseStamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected created_at type %T", v)
	}
}

// SQLiteStore implements Store on the games and scores tables. It only ever
// inserts and reads.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

func (s *SQLiteStore) InsertGame(ctx context.Context, winner string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (winner, created_at) VALUES (?, ?)`,
		winner, s.stamp(),
	)
	return err
}

func (s *SQLiteStore) InsertScore(ctx context.Context, rec ScoreRecord) error {
	var duration sql.NullInt64
	if rec.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: *rec.DurationSeconds, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (player_name, opponent_name, winner, moves, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.PlayerName, rec.OpponentName, rec.Winner, rec.Moves, duration, s.stamp())
	return err
}

func (s *SQLiteStore) RecentGames(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, winner, created_at
		FROM games
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []MatchRecord{}
	for rows.Next() {
		var (
			rec     MatchRecord
			created any
		)
		if err := rows.Scan(&rec.ID, &rec.Winner, &created); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseStamp(created); err != nil {
			return nil, fmt.Errorf("parsing created_at of game %d: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) RecentScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_name, opponent_name, winner, moves, duration_seconds, created_at
		FROM scores
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []ScoreRecord{}
	for rows.Next() {
		var (
			rec      ScoreRecord
			duration sql.NullInt64
			created  any
		)
		if err := rows.Scan(&rec.ID, &rec.PlayerName, &rec.OpponentName, &rec.Winner,
			&rec.Moves, &duration, &created); err != nil {
			return nil, err
		}
		if duration.Valid {
			rec.DurationSeconds = &duration.Int64
		}
		if rec.CreatedAt, err = parseStamp(created); err != nil {
			return nil, fmt.Errorf("parsing created_at of score %d: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) CountGames(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}
