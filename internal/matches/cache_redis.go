package matches

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	generationKey  = "tictactoe:games:gen"
	recentGamesKey = "tictactoe:games:recent:"
	countGamesKey  = "tictactoe:games:count:"
)

// CachedStore caches recent-games pages and the game count in Redis under the
// current games generation. Every games insert bumps the generation, so a page
// computed before the insert lands under a key no reader will ask for again.
// Redis errors fall through to the wrapped store.
type CachedStore struct {
	Store
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedStore(store Store, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{Store: store, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedStore) InsertGame(ctx context.Context, winner string) error {
	if err := c.Store.InsertGame(ctx, winner); err != nil {
		return err
	}
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("feed cache invalidation failed", "error", err)
	}
	return nil
}

// generation returns the current games generation. ok is false when Redis
// cannot be read, in which case nothing may be cached.
func (c *CachedStore) generation(ctx context.Context) (gen string, ok bool) {
	n, err := c.rdb.Get(ctx, generationKey).Int64()
	switch {
	case err == nil:
		return strconv.FormatInt(n, 10), true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		c.logger.Warn("feed cache read failed", "error", err)
		return "", false
	}
}

func (c *CachedStore) RecentGames(ctx context.Context, limit int) ([]MatchRecord, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.Store.RecentGames(ctx, limit)
	}
	key := recentGamesKey + gen
	field := strconv.Itoa(limit)

	data, err := c.rdb.HGet(ctx, key, field).Bytes()
	switch {
	case err == nil:
		var recs []MatchRecord
		if err := json.Unmarshal(data, &recs); err == nil {
			return recs, nil
		}
		c.logger.Warn("discarding corrupt feed cache entry", "limit", limit)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("feed cache read failed", "error", err)
	}

	recs, err := c.Store.RecentGames(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recs); err == nil {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Warn("feed cache write failed", "error", err)
		}
	}
	return recs, nil
}

func (c *CachedStore) CountGames(ctx context.Context) (int, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.Store.CountGames(ctx)
	}
	key := countGamesKey + gen

	n, err := c.rdb.Get(ctx, key).Int()
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("count cache read failed", "error", err)
	}

	n, err = c.Store.CountGames(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.rdb.Set(ctx, key, n, c.ttl).Err(); err != nil {
		c.logger.Warn("count cache write failed", "error", err)
	}
	return n, nil
}
