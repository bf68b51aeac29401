package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-cli/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
)

const gameKeyPrefix = "game:"

type cachedGame struct {
	logger *slog.Logger
	next   GameRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedGameRepository keeps game snapshots in Redis in front of next.
// Redis is never authoritative: cache errors are logged and the call falls through to next.
// Writes made without the cache are healed by the first rejected SubmitMove or by the TTL.
func NewCachedGameRepository(logger *slog.Logger, next GameRepository, client *redis.Client, ttl time.Duration) GameRepository {
	return &cachedGame{
		logger: logger.With("component", "game_cache"),
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (that *cachedGame) Create(ctx context.Context) (*entity.Game, error) {
	game, err := that.next.Create(ctx)
	if err != nil {
		return nil, err
	}

	that.store(ctx, game)

	return game, nil
}

func (that *cachedGame) GetByID(ctx context.Context, id int64) (*entity.Game, error) {
	log := that.logger.With("method", "GetByID", "game_id", id)

	game, err := that.load(ctx, id)
	switch {
	case err == nil:
		log.Debug("cache hit")
		return game, nil
	case errors.Is(err, redis.Nil):
		log.Debug("cache miss")
	default:
		log.Warn("can't read cached game", "error", err)
	}

	game, err = that.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	that.store(ctx, game)

	return game, nil
}

func (that *cachedGame) List(ctx context.Context) ([]*entity.Game, error) {
	return that.next.List(ctx)
}

func (that *cachedGame) SubmitMove(ctx context.Context, gameID int64, position int, player entity.Player) (*entity.Game, error) {
	game, err := that.next.SubmitMove(ctx, gameID, position, player)
	if err != nil {
		// a rejection may come from a stale snapshot
		if !errors.Is(err, apperror.ErrNotFound) {
			that.evict(ctx, gameID)
		}

		return nil, err
	}

	that.store(ctx, game)

	return game, nil
}

func (that *cachedGame) Moves(ctx context.Context, gameID int64) ([]*entity.Move, error) {
	return that.next.Moves(ctx, gameID)
}

func (that *cachedGame) DeleteByID(ctx context.Context, id int64) error {
	err := that.next.DeleteByID(ctx, id)

	that.evict(ctx, id)

	return err
}

func (that *cachedGame) load(ctx context.Context, id int64) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

func (that *cachedGame) store(ctx context.Context, game *entity.Game) {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		that.logger.Warn("failed to marshal game", "game_id", game.ID, "error", err)
		that.evict(ctx, game.ID)

		return
	}

	if err = that.client.Set(ctx, gameKey(game.ID), gameJSON, that.ttl).Err(); err != nil {
		that.logger.Warn("failed to cache game", "game_id", game.ID, "error", err)

		// an older snapshot must not outlive the write
		that.evict(ctx, game.ID)
	}
}

func (that *cachedGame) evict(ctx context.Context, id int64) {
	if err := that.client.Del(ctx, gameKey(id)).Err(); err != nil {
		that.logger.Warn("failed to evict game", "game_id", id, "error", err)
	}
}

func gameKey(id int64) string {
	return gameKeyPrefix + strconv.FormatInt(id, 10)
}
