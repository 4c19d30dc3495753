package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	gameKeyPrefix = "game:"

	maxUpdateAttempts = 5
)

var ErrConcurrentUpdate = errors.New("game kept changing during update")

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	// Update loads the game, hands it to change and stores the result. The write is
	// dropped and retried when someone else wrote the game in between.
	Update(ctx context.Context, id string, change func(game *entity.Game) error) (*entity.Game, error)
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// gameRecord is what is stored under a game key. Result is kept next to the game so
// finished games can be told apart without decoding the board.
type gameRecord struct {
	entity.Game
	Result string `json:"result"`
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores games that expire ttl after their last write. A zero ttl keeps
// them forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	record, err := encodeGame(game)
	if err != nil {
		return err
	}

	if err = that.client.Set(ctx, gameKey(game.ID), record, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) Update(ctx context.Context, id string, change func(game *entity.Game) error) (*entity.Game, error) {
	key := gameKey(id)

	var updated *entity.Game
	apply := func(tx *redis.Tx) error {
		game, err := decodeGame(tx.Get(ctx, key))
		if err != nil {
			return err
		}

		if err = change(game); err != nil {
			return err
		}

		record, err := encodeGame(game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, record, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = game

		return nil
	}

	for range maxUpdateAttempts {
		err := that.client.Watch(ctx, apply, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, ErrConcurrentUpdate
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := decodeGame(that.client.Get(ctx, gameKey(id)))
	if err != nil {
		return &entity.Game{}, err
	}

	return game, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func encodeGame(game *entity.Game) ([]byte, error) {
	record, err := json.Marshal(gameRecord{Game: *game, Result: game.Board.Result().String()})
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	return record, nil
}

func decodeGame(cmd *redis.StringCmd) (*entity.Game, error) {
	response, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var record gameRecord
	if err = json.Unmarshal(response, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &record.Game, nil
}
