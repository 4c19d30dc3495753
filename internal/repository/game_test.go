package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameTTL = time.Hour

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	t.Run("CreateOrUpdate_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a new game against the bot
		game := entity.NewGame("123", entity.WithBotType, entity.PlayerX)

		// When: CreateOrUpdate is called
		err := gameRepo.CreateOrUpdate(ctx, game)

		// Then: no error should be returned, and game is stored
		require.NoError(t, err)
	})

	t.Run("CreateOrUpdate_SetsExpiration", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a stored game
		game := entity.NewGame("123", entity.SelfPlayType, entity.EmptyCell)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: reading the key's time to live
		ttl, err := st.Storage.TTL(ctx, "game:123").Result()

		// Then: the key expires within the configured ttl
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, gameTTL)
	})

	t.Run("CreateOrUpdate_StoresResult", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a game X has won
		game := entity.NewGame("123", entity.SelfPlayType, entity.EmptyCell)
		for _, action := range []entity.Action{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 0, Col: 2}} {
			require.NoError(t, game.MakeTurn(game.Turn, action))
		}
		require.True(t, game.IsFinished())

		// When: the game is stored
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// Then: the raw record carries the result
		raw, err := st.Storage.Get(ctx, "game:123").Bytes()
		require.NoError(t, err)

		var record struct {
			Result string `json:"result"`
		}
		require.NoError(t, json.Unmarshal(raw, &record))
		assert.Equal(t, "x_wins", record.Result)
	})
}

func TestGameRepository_Update(t *testing.T) {
	t.Run("Update_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a stored game
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123", entity.WithBotType, entity.PlayerX)))

		// When: Update plays the centre
		updated, err := gameRepo.Update(ctx, "123", func(game *entity.Game) error {
			return game.MakeTurn(entity.PlayerX, entity.Action{Row: 1, Col: 1})
		})

		// Then: the change is returned and stored
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, updated.Board[1][1])

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Update_RetriesAfterConcurrentWrite", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a stored game that another writer changes during the first attempt
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123", entity.WithBotType, entity.PlayerX)))

		attempts := 0
		change := func(game *entity.Game) error {
			attempts++
			if attempts == 1 {
				other := entity.NewGame("123", entity.WithBotType, entity.PlayerX)
				require.NoError(t, other.MakeTurn(entity.PlayerX, entity.Action{Row: 1, Col: 1}))
				require.NoError(t, gameRepo.CreateOrUpdate(ctx, other))
			}

			return game.MakeTurn(game.Turn, entity.Action{Row: 0, Col: 0})
		}

		// When: Update runs
		updated, err := gameRepo.Update(ctx, "123", change)

		// Then: the second attempt builds on the other writer's move
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, entity.PlayerX, updated.Board[1][1])
		assert.Equal(t, entity.PlayerO, updated.Board[0][0])

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated.Board, stored.Board)
	})

	t.Run("Update_ChangeErrorKeepsStoredGame", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a stored game
		game := entity.NewGame("123", entity.WithBotType, entity.PlayerX)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the change fails after touching the board
		_, err := gameRepo.Update(ctx, "123", func(loaded *entity.Game) error {
			loaded.Board[2][2] = entity.PlayerX
			return apperror.ErrNotYourTurn
		})

		// Then: the error is returned and nothing is written
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.True(t, stored.Board.IsEmpty())
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// When: Update is called with non-existent ID
		updated, err := gameRepo.Update(ctx, "9999999", func(*entity.Game) error { return nil })

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, updated)
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a game with a few moves played
		game := entity.NewGame("123", entity.WithBotType, entity.PlayerO)
		require.NoError(t, game.MakeTurn(entity.PlayerX, entity.Action{Row: 1, Col: 1}))
		require.NoError(t, game.MakeTurn(entity.PlayerO, entity.Action{Row: 0, Col: 0}))

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Empty(t, retrievedGame.ID)
		assert.Empty(t, retrievedGame.Status)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// Given: a stored finished game
		game := &entity.Game{
			ID:     "123",
			Status: entity.StatusFinished,
		}

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: DeleteByID is called with existing ID
		err = gameRepo.DeleteByID(ctx, game.ID)

		// Then: no error should be returned and the game is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, gameTTL)

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
