package service

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errEngineDown = errors.New("engine down")

type mockDecider struct {
	mock.Mock
}

func (that *mockDecider) Decide(board entity.Board) (entity.Action, error) {
	args := that.Called(board)
	return args.Get(0).(entity.Action), args.Error(1)
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Bot replies with the engine's move", func(t *testing.T) {
		// Given: a game where the human (X) has played the centre
		engine := tictactoe.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
		bot := NewBotService(engine)

		game := entity.NewGame("g1", entity.WithBotType, entity.PlayerX)
		require.NoError(t, game.MakeTurn(entity.PlayerX, entity.Action{Row: 1, Col: 1}))

		// When: the bot moves
		action, err := bot.MakeTurn(game)

		// Then: an O is placed on the chosen cell and it is X's turn again
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, game.Board[action.Row][action.Col])
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Returns ErrNotBotTurn when the human is to move", func(t *testing.T) {
		// Given: a fresh game where the human owns X
		engine := &mockDecider{}
		bot := NewBotService(engine)
		game := entity.NewGame("g2", entity.WithBotType, entity.PlayerX)

		// When: the bot is asked to move
		_, err := bot.MakeTurn(game)

		// Then: it refuses without consulting the engine
		require.ErrorIs(t, err, ErrNotBotTurn)
		engine.AssertNotCalled(t, "Decide", mock.Anything)
	})

	t.Run("Propagates engine errors", func(t *testing.T) {
		// Given: an engine that fails
		engine := &mockDecider{}
		engine.On("Decide", entity.InitialState()).Return(entity.Action{}, errEngineDown).Once()
		bot := NewBotService(engine)
		game := entity.NewGame("g3", entity.WithBotType, entity.PlayerO)

		// When: the bot moves
		_, err := bot.MakeTurn(game)

		// Then: the error is wrapped and the board is unchanged
		require.ErrorIs(t, err, errEngineDown)
		assert.True(t, game.Board.IsEmpty())
		engine.AssertExpectations(t)
	})

	t.Run("Rejects an occupied cell from the engine", func(t *testing.T) {
		// Given: an engine answering with a taken cell
		engine := &mockDecider{}
		game := entity.NewGame("g4", entity.WithBotType, entity.PlayerX)
		require.NoError(t, game.MakeTurn(entity.PlayerX, entity.Action{Row: 0, Col: 0}))
		engine.On("Decide", game.Board).Return(entity.Action{Row: 0, Col: 0}, nil).Once()
		bot := NewBotService(engine)

		// When: the bot moves
		_, err := bot.MakeTurn(game)

		// Then: the transition error surfaces
		require.ErrorIs(t, err, apperror.ErrInvalidAction)
	})
}
