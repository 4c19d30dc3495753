package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrNotBotTurn = errors.New("it's not the bot's turn")

type BotService interface {
	MakeTurn(game *entity.Game) (entity.Action, error)
}

type decider interface {
	Decide(board entity.Board) (entity.Action, error)
}

type botService struct {
	engine decider
}

func NewBotService(engine decider) BotService {
	return &botService{
		engine: engine,
	}
}

// MakeTurn plays the engine's move for the bot's mark and returns it.
func (that *botService) MakeTurn(game *entity.Game) (entity.Action, error) {
	if !game.IsBotTurn() {
		return entity.Action{}, ErrNotBotTurn
	}

	action, err := that.engine.Decide(game.Board)
	if err != nil {
		return entity.Action{}, fmt.Errorf("engine failed to decide: %w", err)
	}

	if err = game.MakeTurn(game.BotMark(), action); err != nil {
		return entity.Action{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return action, nil
}
