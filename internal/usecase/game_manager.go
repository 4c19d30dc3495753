package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

var ErrInvalidMark = errors.New("mark must be X or O")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, id string, change func(game *entity.Game) error) (*entity.Game, error)
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (entity.Action, error)
}

type GameManager struct {
	logger     *slog.Logger
	gameRepo   gameRepo
	botService botService
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		botService: botService,
	}
}

// CreateGame starts a game against the engine. When the human picks O the engine
// opens right away.
func (that *GameManager) CreateGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error) {
	if humanMark != entity.PlayerX && humanMark != entity.PlayerO {
		return nil, ErrInvalidMark
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	game := entity.NewGame(gameID, entity.WithBotType, humanMark)

	if game.IsBotTurn() {
		if _, err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "gameID", game.ID, "humanMark", humanMark.String())

	return game, nil
}

// MakeTurn plays the human's action and lets the engine answer unless the game is over.
// The game is changed inside a repository update, so concurrent turns on one game are
// applied one after another.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, action entity.Action) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		if err := game.ConfirmOngoingState(); err != nil {
			return err
		}

		if !game.IsWithBot() {
			return apperror.ErrNotYourTurn
		}

		if err := game.MakeTurn(game.HumanMark, action); err != nil {
			return fmt.Errorf("failed make turn: %w", err)
		}

		if game.IsOngoing() {
			reply, err := that.botService.MakeTurn(game)
			if err != nil {
				return fmt.Errorf("bot failed to make turn: %w", err)
			}

			log.Debug("bot replied", "action", reply.String())
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// DeleteGame removes a game, finished or not.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// SelfPlay lets the engine play both sides to the end and stores the finished game.
func (that *GameManager) SelfPlay(ctx context.Context) (*entity.Game, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	game := entity.NewGame(gameID, entity.SelfPlayType, entity.EmptyCell)

	for game.IsOngoing() {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("self-play interrupted: %w", err)
		}

		if _, err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("self-play finished", "gameID", game.ID, "winner", game.Winner)

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
