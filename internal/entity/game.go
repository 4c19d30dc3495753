package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

const (
	WithBotType  = "bot"
	SelfPlayType = "self"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is a persisted match around a board. Turn, Winner and Status are derived from
// Board by UpdateGameState after every move.
type Game struct {
	ID        string `json:"id"`
	Board     Board  `json:"board"`
	Winner    string `json:"winner"`
	Status    string `json:"status"`
	Turn      Mark   `json:"player_turn"`
	HumanMark Mark   `json:"human_mark,omitempty"`
	Type      string `json:"type"`
}

func NewGame(id, gameType string, humanMark Mark) *Game {
	return &Game{
		ID:        id,
		Board:     InitialState(),
		Turn:      PlayerX,
		Status:    StatusOngoing,
		HumanMark: humanMark,
		Type:      gameType,
	}
}

func (that *Game) UpdateGameState() {
	switch result := that.Board.Result(); result {
	// one player wins
	case XWins, OWins:
		winner, _ := that.Board.Winner()
		that.Winner = winner.String()
		that.Status = StatusFinished
		that.Turn = EmptyCell
	case Draw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// game continue
	default:
		that.Winner = ""
		that.Status = StatusOngoing
		that.Turn = that.Board.Turn()
	}
}

func (that *Game) MakeTurn(playerMark Mark, action Action) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	next, err := that.Board.Apply(action)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = next
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// BotMark is the mark the engine plays with. In self-play the engine plays both sides.
func (that *Game) BotMark() Mark {
	if !that.IsWithBot() {
		return that.Turn
	}

	return that.HumanMark.Opponent()
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark()
}
