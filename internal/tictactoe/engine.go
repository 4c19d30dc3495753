package tictactoe

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

type Option func(*Engine)

// WithChooser sets the randomness source used for the opening move.
func WithChooser(chooser Chooser) Option {
	return func(that *Engine) {
		that.chooser = chooser
	}
}

// WithRandomOpening toggles the random first move on an empty board.
func WithRandomOpening(enabled bool) Option {
	return func(that *Engine) {
		that.randomOpening = enabled
	}
}

func WithParallel(enabled bool) Option {
	return func(that *Engine) {
		that.parallel = enabled
	}
}

// Engine picks optimal moves with exhaustive minimax.
type Engine struct {
	logger *slog.Logger

	mu            sync.Mutex
	chooser       Chooser
	randomOpening bool
	parallel      bool
}

func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		logger:        logger.With("component", "engine"),
		chooser:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint: gosec // move variety only
		randomOpening: true,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Decide returns the move for the player to act. X's first move on an empty board is
// drawn at random when the random opening is enabled; every other position is searched.
func (that *Engine) Decide(board entity.Board) (entity.Action, error) {
	if board.IsTerminal() {
		return entity.Action{}, apperror.ErrTerminalBoard
	}

	if that.randomOpening && board.IsEmpty() && board.Turn() == entity.PlayerX {
		actions := board.LegalActions()
		action := actions[that.choose(len(actions))]

		that.logger.Debug("random opening", "action", action.String())

		return action, nil
	}

	action, _, err := that.Evaluate(board)
	if err != nil {
		return entity.Action{}, fmt.Errorf("failed to evaluate board: %w", err)
	}

	return action, nil
}

// Evaluate always searches and also returns the backed-up value of the chosen action.
func (that *Engine) Evaluate(board entity.Board) (entity.Action, int, error) {
	log := that.logger.With("method", "Evaluate")

	if board.IsTerminal() {
		return entity.Action{}, 0, apperror.ErrTerminalBoard
	}

	var (
		s          searcher
		action     entity.Action
		value      int
		maximizing = board.Turn() == entity.PlayerX
	)

	switch {
	case that.parallel:
		action, value = s.searchParallel(board, maximizing)
	case maximizing:
		action, value, _ = s.maximize(board)
	default:
		action, value, _ = s.minimize(board)
	}

	log.Debug("search complete", "action", action.String(), "value", value, "nodes", s.nodes)

	return action, value, nil
}

func (that *Engine) choose(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.chooser.Intn(n)
}
