package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Apply returns a copy of the board with the mover's mark placed on action.
// The receiver is left untouched.
func (that Board) Apply(action Action) (Board, error) {
	if !action.inBounds() {
		return that, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, action)
	}

	if that[action.Row][action.Col] != EmptyCell {
		return that, fmt.Errorf("%w: %s", apperror.ErrInvalidAction, action)
	}

	next := that
	next[action.Row][action.Col] = that.Turn()

	return next, nil
}
