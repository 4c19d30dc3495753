package apperror

import "errors"

var (
	ErrInvalidAction = errors.New("cell is already occupied")
	ErrOutOfBounds   = errors.New("cell coordinates out of bounds")
	ErrTerminalBoard = errors.New("board is already terminal")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrGameNotFound = errors.New("game not found")
)
