package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Mark is the content of a single cell. Its numeric value is the cell's contribution
// to a line sum: X counts +1, O counts -1.
type Mark int8

const (
	EmptyCell Mark = 0
	PlayerX   Mark = 1
	PlayerO   Mark = -1
)

const Size = 3

var ErrUnknownMark = errors.New("unknown mark")

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	return -that
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	case "":
		*that = EmptyCell
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, text)
	}

	return nil
}

// Action identifies a cell by row and column.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Action) inBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// Board is a value type. Assigning or passing it copies every cell.
type Board [Size][Size]Mark

func InitialState() Board {
	return Board{}
}

// Turn returns the player to move. X moves whenever both players have placed the same
// number of marks.
func (that Board) Turn() Mark {
	if that.balance() > 0 {
		return PlayerO
	}

	return PlayerX
}

// LegalActions lists the empty cells in row-major order.
func (that Board) LegalActions() []Action {
	actions := make([]Action, 0, Size*Size)
	for i, row := range that {
		for j, cell := range row {
			if cell == EmptyCell {
				actions = append(actions, Action{Row: i, Col: j})
			}
		}
	}

	return actions
}

// IsBalanced reports whether the mark counts can come from alternating play:
// X has placed as many marks as O or exactly one more.
func (that Board) IsBalanced() bool {
	balance := that.balance()
	return balance == 0 || balance == 1
}

// balance is the number of X marks minus the number of O marks.
func (that Board) balance() int {
	balance := 0
	for _, row := range that {
		for _, cell := range row {
			balance += int(cell)
		}
	}

	return balance
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

func (that Board) IsTerminal() bool {
	if _, ok := that.Winner(); ok {
		return true
	}

	return that.IsFull()
}

// Utility is +1 when X has won, -1 when O has won and 0 otherwise. It only carries
// meaning for terminal boards.
func (that Board) Utility() int {
	winner, ok := that.Winner()
	if !ok {
		return 0
	}

	return int(winner)
}

func (that Board) Result() Result {
	if winner, ok := that.Winner(); ok {
		if winner == PlayerX {
			return XWins
		}
		return OWins
	}

	if that.IsFull() {
		return Draw
	}

	return InProgress
}

func (that Board) String() string {
	var sb strings.Builder
	for i, row := range that {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("|")
			}
			if cell == EmptyCell {
				sb.WriteString(" ")
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

// Result classifies a board. It is always recomputed, never stored.
type Result int

const (
	InProgress Result = iota
	XWins
	OWins
	Draw
)

func (that Result) String() string {
	switch that {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}
