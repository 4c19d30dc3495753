package render

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	colorX = "#E88388"
	colorO = "#66C2CD"

	separator = "---+---+---"
)

// Board draws the grid for a terminal. With the Ascii profile the output carries no
// escape sequences.
func Board(board entity.Board, profile termenv.Profile) string {
	var sb strings.Builder

	for i, row := range board {
		if i > 0 {
			sb.WriteString("\n" + separator + "\n")
		}

		for j, cell := range row {
			if j > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + mark(cell, profile) + " ")
		}
	}

	return sb.String()
}

func mark(cell entity.Mark, profile termenv.Profile) string {
	switch cell {
	case entity.PlayerX:
		return profile.String(cell.String()).Foreground(profile.Color(colorX)).Bold().String()
	case entity.PlayerO:
		return profile.String(cell.String()).Foreground(profile.Color(colorO)).Bold().String()
	default:
		return " "
	}
}
