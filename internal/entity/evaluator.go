package entity

const lineCount = 2*Size + 2

// Winner reports the player holding three in a line. All eight line sums are collected
// in one pass over the grid; X is checked before O.
func (that Board) Winner() (Mark, bool) {
	var lines [lineCount]int

	for i, row := range that {
		for j, cell := range row {
			v := int(cell)
			lines[i] += v
			lines[Size+j] += v
			if i == j {
				lines[2*Size] += v
			}
			if i+j == Size-1 {
				lines[2*Size+1] += v
			}
		}
	}

	for _, candidate := range [...]Mark{PlayerX, PlayerO} {
		for _, sum := range lines {
			if sum == Size*int(candidate) {
				return candidate, true
			}
		}
	}

	return EmptyCell, false
}
