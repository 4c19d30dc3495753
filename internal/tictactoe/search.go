package tictactoe

import (
	"fmt"
	"math"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// searcher walks the full game tree. It keeps nothing between calls except the number
// of visited nodes, which is reported in the logs.
type searcher struct {
	nodes int
}

// Maximize returns the first action in scan order reaching the highest backed-up value
// for X. On a terminal board ok is false and value is the board's utility.
func Maximize(board entity.Board) (action entity.Action, value int, ok bool) {
	var s searcher
	return s.maximize(board)
}

// Minimize is the O counterpart of Maximize.
func Minimize(board entity.Board) (action entity.Action, value int, ok bool) {
	var s searcher
	return s.minimize(board)
}

func (that *searcher) maximize(board entity.Board) (entity.Action, int, bool) {
	that.nodes++

	if board.IsTerminal() {
		return entity.Action{}, board.Utility(), false
	}

	best := math.MinInt
	var bestAction entity.Action

	for _, action := range board.LegalActions() {
		_, value, _ := that.minimize(mustApply(board, action))
		if value > best {
			best = value
			bestAction = action
		}
	}

	return bestAction, best, true
}

func (that *searcher) minimize(board entity.Board) (entity.Action, int, bool) {
	that.nodes++

	if board.IsTerminal() {
		return entity.Action{}, board.Utility(), false
	}

	best := math.MaxInt
	var bestAction entity.Action

	for _, action := range board.LegalActions() {
		_, value, _ := that.maximize(mustApply(board, action))
		if value < best {
			best = value
			bestAction = action
		}
	}

	return bestAction, best, true
}

// searchParallel evaluates every root child in its own goroutine. Values are stored by
// scan position and reduced afterwards in order, so the chosen action matches the
// sequential search regardless of which goroutine finishes first.
func (that *searcher) searchParallel(board entity.Board, maximizing bool) (entity.Action, int) {
	that.nodes++

	actions := board.LegalActions()
	values := make([]int, len(actions))
	nodes := make([]int, len(actions))

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var sub searcher
			child := mustApply(board, action)
			if maximizing {
				_, values[i], _ = sub.minimize(child)
			} else {
				_, values[i], _ = sub.maximize(child)
			}
			nodes[i] = sub.nodes
		}()
	}
	wg.Wait()

	best := math.MinInt
	if !maximizing {
		best = math.MaxInt
	}

	var bestAction entity.Action
	for i, value := range values {
		that.nodes += nodes[i]

		if (maximizing && value > best) || (!maximizing && value < best) {
			best = value
			bestAction = actions[i]
		}
	}

	return bestAction, best
}

// mustApply is only called with actions produced by LegalActions on the same board.
func mustApply(board entity.Board, action entity.Action) entity.Board {
	next, err := board.Apply(action)
	if err != nil {
		panic(fmt.Errorf("legal action rejected: %w", err))
	}

	return next
}
