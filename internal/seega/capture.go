package seega

import "github.com/rocketscienceinc/seega-backend/internal/entity"

// directions - N, S, E, W. Order has no effect on the captured set.
var directions = [4]entity.Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 0, Col: -1},
}

// findCaptures - collects every opponent run flanked by the piece at landing and another piece of side.
// The board is only read; all directions see the same post-move state.
func findCaptures(board *entity.Board, landing entity.Position, side entity.Side) []entity.Position {
	opponent := side.Opponent()

	var captured []entity.Position
	for _, dir := range directions {
		var run []entity.Position

		row, col := landing.Row+dir.Row, landing.Col+dir.Col
		for entity.InBounds(row, col) && board[row][col] == opponent {
			run = append(run, entity.Position{Row: row, Col: col})
			row, col = row+dir.Row, col+dir.Col
		}

		if len(run) > 0 && entity.InBounds(row, col) && board[row][col] == side {
			captured = append(captured, run...)
		}
	}

	return captured
}

// hasLegalMove - reports whether any piece of side can step onto an empty neighbour.
func hasLegalMove(board *entity.Board, side entity.Side) bool {
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if board[row][col] != side {
				continue
			}

			for _, dir := range directions {
				r, c := row+dir.Row, col+dir.Col
				if entity.InBounds(r, c) && board[r][c] == entity.EmptyCell {
					return true
				}
			}
		}
	}

	return false
}

func isOrthogonalStep(from, to entity.Position) bool {
	return abs(from.Row-to.Row)+abs(from.Col-to.Col) == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
