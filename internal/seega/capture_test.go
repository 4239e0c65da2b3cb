package seega

import (
	"testing"

	"github.com/rocketscienceinc/seega-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Run("X O O X captures the whole run", func(t *testing.T) {
		// Given: X O O . on the top row and an X ready to close it
		engine := movementEngine(entity.Board{
			{x, o, o, e, e},
			{e, e, e, x, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, o},
		}, x)

		// When: X steps into (0, 3)
		outcome, err := engine.Move(1, 3, 0, 3, x)
		require.NoError(t, err)

		// Then: both O pieces are removed
		assert.ElementsMatch(t, []entity.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}}, outcome.Captured)

		board := engine.Board()
		assert.Equal(t, [entity.BoardSize]entity.Side{x, e, e, x, e}, board[0])
		assert.Equal(t, 1, board.Count(o))
		assert.Equal(t, o, engine.Turn())
	})

	t.Run("X O X captures a single piece", func(t *testing.T) {
		engine := movementEngine(entity.Board{
			{x, o, e, e, e},
			{e, e, x, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, o},
		}, x)

		outcome, err := engine.Move(1, 2, 0, 2, x)
		require.NoError(t, err)

		assert.Equal(t, []entity.Position{{Row: 0, Col: 1}}, outcome.Captured)
		assert.Equal(t, e, engine.Board()[0][1])
	})

	t.Run("Unflanked X O . captures nothing", func(t *testing.T) {
		// Given: O at (0, 1) with an empty cell behind it
		engine := movementEngine(entity.Board{
			{e, o, e, e, e},
			{x, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
		}, x)

		// When: X lands next to it
		outcome, err := engine.Move(1, 0, 0, 0, x)
		require.NoError(t, err)

		// Then: no capture
		assert.Empty(t, outcome.Captured)
		assert.Equal(t, o, engine.Board()[0][1])
	})

	t.Run("Run ending at the board edge is not captured", func(t *testing.T) {
		engine := movementEngine(entity.Board{
			{e, e, e, o, o},
			{e, e, x, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
		}, x)

		outcome, err := engine.Move(1, 2, 0, 2, x)
		require.NoError(t, err)

		assert.Empty(t, outcome.Captured)

		board := engine.Board()
		assert.Equal(t, 2, board.Count(o))
	})

	t.Run("Moving between two enemy pieces is safe", func(t *testing.T) {
		// Given: X . X with an O below the gap
		engine := movementEngine(entity.Board{
			{x, e, x, e, e},
			{e, o, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
		}, o)

		// When: O steps into the gap
		outcome, err := engine.Move(1, 1, 0, 1, o)
		require.NoError(t, err)

		// Then: the mover is not captured
		assert.Empty(t, outcome.Captured)
		assert.Equal(t, o, engine.Board()[0][1])
	})
}

func TestFindCaptures(t *testing.T) {
	t.Run("All four directions see the post-move board", func(t *testing.T) {
		// Given: X already at the center with an O run flanked in every direction
		board := entity.Board{
			{e, e, x, e, e},
			{e, e, o, e, e},
			{x, o, x, o, x},
			{e, e, o, e, e},
			{e, e, x, e, e},
		}

		// When: captures around the center are collected
		captured := findCaptures(&board, entity.Position{Row: 2, Col: 2}, x)

		// Then: all four neighbours are captured and the board is untouched
		assert.ElementsMatch(t, []entity.Position{
			{Row: 1, Col: 2},
			{Row: 3, Col: 2},
			{Row: 2, Col: 3},
			{Row: 2, Col: 1},
		}, captured)
		assert.Equal(t, 4, board.Count(o))
	})

	t.Run("Only the landing piece flanks", func(t *testing.T) {
		board := entity.Board{
			{x, o, x, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, e},
			{e, e, e, e, x},
		}

		captured := findCaptures(&board, entity.Position{Row: 4, Col: 4}, x)

		assert.Empty(t, captured)
	})
}

func TestHasLegalMove(t *testing.T) {
	board := entity.Board{
		{o, x, e, e, e},
		{x, e, e, e, e},
		{e, e, e, e, e},
		{e, e, e, e, e},
		{e, e, e, e, e},
	}

	assert.False(t, hasLegalMove(&board, o))
	assert.True(t, hasLegalMove(&board, x))
	assert.False(t, hasLegalMove(&entity.Board{}, x))
}

func TestIsOrthogonalStep(t *testing.T) {
	from := entity.Position{Row: 2, Col: 2}

	assert.True(t, isOrthogonalStep(from, entity.Position{Row: 1, Col: 2}))
	assert.True(t, isOrthogonalStep(from, entity.Position{Row: 2, Col: 3}))
	assert.False(t, isOrthogonalStep(from, entity.Position{Row: 3, Col: 3}))
	assert.False(t, isOrthogonalStep(from, entity.Position{Row: 2, Col: 4}))
	assert.False(t, isOrthogonalStep(from, from))
}
