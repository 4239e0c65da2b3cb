package entity

import (
	"testing"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_GetSet(t *testing.T) {
	t.Run("Zero value board is empty", func(t *testing.T) {
		var board Board

		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				cell, err := board.Get(row, col)
				require.NoError(t, err)
				assert.Equal(t, EmptyCell, cell)
			}
		}
	})

	t.Run("Set changes exactly one cell", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: X is set at (1, 3)
		require.NoError(t, board.Set(1, 3, PlayerX))

		// Then: only that cell holds X
		cell, err := board.Get(1, 3)
		require.NoError(t, err)
		assert.Equal(t, PlayerX, cell)
		assert.Equal(t, 1, board.Count(PlayerX))
		assert.Equal(t, 0, board.Count(PlayerO))
	})

	t.Run("Out of bounds access is rejected", func(t *testing.T) {
		var board Board

		_, err := board.Get(5, 0)
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)

		err = board.Set(0, -1, PlayerO)
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)

		assert.Equal(t, Board{}, board)
	})
}

func TestSide_Opponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.Equal(t, EmptyCell, EmptyCell.Opponent())
}

func TestPosition_IsCenter(t *testing.T) {
	assert.True(t, Position{Row: 2, Col: 2}.IsCenter())
	assert.False(t, Position{Row: 2, Col: 1}.IsCenter())
	assert.Equal(t, "(3, 4)", Position{Row: 3, Col: 4}.String())
}
