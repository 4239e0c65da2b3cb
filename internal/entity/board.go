package entity

import (
	"fmt"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
)

const (
	BoardSize = 5

	CenterRow = 2
	CenterCol = 2
)

// Side - a player mark. EmptyCell doubles as "no side".
type Side string

const (
	PlayerX Side = "X"
	PlayerO Side = "O"

	EmptyCell Side = ""
)

// Sides - both playing sides in a fixed order.
var Sides = [2]Side{PlayerX, PlayerO}

// Opponent - returns the other side.
func (that Side) Opponent() Side {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Side) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

// Position - a (row, col) pair on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// IsCenter - reports whether the position is the distinguished center cell.
func (that Position) IsCenter() bool {
	return that.Row == CenterRow && that.Col == CenterCol
}

// Board - the 5x5 grid. The zero value is an empty board.
type Board [BoardSize][BoardSize]Side

// InBounds - reports whether (row, col) addresses one of the 25 cells.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Board) Get(row, col int) (Side, error) {
	if !InBounds(row, col) {
		return EmptyCell, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, row, col)
	}

	return that[row][col], nil
}

func (that *Board) Set(row, col int, side Side) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, row, col)
	}

	that[row][col] = side

	return nil
}

// Count - number of cells holding the given side's pieces.
func (that *Board) Count(side Side) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == side {
				count++
			}
		}
	}

	return count
}
