// Package seega implements the rules of two-player Seega on a 5x5 board.
//
// An Engine is not safe for concurrent use; callers serialize access.
package seega

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
	"github.com/rocketscienceinc/seega-backend/internal/entity"
)

// PiecesPerSide - every non-center cell gets filled during placement.
const PiecesPerSide = (entity.BoardSize*entity.BoardSize - 1) / 2

var ErrInvalidSide = errors.New("invalid side")

// Reason - why a game ended.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonCapturedAll Reason = "captured_all"
	ReasonStalemate   Reason = "stalemate"
	ReasonResignation Reason = "resignation"
	ReasonForfeit     Reason = "forfeit"
)

// Outcome - result of an accepted command.
type Outcome struct {
	Captured []entity.Position
	Winner   entity.Side
	Reason   Reason
}

func (that Outcome) IsGameOver() bool {
	return that.Winner != entity.EmptyCell
}

type Engine struct {
	board     entity.Board
	turn      entity.Side
	remaining map[entity.Side]int
	winner    entity.Side
	reason    Reason
}

// NewEngine - empty board, full piece counts, X to act.
func NewEngine() *Engine {
	return &Engine{
		turn: entity.PlayerX,
		remaining: map[entity.Side]int{
			entity.PlayerX: PiecesPerSide,
			entity.PlayerO: PiecesPerSide,
		},
	}
}

// Phase - derived from piece counts and the recorded winner.
func (that *Engine) Phase() entity.Phase {
	switch {
	case that.winner != entity.EmptyCell:
		return entity.PhaseGameOver
	case that.remaining[entity.PlayerX] > 0 || that.remaining[entity.PlayerO] > 0:
		return entity.PhasePlacement
	default:
		return entity.PhaseMovement
	}
}

func (that *Engine) Turn() entity.Side {
	return that.turn
}

func (that *Engine) Remaining(side entity.Side) int {
	return that.remaining[side]
}

// Board - returns a copy of the grid.
func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) Winner() (entity.Side, Reason) {
	return that.winner, that.reason
}

func (that *Engine) IsGameOver() bool {
	return that.Phase() == entity.PhaseGameOver
}

// Place - puts one of side's pieces on an empty, non-center cell.
func (that *Engine) Place(row, col int, side entity.Side) (Outcome, error) {
	if err := that.validatePlacement(row, col, side); err != nil {
		return Outcome{}, fmt.Errorf("invalid placement: %w", err)
	}

	that.board[row][col] = side
	that.remaining[side]--
	that.turn = side.Opponent()

	// entering movement with the side to act already blocked ends the game
	if that.Phase() == entity.PhaseMovement && !hasLegalMove(&that.board, that.turn) {
		that.finish(that.turn.Opponent(), ReasonStalemate)
	}

	return that.outcome(nil), nil
}

// Move - steps one of side's pieces to an adjacent empty cell and resolves captures.
func (that *Engine) Move(fromRow, fromCol, toRow, toCol int, side entity.Side) (Outcome, error) {
	from := entity.Position{Row: fromRow, Col: fromCol}
	to := entity.Position{Row: toRow, Col: toCol}

	if err := that.validateMove(from, to, side); err != nil {
		return Outcome{}, fmt.Errorf("invalid move: %w", err)
	}

	that.board[from.Row][from.Col] = entity.EmptyCell
	that.board[to.Row][to.Col] = side

	captured := findCaptures(&that.board, to, side)
	for _, pos := range captured {
		that.board[pos.Row][pos.Col] = entity.EmptyCell
	}

	opponent := side.Opponent()
	switch {
	case that.board.Count(opponent) == 0:
		that.finish(side, ReasonCapturedAll)
	case !hasLegalMove(&that.board, opponent):
		that.finish(side, ReasonStalemate)
	default:
		that.turn = opponent
	}

	return that.outcome(captured), nil
}

// Resign - side gives up; the opponent wins regardless of the board.
func (that *Engine) Resign(side entity.Side) (Outcome, error) {
	return that.concede(side, ReasonResignation)
}

// Forfeit - side left the game; the opponent wins.
func (that *Engine) Forfeit(side entity.Side) (Outcome, error) {
	return that.concede(side, ReasonForfeit)
}

func (that *Engine) concede(side entity.Side, reason Reason) (Outcome, error) {
	if that.IsGameOver() {
		return Outcome{}, apperror.ErrGameFinished
	}

	if !side.IsValid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	that.finish(side.Opponent(), reason)

	return that.outcome(nil), nil
}

func (that *Engine) validatePlacement(row, col int, side entity.Side) error {
	if err := that.validateTurn(side, entity.PhasePlacement); err != nil {
		return err
	}

	if !entity.InBounds(row, col) {
		return apperror.ErrOutOfBounds
	}

	if (entity.Position{Row: row, Col: col}).IsCenter() {
		return apperror.ErrCenterForbidden
	}

	if that.board[row][col] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if that.remaining[side] <= 0 {
		return apperror.ErrNoPiecesLeft
	}

	return nil
}

func (that *Engine) validateMove(from, to entity.Position, side entity.Side) error {
	if err := that.validateTurn(side, entity.PhaseMovement); err != nil {
		return err
	}

	if !entity.InBounds(from.Row, from.Col) || !entity.InBounds(to.Row, to.Col) {
		return apperror.ErrOutOfBounds
	}

	if that.board[from.Row][from.Col] != side {
		return apperror.ErrNotYourPiece
	}

	if that.board[to.Row][to.Col] != entity.EmptyCell {
		return apperror.ErrDestinationOccupied
	}

	if !isOrthogonalStep(from, to) {
		return apperror.ErrNotAdjacent
	}

	return nil
}

// validateTurn - checks game over, phase and turn, in that order.
func (that *Engine) validateTurn(side entity.Side, want entity.Phase) error {
	phase := that.Phase()

	if phase == entity.PhaseGameOver {
		return apperror.ErrGameFinished
	}

	if phase != want {
		return apperror.ErrWrongPhase
	}

	if that.turn != side {
		return apperror.ErrNotYourTurn
	}

	return nil
}

func (that *Engine) finish(winner entity.Side, reason Reason) {
	that.winner = winner
	that.reason = reason
}

func (that *Engine) outcome(captured []entity.Position) Outcome {
	return Outcome{
		Captured: captured,
		Winner:   that.winner,
		Reason:   that.reason,
	}
}
