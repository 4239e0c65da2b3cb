package apperror

import "errors"

// Rule violations. Their text is sent back to the offending participant as-is.
var (
	ErrGameFinished        = errors.New("the game is already finished")
	ErrGameIsNotStarted    = errors.New("waiting for opponent")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrWrongPhase          = errors.New("that command is not allowed in this phase")
	ErrOutOfBounds         = errors.New("position is outside the board")
	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrCenterForbidden     = errors.New("the center cell cannot be used during placement")
	ErrNoPiecesLeft        = errors.New("no pieces left to place")
	ErrNotYourPiece        = errors.New("there is no piece of yours at the source cell")
	ErrDestinationOccupied = errors.New("destination cell is occupied")
	ErrNotAdjacent         = errors.New("pieces move exactly one step orthogonally")
)

// Session errors.
var (
	ErrMalformedCommand = errors.New("malformed command")
	ErrSessionFull      = errors.New("game is full")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrNotFound         = errors.New("not found")
)

var ruleViolations = []error{
	ErrGameFinished,
	ErrGameIsNotStarted,
	ErrNotYourTurn,
	ErrWrongPhase,
	ErrOutOfBounds,
	ErrCellOccupied,
	ErrCenterForbidden,
	ErrNoPiecesLeft,
	ErrNotYourPiece,
	ErrDestinationOccupied,
	ErrNotAdjacent,
}

// IsRuleViolation - reports whether err was produced by a rejected game command.
func IsRuleViolation(err error) bool {
	return RuleViolation(err) != nil
}

// RuleViolation - returns the rule sentinel wrapped by err, or nil.
func RuleViolation(err error) error {
	for _, target := range ruleViolations {
		if errors.Is(err, target) {
			return target
		}
	}

	return nil
}
