package protocol

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
	"github.com/rocketscienceinc/seega-backend/internal/entity"
	"github.com/rocketscienceinc/seega-backend/internal/seega"
)

const (
	GameOverMarker = "[GAME_OVER] "

	PlaceUsage = "Invalid command. Use: place <row> <col>\n"
	MoveUsage  = "Invalid command. Use: move <r1> <c1> <r2> <c2>\n"

	PlayersConnected = "[!] Two players connected. Starting the game...\n"

	boardHeader = "\n  0 1 2 3 4\n"
	emptyMark   = "."
)

// Seat - first line a participant receives.
func Seat(side entity.Side) string {
	return fmt.Sprintf("You are player %s\n", side)
}

// Board - header, five rows and the status line.
func Board(board entity.Board, turn entity.Side, remainingX, remainingO int) string {
	var sb strings.Builder

	sb.WriteString(boardHeader)
	for row, cells := range board {
		marks := make([]string, 0, entity.BoardSize)
		for _, cell := range cells {
			marks = append(marks, mark(cell))
		}

		fmt.Fprintf(&sb, "%d %s\n", row, strings.Join(marks, " "))
	}

	fmt.Fprintf(&sb, "\nIt is %s's turn (Pieces remaining: X=%d O=%d)\n", turn, remainingX, remainingO)

	return sb.String()
}

func Chat(side entity.Side, text string) string {
	return fmt.Sprintf("[Player %s says]: %s\n", side, text)
}

// GameOver - outcome line prefixed with the marker clients watch for.
func GameOver(winner entity.Side, reason seega.Reason) string {
	return GameOverMarker + Outcome(winner, reason) + "\n"
}

// Outcome - human-readable result naming the winner first.
func Outcome(winner entity.Side, reason seega.Reason) string {
	loser := winner.Opponent()

	switch reason {
	case seega.ReasonResignation:
		return fmt.Sprintf("Player %s won! %s resigned.", winner, loser)
	case seega.ReasonForfeit:
		return fmt.Sprintf("Player %s won! %s left the game.", winner, loser)
	case seega.ReasonStalemate:
		return fmt.Sprintf("Player %s won! %s has no legal moves.", winner, loser)
	case seega.ReasonCapturedAll:
		return fmt.Sprintf("Player %s won! %s has no pieces left.", winner, loser)
	default:
		return fmt.Sprintf("Player %s won!", winner)
	}
}

func Placed(pos entity.Position) string {
	return fmt.Sprintf("Piece placed at %s.\n", pos)
}

// Moved - success reply for a move, listing captured cells if any.
func Moved(from, to entity.Position, captured []entity.Position) string {
	if len(captured) == 0 {
		return fmt.Sprintf("Piece moved from %s to %s.\n", from, to)
	}

	cells := make([]string, 0, len(captured))
	for _, pos := range captured {
		cells = append(cells, pos.String())
	}

	return fmt.Sprintf("Piece moved from %s to %s. Captured: %s.\n", from, to, strings.Join(cells, ", "))
}

// Rejection - reply line for a refused command, e.g. "Not your turn.\n".
func Rejection(err error) string {
	if cause := apperror.RuleViolation(err); cause != nil {
		return sentence(cause.Error())
	}

	return sentence(err.Error())
}

func sentence(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return "\n"
	}

	runes[0] = unicode.ToUpper(runes[0])

	return string(runes) + ".\n"
}

func mark(side entity.Side) string {
	if side == entity.EmptyCell {
		return emptyMark
	}

	return string(side)
}
