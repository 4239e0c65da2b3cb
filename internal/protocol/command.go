// Package protocol turns raw client lines into commands and game state into wire text.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
	"github.com/rocketscienceinc/seega-backend/internal/entity"
)

const (
	placePrefix   = "place"
	movePrefix    = "move"
	resignCommand = "/resign"
)

// Kind - what a line asks the server to do.
type Kind int

const (
	KindQuit Kind = iota
	KindPlace
	KindMove
	KindResign
	KindChat
)

func (that Kind) String() string {
	switch that {
	case KindQuit:
		return "quit"
	case KindPlace:
		return "place"
	case KindMove:
		return "move"
	case KindResign:
		return "resign"
	case KindChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Classify - dispatches by prefix. Arguments are not looked at, so the turn gate can run before parsing.
func Classify(line string) Kind {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return KindQuit
	case strings.HasPrefix(line, placePrefix):
		return KindPlace
	case strings.HasPrefix(line, movePrefix):
		return KindMove
	case strings.EqualFold(line, resignCommand):
		return KindResign
	default:
		return KindChat
	}
}

// ParsePlace - reads "place <row> <col>".
func ParsePlace(line string) (entity.Position, error) {
	args, err := arguments(line, placePrefix, 2)
	if err != nil {
		return entity.Position{}, err
	}

	return entity.Position{Row: args[0], Col: args[1]}, nil
}

// ParseMove - reads "move <r1> <c1> <r2> <c2>".
func ParseMove(line string) (entity.Position, entity.Position, error) {
	args, err := arguments(line, movePrefix, 4)
	if err != nil {
		return entity.Position{}, entity.Position{}, err
	}

	return entity.Position{Row: args[0], Col: args[1]}, entity.Position{Row: args[2], Col: args[3]}, nil
}

func arguments(line, verb string, want int) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) != want+1 || fields[0] != verb {
		return nil, fmt.Errorf("%w: %q", apperror.ErrMalformedCommand, line)
	}

	args := make([]int, 0, want)
	for _, field := range fields[1:] {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", apperror.ErrMalformedCommand, field)
		}

		args = append(args, n)
	}

	return args, nil
}
