package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Phase - stage of a Seega game.
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhaseMovement  Phase = "movement"
	PhaseGameOver  Phase = "game_over"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game - snapshot of a running session, as kept by the repository.
type Game struct {
	ID        string       `json:"id"`
	Board     Board        `json:"board"`
	Turn      Side         `json:"turn"`
	Phase     Phase        `json:"phase"`
	Remaining map[Side]int `json:"remaining"`
	Winner    Side         `json:"winner,omitempty"`
	Status    string       `json:"status"`
	Players   []*Player    `json:"players,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
