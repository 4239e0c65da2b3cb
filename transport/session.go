// Package transport holds what the TCP and WebSocket line transports share:
// the bounded outbound queue and the join, read, leave loop of a participant.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/seega-backend/internal/entity"
	"github.com/rocketscienceinc/seega-backend/internal/protocol"
	"github.com/rocketscienceinc/seega-backend/internal/usecase"
)

var (
	ErrOutboxClosed = errors.New("outbox closed")
	ErrOutboxFull   = errors.New("outbox full")
)

type Coordinator interface {
	Join(ctx context.Context, p usecase.Participant) (entity.Side, error)
	Handle(ctx context.Context, side entity.Side, line string) error
	Leave(ctx context.Context, side entity.Side)
}

// Outbox - bounded queue of outbound messages drained by a connection's write pump.
type Outbox struct {
	mu     sync.Mutex
	closed bool
	queue  chan string
}

func NewOutbox(size int) *Outbox {
	return &Outbox{queue: make(chan string, size)}
}

// Send - enqueues without blocking.
func (that *Outbox) Send(msg string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrOutboxClosed
	}

	select {
	case that.queue <- msg:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Close - stops accepting messages. Already queued ones are still delivered by the reader of Queue.
func (that *Outbox) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.queue)
}

func (that *Outbox) Queue() <-chan string {
	return that.queue
}

// LineReader - returns the next line from the participant or an error once the connection is gone.
type LineReader func() (string, error)

// Attach - seats p, feeds its lines to the coordinator and leaves when reading stops.
func Attach(ctx context.Context, logger *slog.Logger, coordinator Coordinator, p usecase.Participant, read LineReader) {
	log := logger.With("method", "Attach", "conn_id", p.ID())

	side, err := coordinator.Join(ctx, p)
	if err != nil {
		log.Info("connection refused", "error", err)

		if sendErr := p.Send(protocol.Rejection(err)); sendErr != nil {
			log.Warn("failed to send refusal", "error", sendErr)
		}
		p.Close()

		return
	}

	defer coordinator.Leave(ctx, side)

	for {
		line, err := read()
		if err != nil {
			log.Info("connection closed", "side", side, "error", err)
			return
		}

		if err = coordinator.Handle(ctx, side, line); err != nil {
			if !errors.Is(err, usecase.ErrSessionEnded) {
				log.Error("failed to handle line", "side", side, "error", err)
			}

			return
		}
	}
}
