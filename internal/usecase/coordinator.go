package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/seega-backend/internal/apperror"
	"github.com/rocketscienceinc/seega-backend/internal/entity"
	"github.com/rocketscienceinc/seega-backend/internal/protocol"
	"github.com/rocketscienceinc/seega-backend/internal/seega"
)

// ErrSessionEnded - the participant sent an empty line; its transport should hang up.
var ErrSessionEnded = errors.New("session ended by participant")

// Participant - one connected client as seen by the Coordinator.
// Send must not block; a full or closed outbound buffer is reported as an error.
// Close may be called more than once and flushes what was already sent.
type Participant interface {
	ID() string
	Send(msg string) error
	Close()
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	DeleteByID(ctx context.Context, id string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

type Option func(*Coordinator)

// WithSideOrder - fixes which side the first and second connection get instead of shuffling.
func WithSideOrder(first entity.Side) Option {
	return func(that *Coordinator) {
		that.order = [2]entity.Side{first, first.Opponent()}
	}
}

// WithForfeitOnDisconnect - whether leaving an active game hands the win to the opponent.
func WithForfeitOnDisconnect(enabled bool) Option {
	return func(that *Coordinator) {
		that.forfeitOnDisconnect = enabled
	}
}

// Coordinator - owns the single game of this process and serializes every command against it.
type Coordinator struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	forfeitOnDisconnect bool
	order               [2]entity.Side

	mu     sync.Mutex
	engine *seega.Engine
	game   *entity.Game
	seats  map[entity.Side]Participant
	done   chan struct{}
}

func NewCoordinator(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, opts ...Option) *Coordinator {
	that := &Coordinator{
		logger:     logger.With("component", "coordinator"),
		playerRepo: playerRepo,
		gameRepo:   gameRepo,

		forfeitOnDisconnect: true,
		order:               randomSideOrder(),

		engine: seega.NewEngine(),
		game: &entity.Game{
			ID:     uuid.NewString(),
			Status: entity.StatusWaiting,
		},
		seats: make(map[entity.Side]Participant, len(entity.Sides)),
		done:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(that)
	}

	return that
}

// Done - closed once the game has a winner.
func (that *Coordinator) Done() <-chan struct{} {
	return that.done
}

// Snapshot - copy of the current game state.
func (that *Coordinator) Snapshot() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.syncGame()

	snapshot := *that.game
	snapshot.Remaining = map[entity.Side]int{
		entity.PlayerX: that.game.Remaining[entity.PlayerX],
		entity.PlayerO: that.game.Remaining[entity.PlayerO],
	}
	snapshot.Players = append([]*entity.Player(nil), that.game.Players...)

	return &snapshot
}

// Join - seats p on the next free side. The second seat starts the game.
func (that *Coordinator) Join(ctx context.Context, p Participant) (entity.Side, error) {
	log := that.logger.With("method", "Join", "conn_id", p.ID())

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game.IsFinished() {
		return entity.EmptyCell, apperror.ErrGameFinished
	}

	side := that.freeSide()
	if side == entity.EmptyCell {
		return entity.EmptyCell, apperror.ErrSessionFull
	}

	that.seats[side] = p

	player := &entity.Player{ID: p.ID(), Side: side, GameID: that.game.ID}
	that.game.Players = append(that.game.Players, player)
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		log.Error("failed to save player", "error", err)
	}

	log.Info("player seated", "side", side, "game_id", that.game.ID)

	that.reply(p, protocol.Seat(side))
	that.broadcastBoard()

	if len(that.seats) == len(entity.Sides) {
		that.game.Status = entity.StatusOngoing
		that.broadcast(protocol.PlayersConnected)

		log.Info("game started", "game_id", that.game.ID)
	}

	that.saveGame(ctx)

	return side, nil
}

// Handle - processes one line received from side.
// Rule violations and malformed commands are answered to the sender and never returned.
func (that *Coordinator) Handle(ctx context.Context, side entity.Side, line string) error {
	line = strings.TrimSpace(line)
	kind := protocol.Classify(line)
	if kind == protocol.KindQuit {
		return ErrSessionEnded
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	p, ok := that.seats[side]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSeatNotFound, side)
	}

	that.logger.Debug("command received", "method", "Handle", "side", side, "kind", kind.String())

	switch kind {
	case protocol.KindChat:
		that.broadcast(protocol.Chat(side, line))
	case protocol.KindPlace:
		that.place(ctx, p, side, line)
	case protocol.KindMove:
		that.move(ctx, p, side, line)
	case protocol.KindResign:
		that.resign(ctx, p, side)
	}

	return nil
}

// Leave - the participant on side is gone. During an active game this forfeits when enabled.
func (that *Coordinator) Leave(ctx context.Context, side entity.Side) {
	log := that.logger.With("method", "Leave", "side", side)

	that.mu.Lock()
	defer that.mu.Unlock()

	p, ok := that.seats[side]
	if !ok {
		return
	}

	switch {
	case that.game.IsWaiting():
		that.unseat(ctx, side, p.ID())
		log.Info("seat released before the game started")
	case that.game.IsOngoing() && that.forfeitOnDisconnect:
		outcome, err := that.engine.Forfeit(side)
		if err != nil {
			log.Error("failed to forfeit", "error", err)
			break
		}

		log.Info("player left, game forfeited")
		that.conclude(ctx, outcome)
	default:
		log.Info("player left")
	}

	p.Close()
}

func (that *Coordinator) place(ctx context.Context, p Participant, side entity.Side, line string) {
	if !that.admit(p, side) {
		return
	}

	pos, err := protocol.ParsePlace(line)
	if err != nil {
		that.reply(p, protocol.PlaceUsage)
		return
	}

	outcome, err := that.engine.Place(pos.Row, pos.Col, side)
	if err != nil {
		that.reject(p, side, err)
		return
	}

	that.reply(p, protocol.Placed(pos))
	that.accepted(ctx, outcome)
}

func (that *Coordinator) move(ctx context.Context, p Participant, side entity.Side, line string) {
	if !that.admit(p, side) {
		return
	}

	from, to, err := protocol.ParseMove(line)
	if err != nil {
		that.reply(p, protocol.MoveUsage)
		return
	}

	outcome, err := that.engine.Move(from.Row, from.Col, to.Row, to.Col, side)
	if err != nil {
		that.reject(p, side, err)
		return
	}

	that.reply(p, protocol.Moved(from, to, outcome.Captured))
	that.accepted(ctx, outcome)
}

func (that *Coordinator) resign(ctx context.Context, p Participant, side entity.Side) {
	if err := that.game.ConfirmOngoingState(); err != nil {
		that.reject(p, side, err)
		return
	}

	outcome, err := that.engine.Resign(side)
	if err != nil {
		that.reject(p, side, err)
		return
	}

	that.conclude(ctx, outcome)
}

// admit - the game must be running and it must be side's turn. Checked before arguments are parsed.
func (that *Coordinator) admit(p Participant, side entity.Side) bool {
	if err := that.game.ConfirmOngoingState(); err != nil {
		that.reject(p, side, err)
		return false
	}

	if that.engine.Turn() != side {
		that.reject(p, side, apperror.ErrNotYourTurn)
		return false
	}

	return true
}

func (that *Coordinator) accepted(ctx context.Context, outcome seega.Outcome) {
	that.broadcastBoard()

	if outcome.IsGameOver() {
		that.conclude(ctx, outcome)
		return
	}

	that.saveGame(ctx)
}

// conclude - announces the winner, drops the stored state and hangs up on everyone.
func (that *Coordinator) conclude(ctx context.Context, outcome seega.Outcome) {
	log := that.logger.With("method", "conclude", "game_id", that.game.ID)

	that.game.Status = entity.StatusFinished
	that.broadcast(protocol.GameOver(outcome.Winner, outcome.Reason))

	log.Info("game over", "winner", outcome.Winner, "reason", outcome.Reason)

	that.deleteGame(ctx)
	for _, player := range that.game.Players {
		that.removePlayer(ctx, player.ID)
	}

	for _, side := range entity.Sides {
		if p, ok := that.seats[side]; ok {
			p.Close()
		}
	}

	close(that.done)
}

func (that *Coordinator) freeSide() entity.Side {
	for _, side := range that.order {
		if _, taken := that.seats[side]; !taken {
			return side
		}
	}

	return entity.EmptyCell
}

func (that *Coordinator) reject(p Participant, side entity.Side, err error) {
	that.logger.Debug("command rejected", "method", "reject", "side", side, "error", err)

	that.reply(p, protocol.Rejection(err))
}

func (that *Coordinator) reply(p Participant, msg string) {
	if err := p.Send(msg); err != nil {
		that.logger.Warn("failed to send", "conn_id", p.ID(), "error", err)
	}
}

// broadcast - delivers msg to every seat; a failing participant does not stop the others.
func (that *Coordinator) broadcast(msg string) {
	for _, side := range entity.Sides {
		if p, ok := that.seats[side]; ok {
			that.reply(p, msg)
		}
	}
}

func (that *Coordinator) broadcastBoard() {
	that.broadcast(protocol.Board(
		that.engine.Board(),
		that.engine.Turn(),
		that.engine.Remaining(entity.PlayerX),
		that.engine.Remaining(entity.PlayerO),
	))
}

func (that *Coordinator) syncGame() {
	winner, _ := that.engine.Winner()

	that.game.Board = that.engine.Board()
	that.game.Turn = that.engine.Turn()
	that.game.Phase = that.engine.Phase()
	that.game.Winner = winner
	that.game.Remaining = map[entity.Side]int{
		entity.PlayerX: that.engine.Remaining(entity.PlayerX),
		entity.PlayerO: that.engine.Remaining(entity.PlayerO),
	}
}

func (that *Coordinator) saveGame(ctx context.Context) {
	that.syncGame()
	that.game.UpdatedAt = time.Now().UTC()

	if err := that.gameRepo.CreateOrUpdate(ctx, that.game); err != nil {
		that.logger.Error("failed to save game", "method", "saveGame", "game_id", that.game.ID, "error", err)
	}
}

func (that *Coordinator) deleteGame(ctx context.Context) {
	log := that.logger.With("method", "deleteGame", "game_id", that.game.ID)

	if err := that.gameRepo.DeleteByID(ctx, that.game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}
}

func (that *Coordinator) removePlayer(ctx context.Context, id string) {
	if err := that.playerRepo.DeleteByID(ctx, id); err != nil {
		that.logger.Error("failed to delete player", "method", "removePlayer", "conn_id", id, "error", err)
	}
}

// unseat - frees side so a later connection can take it.
func (that *Coordinator) unseat(ctx context.Context, side entity.Side, id string) {
	delete(that.seats, side)
	that.removePlayer(ctx, id)

	players := that.game.Players[:0]
	for _, player := range that.game.Players {
		if player.ID != id {
			players = append(players, player)
		}
	}
	that.game.Players = players

	that.saveGame(ctx)
}

func randomSideOrder() [2]entity.Side {
	if rand.Intn(2) == 0 {
		return [2]entity.Side{entity.PlayerX, entity.PlayerO}
	}

	return [2]entity.Side{entity.PlayerO, entity.PlayerX}
}
