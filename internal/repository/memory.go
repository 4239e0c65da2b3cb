package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/seega-backend/internal/entity"
)

// memoryStore - JSON documents by key, so callers never share pointers with the store.
type memoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (that *memoryStore) put(key string, value any) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", key, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.docs[key] = doc

	return nil
}

func (that *memoryStore) get(key string, value any) (bool, error) {
	that.mu.RLock()
	doc, ok := that.docs[key]
	that.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(doc, value); err != nil {
		return true, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

func (that *memoryStore) del(key string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.docs[key]
	delete(that.docs, key)

	return ok
}

type memGame struct {
	store *memoryStore
}

// NewMemoryGameRepository - process-local GameRepository for the default memory driver.
func NewMemoryGameRepository() GameRepository {
	return &memGame{store: newMemoryStore()}
}

func (that *memGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	return that.store.put(gameKeyPrefix+game.ID, game)
}

func (that *memGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	var game entity.Game

	found, err := that.store.get(gameKeyPrefix+id, &game)
	if err != nil {
		return &entity.Game{}, err
	}

	if !found {
		return &entity.Game{}, ErrGameNotFound
	}

	return &game, nil
}

func (that *memGame) DeleteByID(_ context.Context, id string) error {
	if !that.store.del(gameKeyPrefix + id) {
		return ErrGameNotFound
	}

	return nil
}

type memPlayer struct {
	store *memoryStore
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memPlayer{store: newMemoryStore()}
}

func (that *memPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	return that.store.put(playerKeyPrefix+player.ID, player)
}

func (that *memPlayer) GetByID(_ context.Context, id string) (*entity.Player, error) {
	var player entity.Player

	found, err := that.store.get(playerKeyPrefix+id, &player)
	if err != nil {
		return &entity.Player{}, err
	}

	if !found {
		return &entity.Player{}, ErrPlayerNotFound
	}

	return &player, nil
}

func (that *memPlayer) DeleteByID(_ context.Context, id string) error {
	if !that.store.del(playerKeyPrefix + id) {
		return ErrPlayerNotFound
	}

	return nil
}
