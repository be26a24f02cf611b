package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// MemoryStore is a process-local store. Load and Save copy, so callers never share a map.
type MemoryStore struct {
	mu    sync.Mutex
	games map[string]entity.GameState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: map[string]entity.GameState{}}
}

func (that *MemoryStore) Load(_ context.Context) (map[string]entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return maps.Clone(that.games), nil
}

func (that *MemoryStore) Save(_ context.Context, games map[string]entity.GameState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games = maps.Clone(games)
	if that.games == nil {
		that.games = map[string]entity.GameState{}
	}

	return nil
}
