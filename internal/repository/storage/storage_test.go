package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

type store interface {
	Load(ctx context.Context) (map[string]entity.GameState, error)
	Save(ctx context.Context, games map[string]entity.GameState) error
}

func sampleGames() map[string]entity.GameState {
	inProgress := entity.NewGameState()
	inProgress.Board[0] = entity.MarkX
	inProgress.CurrentPlayer = entity.MarkO

	won := entity.GameState{
		Board: entity.Board{
			entity.MarkX, entity.MarkO, entity.MarkO,
			entity.MarkEmpty, entity.MarkX, entity.MarkEmpty,
			entity.MarkEmpty, entity.MarkEmpty, entity.MarkX,
		},
		CurrentPlayer: entity.MarkO,
		Won:           true,
	}

	return map[string]entity.GameState{
		"room-1": entity.NewGameState(),
		"room-2": inProgress,
		"room-3": won,
	}
}

func checkStore(ctx context.Context, t *testing.T, st store) {
	t.Helper()

	t.Run("Load returns empty mapping before any save", func(t *testing.T) {
		// When: nothing was saved yet
		games, err := st.Load(ctx)

		// Then: the mapping is empty, not an error
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("Save then Load round trips", func(t *testing.T) {
		// Given: some games
		games := sampleGames()

		// When: they are saved and loaded back
		require.NoError(t, st.Save(ctx, games))
		loaded, err := st.Load(ctx)

		// Then: the loaded mapping matches
		require.NoError(t, err)
		assert.Equal(t, games, loaded)
	})

	t.Run("Save replaces the whole mapping", func(t *testing.T) {
		// Given: a saved mapping
		require.NoError(t, st.Save(ctx, sampleGames()))

		// When: a smaller mapping is saved
		only := map[string]entity.GameState{"room-9": entity.NewGameState()}
		require.NoError(t, st.Save(ctx, only))

		// Then: removed rooms are gone
		loaded, err := st.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, only, loaded)
	})

	t.Run("Saving an empty mapping clears the store", func(t *testing.T) {
		require.NoError(t, st.Save(ctx, sampleGames()))

		require.NoError(t, st.Save(ctx, map[string]entity.GameState{}))

		loaded, err := st.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}

func TestMemoryStore(t *testing.T) {
	checkStore(context.Background(), t, NewMemoryStore())

	t.Run("Loaded maps are copies", func(t *testing.T) {
		// Given: a store holding one game
		st := NewMemoryStore()
		require.NoError(t, st.Save(context.Background(), sampleGames()))

		// When: a caller mutates the loaded map
		loaded, err := st.Load(context.Background())
		require.NoError(t, err)
		delete(loaded, "room-1")

		// Then: the stored mapping is untouched
		again, err := st.Load(context.Background())
		require.NoError(t, err)
		assert.Contains(t, again, "room-1")
	})
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")

	checkStore(context.Background(), t, NewFileStore(path))

	t.Run("Empty file loads as empty mapping", func(t *testing.T) {
		emptyPath := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))

		games, err := NewFileStore(emptyPath).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("Corrupt file is an error", func(t *testing.T) {
		// Given: a file that is not JSON
		corruptPath := filepath.Join(t.TempDir(), "corrupt.json")
		require.NoError(t, os.WriteFile(corruptPath, []byte("{not json"), 0o600))

		// When: loading it
		_, err := NewFileStore(corruptPath).Load(context.Background())

		// Then: the failure is reported rather than masked
		require.Error(t, err)
	})

	t.Run("Save into a missing directory fails", func(t *testing.T) {
		st := NewFileStore(filepath.Join(t.TempDir(), "missing", "games.json"))

		err := st.Save(context.Background(), sampleGames())

		require.Error(t, err)
	})
}

func TestRedisStore(t *testing.T) {
	ctx, st := suite.New(t)

	checkStore(ctx, t, NewRedisStore(st.Redis, ""))

	t.Run("Games are kept in one hash", func(t *testing.T) {
		// Given: a store with a custom key
		redisStore := NewRedisStore(st.Redis, "test:games")
		require.NoError(t, redisStore.Save(ctx, sampleGames()))

		// Then: every room is a field of that hash
		fields, err := st.Redis.HKeys(ctx, "test:games").Result()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"room-1", "room-2", "room-3"}, fields)
	})

	t.Run("Corrupt record is an error", func(t *testing.T) {
		require.NoError(t, st.Redis.HSet(ctx, "test:corrupt", "room-1", "{oops").Err())

		_, err := NewRedisStore(st.Redis, "test:corrupt").Load(ctx)

		require.Error(t, err)
	})
}
