package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// FileStore keeps the room mapping as one JSON object on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (that *FileStore) Load(_ context.Context) (map[string]entity.GameState, error) {
	data, err := os.ReadFile(that.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]entity.GameState{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't read games file: %w", err)
	}

	games := map[string]entity.GameState{}
	if len(data) == 0 {
		return games, nil
	}

	if err = json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("can't decode games file: %w", err)
	}

	return games, nil
}

// Save - writes a sibling temp file and renames it over the target.
func (that *FileStore) Save(_ context.Context, games map[string]entity.GameState) error {
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("can't encode games: %w", err)
	}

	dir := filepath.Dir(that.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(that.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("can't create temp file: %w", err)
	}

	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write games file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close games file: %w", err)
	}

	if err = os.Rename(tmp.Name(), that.path); err != nil {
		return fmt.Errorf("can't replace games file: %w", err)
	}

	return nil
}
