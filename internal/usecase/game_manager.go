package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

type gameRepo interface {
	GetByID(ctx context.Context, id string) (entity.GameState, error)
	List(ctx context.Context) ([]repository.Room, error)
	Create(ctx context.Context) (repository.Room, error)
	Update(ctx context.Context, id string, game entity.GameState) error
	DeleteByID(ctx context.Context, id string) error
}

type notifier interface {
	Broadcast(roomID string, game entity.GameState)
	CloseRoom(roomID string)
}

// GameManager runs every room operation against the registry and tells observers about changes.
//
// The registry saves the whole mapping at once, so two mutations of different rooms can still
// overwrite each other. mu therefore serializes every reload-mutate-save sequence, while reads
// only exclude writers.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	notifier notifier

	mu sync.RWMutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, notifier notifier) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		notifier: notifier,
	}
}

func (that *GameManager) ListGames(ctx context.Context) ([]repository.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	rooms, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return rooms, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (entity.GameState, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// CreateGame - nobody can observe a room before it exists, so nothing is broadcast.
func (that *GameManager) CreateGame(ctx context.Context) (repository.Room, error) {
	log := that.logger.With("method", "CreateGame")

	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.gameRepo.Create(ctx)
	if err != nil {
		return repository.Room{}, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "roomID", room.ID)

	return room, nil
}

func (that *GameManager) MakeMove(ctx context.Context, id string, pos tictactoe.Position) (entity.GameState, error) {
	log := that.logger.With("method", "MakeMove", "roomID", id)

	game, err := that.mutate(ctx, id, func(current entity.GameState) (entity.GameState, error) {
		return tictactoe.ApplyMove(current, pos)
	})
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to make move: %w", err)
	}

	switch {
	case game.Won:
		log.Info("game won", "winner", game.Winner())
	case game.IsDraw():
		log.Info("game ended in a draw")
	default:
		log.Debug("move applied", "cell", pos.Value())
	}

	return game, nil
}

func (that *GameManager) ResetGame(ctx context.Context, id string) (entity.GameState, error) {
	log := that.logger.With("method", "ResetGame", "roomID", id)

	game, err := that.mutate(ctx, id, func(entity.GameState) (entity.GameState, error) {
		return tictactoe.ResetGame(), nil
	})
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to reset game: %w", err)
	}

	log.Info("game reset")

	return game, nil
}

// Subscribe - hands the current state of a room (nil when it does not exist) to attach.
// attach runs under the read lock, so no broadcast can slip in between reading the state
// and registering the observer.
func (that *GameManager) Subscribe(ctx context.Context, id string, attach func(current *entity.GameState)) error {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		attach(nil)
		return nil
	case err != nil:
		return fmt.Errorf("failed to get game: %w", err)
	}

	attach(&game)

	return nil
}

// DeleteGame - removes the room and disconnects its observers, no further updates can follow.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	log := that.logger.With("method", "DeleteGame", "roomID", id)

	that.mu.Lock()
	err := that.gameRepo.DeleteByID(ctx, id)
	that.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.notifier.CloseRoom(id)

	log.Info("game deleted")

	return nil
}

// mutate - reloads the room, applies change, saves and broadcasts the result under the write
// lock, so observers receive updates in commit order. Broadcast never blocks. Nothing is saved
// or broadcast when change or the save fails.
func (that *GameManager) mutate(
	ctx context.Context,
	id string,
	change func(entity.GameState) (entity.GameState, error),
) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return entity.GameState{}, err
	}

	next, err := change(current)
	if err != nil {
		return entity.GameState{}, err
	}

	if err = that.gameRepo.Update(ctx, id, next); err != nil {
		return entity.GameState{}, err
	}

	that.notifier.Broadcast(id, next)

	return next, nil
}
