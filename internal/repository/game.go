package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// Store loads and saves the complete room mapping at once.
type Store interface {
	Load(ctx context.Context) (map[string]entity.GameState, error)
	Save(ctx context.Context, games map[string]entity.GameState) error
}

// Room is one entry of the registry.
type Room struct {
	ID    string
	State entity.GameState
}

type GameRepository interface {
	GetByID(ctx context.Context, id string) (entity.GameState, error)
	List(ctx context.Context) ([]Room, error)
	Create(ctx context.Context) (Room, error)
	Update(ctx context.Context, id string, game entity.GameState) error
	DeleteByID(ctx context.Context, id string) error
}

// dbGame re-reads the store on every call and never caches between calls.
type dbGame struct {
	store Store
	newID func() string
}

func NewGameRepository(store Store) GameRepository {
	return &dbGame{
		store: store,
		newID: uuid.NewString,
	}
}

func (that *dbGame) GetByID(ctx context.Context, id string) (entity.GameState, error) {
	games, err := that.load(ctx)
	if err != nil {
		return entity.GameState{}, err
	}

	game, ok := games[id]
	if !ok {
		return entity.GameState{}, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return game, nil
}

// List - returns every room ordered by id.
func (that *dbGame) List(ctx context.Context) ([]Room, error) {
	games, err := that.load(ctx)
	if err != nil {
		return nil, err
	}

	rooms := make([]Room, 0, len(games))
	for id, game := range games {
		rooms = append(rooms, Room{ID: id, State: game})
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})

	return rooms, nil
}

func (that *dbGame) Create(ctx context.Context) (Room, error) {
	games, err := that.load(ctx)
	if err != nil {
		return Room{}, err
	}

	id := that.newID()
	for {
		if _, taken := games[id]; !taken {
			break
		}
		id = that.newID()
	}

	room := Room{ID: id, State: tictactoe.NewGame()}
	games[id] = room.State

	if err = that.save(ctx, games); err != nil {
		return Room{}, err
	}

	return room, nil
}

func (that *dbGame) Update(ctx context.Context, id string, game entity.GameState) error {
	games, err := that.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := games[id]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	games[id] = game

	return that.save(ctx, games)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	games, err := that.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := games[id]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	delete(games, id)

	return that.save(ctx, games)
}

func (that *dbGame) load(ctx context.Context) (map[string]entity.GameState, error) {
	games, err := that.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrPersistence, err)
	}

	if games == nil {
		games = map[string]entity.GameState{}
	}

	return games, nil
}

func (that *dbGame) save(ctx context.Context, games map[string]entity.GameState) error {
	if err := that.store.Save(ctx, games); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrPersistence, err)
	}

	return nil
}
