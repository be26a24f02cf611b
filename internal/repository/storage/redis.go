package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const DefaultGamesKey = "games"

// RedisStore keeps the whole room mapping in a single redis hash: field = room id.
type RedisStore struct {
	Connection *redis.Client
	key        string
}

// NewRedisClient - connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := conn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return conn, nil
}

func NewRedisStore(conn *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultGamesKey
	}

	return &RedisStore{
		Connection: conn,
		key:        key,
	}
}

func (that *RedisStore) Load(ctx context.Context) (map[string]entity.GameState, error) {
	fields, err := that.Connection.HGetAll(ctx, that.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	games := make(map[string]entity.GameState, len(fields))
	for id, raw := range fields {
		var game entity.GameState
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
		}

		games[id] = game
	}

	return games, nil
}

// Save - replaces the stored mapping inside one MULTI/EXEC block.
func (that *RedisStore) Save(ctx context.Context, games map[string]entity.GameState) error {
	values := make([]any, 0, len(games)*2)
	for id, game := range games {
		gameJSON, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("could not marshal game %s: %w", id, err)
		}

		values = append(values, id, gameJSON)
	}

	_, err := that.Connection.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, that.key)
		if len(values) > 0 {
			pipe.HSet(ctx, that.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save games: %w", err)
	}

	return nil
}

func (that *RedisStore) Close() error {
	return that.Connection.Close()
}
