package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// Store persists the conversation record as a single JSON value under a
// fixed namespaced key, for hosted deployments sharing one widget
// backend across instances.
type Store struct {
	client *redis.Client
	key    string
}

// New connects to redis and verifies the connection
func New(ctx context.Context, addr, password string, db int, key string) (*Store, error) {
	if addr == "" {
		return nil, goerr.New("redis address is required")
	}
	if key == "" {
		return nil, goerr.New("redis record key is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	return &Store{client: client, key: key}, nil
}

func (s *Store) Load(ctx context.Context) ([]model.Turn, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read conversation record", goerr.V("key", s.key))
	}

	var turns []model.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, goerr.Wrap(err, "corrupt conversation record", goerr.V("key", s.key))
	}
	return turns, nil
}

func (s *Store) Save(ctx context.Context, turns []model.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return goerr.Wrap(err, "failed to encode conversation record")
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to write conversation record", goerr.V("key", s.key))
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return goerr.Wrap(err, "failed to remove conversation record", goerr.V("key", s.key))
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
