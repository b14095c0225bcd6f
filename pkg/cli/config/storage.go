package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/repository/file"
	"github.com/bikram-mondal/bikram-ai/pkg/repository/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/repository/redis"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

// Storage holds CLI flags for the conversation store backend
type Storage struct {
	backend       string
	filePath      string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisKey      string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Conversation store backend (file, redis or memory)",
			Value:       "file",
			Sources:     cli.EnvVars("BIKRAM_AI_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-file",
			Usage:       "Path of the conversation record file (file backend)",
			Value:       "bikram-ai-history.json",
			Sources:     cli.EnvVars("BIKRAM_AI_STORAGE_FILE"),
			Destination: &s.filePath,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (redis backend)",
			Value:       "localhost:6379",
			Sources:     cli.EnvVars("BIKRAM_AI_REDIS_ADDR"),
			Destination: &s.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password (redis backend)",
			Sources:     cli.EnvVars("BIKRAM_AI_REDIS_PASSWORD"),
			Destination: &s.redisPassword,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number (redis backend)",
			Value:       0,
			Sources:     cli.EnvVars("BIKRAM_AI_REDIS_DB"),
			Destination: &s.redisDB,
		},
		&cli.StringFlag{
			Name:        "redis-key",
			Usage:       "Redis key holding the conversation record (redis backend)",
			Value:       "bikram_ai:chat_history",
			Sources:     cli.EnvVars("BIKRAM_AI_REDIS_KEY"),
			Destination: &s.redisKey,
		},
	}
}

// Backend returns the configured backend type
func (s *Storage) Backend() string {
	return s.backend
}

// Configure initializes the conversation store for the configured
// backend. The caller is responsible for calling Close() on the result.
func (s *Storage) Configure(ctx context.Context) (interfaces.ConversationStore, error) {
	switch s.backend {
	case "file":
		store, err := file.New(s.filePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file store")
		}
		logging.Default().Info("Using file conversation store", "path", s.filePath)
		return store, nil

	case "redis":
		store, err := redis.New(ctx, s.redisAddr, s.redisPassword, s.redisDB, s.redisKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis store")
		}
		logging.Default().Info("Using Redis conversation store",
			"addr", s.redisAddr,
			"db", s.redisDB,
			"key", s.redisKey,
		)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory conversation store (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, s.backend, goerr.V(BackendKey, s.backend))
	}
}
