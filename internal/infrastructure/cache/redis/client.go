package redis

import (
	"context"
	"fmt"
	"time"

	"fleet-console/internal/config"
	"fleet-console/internal/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect opens a redis client and pings it.
func Connect(cfg *config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.Int("db", cfg.DB))
	return client, nil
}
