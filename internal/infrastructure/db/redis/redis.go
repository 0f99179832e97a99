package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentlink/appcore/internal/infrastructure/config"
)

const pingTimeout = 5 * time.Second

// Connect opens the client backing the location feed and validates
// connectivity with a ping before handing it out.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("location feed: connect %s: %w", cfg.Addr, err)
	}

	return client, nil
}
