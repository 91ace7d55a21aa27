package throttle

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cooldown with SET NX PX so the window survives process
// restarts and is shared if the backend ever runs more than one replica.
type Redis struct {
	client redis.UniversalClient
	prefix string
	window time.Duration
}

func NewRedis(client redis.UniversalClient, prefix string, window time.Duration) *Redis {
	if prefix == "" {
		prefix = "cooldown"
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{client: client, prefix: prefix, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.prefix+":"+key, 1, r.window).Result()
}

func (r *Redis) Mark(ctx context.Context, key string) error {
	return r.client.Set(ctx, r.prefix+":"+key, 1, r.window).Err()
}
