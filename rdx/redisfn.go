package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens the Redis client from REDIS_ADDR and verifies it with a ping.
func Connect(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	conn := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return conn, nil
}

// Dedupe claims a key at most once per TTL window using SET NX, so repeated
// runs of the same job skip work already done.
type Dedupe struct {
	conn *redis.Client
}

func NewDedupe(conn *redis.Client) *Dedupe {
	return &Dedupe{conn: conn}
}

// Claim returns true when the caller won the key for this window. On a Redis
// error it returns the error and false; callers decide whether to proceed.
func (d *Dedupe) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.conn.SetNX(ctx, key, "1", ttl).Result()
}
