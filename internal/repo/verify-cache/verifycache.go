package verifycache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GlebRadaev/bidcore/internal/domain"
)

// Cache keeps recently read verification states in redis. The TTL
// bounds staleness; bid placement tolerates a few seconds because the
// ledger is re-checked at commit time anyway.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func key(userID int) string {
	return fmt.Sprintf("verification_state:%d", userID)
}

// Get returns the cached state, or "" on a miss.
func (c *Cache) Get(ctx context.Context, userID int) (domain.VerificationState, error) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return domain.VerificationState(val), nil
}

func (c *Cache) Set(ctx context.Context, userID int, state domain.VerificationState) error {
	return c.client.Set(ctx, key(userID), string(state), c.ttl).Err()
}
