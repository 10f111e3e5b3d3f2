package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const blacklistPrefix = "blacklist:"

// RedisBlacklist stores revoked tokens in redis until they would have
// expired anyway.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) IsBlacklisted(c *gin.Context, token string) (bool, error) {
	n, err := b.client.Exists(c.Request.Context(), blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke marks a token invalid until expiry.
func (b *RedisBlacklist) Revoke(c *gin.Context, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(c.Request.Context(), blacklistPrefix+token, "1", ttl).Err()
}
