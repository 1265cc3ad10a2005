package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/crm-access/pkg/util"
)

const credentialKeySuffix = ":auth_token"

// CredentialCache stores the single current token of the local operator,
// modelling an OS-level secret store. Saving replaces any previous token;
// Load returns "" when no token is stored. Expiry is enforced at decode
// time, never here.
type CredentialCache interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// RedisCredentialCache keeps the token under one namespaced key.
type RedisCredentialCache struct {
	client *redis.Client
	key    string
}

// NewRedisCredentialCache builds the cache over an existing client.
func NewRedisCredentialCache(client *redis.Client, namespace string) *RedisCredentialCache {
	return &RedisCredentialCache{client: client, key: namespace + credentialKeySuffix}
}

func (c *RedisCredentialCache) Save(ctx context.Context, token string) error {
	if err := c.client.Set(ctx, c.key, token, 0).Err(); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

func (c *RedisCredentialCache) Load(ctx context.Context) (string, error) {
	token, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", util.NewInternalError(err)
	}
	return token, nil
}

func (c *RedisCredentialCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

// MemoryCredentialCache is an in-process CredentialCache for tests and
// DSN-less runs.
type MemoryCredentialCache struct {
	mu    sync.Mutex
	token string
}

func NewMemoryCredentialCache() *MemoryCredentialCache {
	return &MemoryCredentialCache{}
}

func (c *MemoryCredentialCache) Save(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

func (c *MemoryCredentialCache) Load(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

func (c *MemoryCredentialCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	return nil
}
