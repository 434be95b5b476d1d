package registry

import (
	"context"
	"sync"
	"time"

	"lolharvest/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Registry is the set of all match ids seen so far. Membership only grows.
// It is a performance optimization over the store's existence check, never
// the source of truth, so a stale registry is safe.
type Registry interface {
	// Register adds the match id, reporting whether it was new.
	Register(ctx context.Context, matchId string) (bool, error)
	// Seed preloads ids already present on durable storage.
	Seed(ctx context.Context, matchIds []string) error
	// Size returns the count of distinct ids ever registered.
	Size(ctx context.Context) (int64, error)
}

// In-memory registry for single-process runs.
type MemoryRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Create a instance of the memory registry.
func CreateMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		seen: make(map[string]struct{}),
	}
}

func (m *MemoryRegistry) Register(ctx context.Context, matchId string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seen[matchId]; ok {
		return false, nil
	}
	m.seen[matchId] = struct{}{}
	return true, nil
}

func (m *MemoryRegistry) Seed(ctx context.Context, matchIds []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, matchId := range matchIds {
		m.seen[matchId] = struct{}{}
	}
	return nil
}

func (m *MemoryRegistry) Size(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.seen)), nil
}

// Redis-backed registry, shared between collector runs pointed at the
// same instance. SADD gives the atomic register-and-was-it-new check.
type RedisRegistry struct {
	client *redis.Client
	key    string
}

// Create a instance of the redis registry.
func CreateRedisRegistry(cfg config.RedisConfiguration, key string) *RedisRegistry {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + cfg.Port,
		Password:    cfg.Password,
		DB:          0,
		MaxRetries:  3,
		PoolTimeout: 30 * time.Second,
	})

	return &RedisRegistry{
		client: client,
		key:    key,
	}
}

func (r *RedisRegistry) Register(ctx context.Context, matchId string) (bool, error) {
	added, err := r.client.SAdd(ctx, r.key, matchId).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (r *RedisRegistry) Seed(ctx context.Context, matchIds []string) error {
	if len(matchIds) == 0 {
		return nil
	}

	members := make([]interface{}, len(matchIds))
	for i, matchId := range matchIds {
		members[i] = matchId
	}
	return r.client.SAdd(ctx, r.key, members...).Err()
}

func (r *RedisRegistry) Size(ctx context.Context) (int64, error) {
	return r.client.SCard(ctx, r.key).Result()
}

// Close the client connection.
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
