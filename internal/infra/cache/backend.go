package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/PetCare-SchedulingService/pkg/clock"
)

// ErrMiss возвращается бэкендом, если ключа нет или он истек
var ErrMiss = errors.New("cache: miss")

// Backend хранилище закодированных значений с TTL
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisBackend кэш в Redis
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend создает кэш в Redis; prefix добавляется ко всем ключам
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

// Get получает значение по ключу
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: redis get %s: %w", key, err)
	}
	return data, nil
}

// Set сохраняет значение с TTL
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %s: %w", key, err)
	}
	return nil
}

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// LocalBackend кэш в памяти процесса
type LocalBackend struct {
	mu      sync.RWMutex
	entries map[string]localEntry
	clock   clock.Clock
}

// NewLocalBackend создает кэш в памяти процесса
func NewLocalBackend(c clock.Clock) *LocalBackend {
	if c == nil {
		c = clock.Real{}
	}
	return &LocalBackend{entries: make(map[string]localEntry), clock: c}
}

// Get получает значение по ключу; истекшие записи считаются промахом
func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !b.clock.Now().Before(entry.expiresAt) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.value, nil
}

// Set сохраняет значение с TTL
func (b *LocalBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = localEntry{value: value, expiresAt: b.clock.Now().Add(ttl)}
	return nil
}
