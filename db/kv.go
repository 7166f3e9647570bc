package db

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is string storage keyed by name. A zero ttl never expires.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryStore() KeyValueStore {
	return &memoryStore{items: make(map[string]memoryItem)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrKeyNotFound
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return "", ErrKeyNotFound
	}
	return item.value, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) KeyValueStore {
	return &redisStore{client: client}
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis get %s", key)
	}
	return val, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.Wrapf(r.client.Set(ctx, key, value, ttl).Err(), "redis set %s", key)
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, key).Err(), "redis del %s", key)
}

// KVEntry is a key-value row for SQL backed deployments.
type KVEntry struct {
	Key       string `gorm:"column:kv_key;primaryKey;size:255"`
	Value     string `gorm:"type:text"`
	ExpiresAt *time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

type gormKVStore struct {
	DB *gorm.DB
}

func NewGormKVStore(db *GormDB) KeyValueStore {
	return &gormKVStore{DB: db.DB}
}

func (g *gormKVStore) Get(ctx context.Context, key string) (string, error) {
	var entry KVEntry
	err := g.DB.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "kv get %s", key)
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = g.Delete(ctx, key)
		return "", ErrKeyNotFound
	}
	return entry.Value, nil
}

func (g *gormKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := KVEntry{Key: key, Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		entry.ExpiresAt = &exp
	}
	err := g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&entry).Error
	return errors.Wrapf(err, "kv set %s", key)
}

func (g *gormKVStore) Delete(ctx context.Context, key string) error {
	err := g.DB.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntry{}).Error
	return errors.Wrapf(err, "kv delete %s", key)
}
