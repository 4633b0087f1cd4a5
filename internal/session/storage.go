package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoToken is returned by Storage.Load when no token has been saved.
var ErrNoToken = errors.New("session: no token")

// Storage is the durable key holding the session token.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// FileStorage keeps the token in a single file, readable only by the
// owner.  It is used by the command-line client.
type FileStorage struct {
	Path string
}

// NewFileStorage returns a FileStorage for path.
func NewFileStorage(path string) *FileStorage { return &FileStorage{Path: path} }

func (f *FileStorage) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func (f *FileStorage) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear(_ context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// RedisStorage keeps one browser session's token under
// "<prefix>:<sessionID>".  A positive TTL is refreshed on every save.
type RedisStorage struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStorage returns storage for the session identified by sessionID.
func NewRedisStorage(rdb *redis.Client, prefix, sessionID string, ttl time.Duration) *RedisStorage {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStorage{rdb: rdb, key: prefix + ":" + sessionID, ttl: ttl}
}

// Key is the Redis key used for this session.
func (r *RedisStorage) Key() string { return r.key }

func (r *RedisStorage) Load(ctx context.Context) (string, error) {
	tok, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return tok, nil
}

func (r *RedisStorage) Save(ctx context.Context, token string) error {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.rdb.Set(ctx, r.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

// MemoryStorage is an in-process Storage.  The web server falls back to it
// when Redis is unavailable; tests use it to simulate restarts by sharing
// one MemoryStorage between two Stores.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
	// LoadErr, when set, is returned by Load.
	LoadErr error
}

func (m *MemoryStorage) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryStorage) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
