// internal/services/site/config-store/persister.go
package configstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"

	"site-builder/internal/common/config"
)

// ErrNotFound is returned by a Persister that holds no stored config yet.
var ErrNotFound = errors.New("stored config not found")

// Persister stores the config blob under a fixed namespace.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// NewPersister picks the backend named by storage.backend. client is only
// used for the redis backend.
func NewPersister(storage config.StorageConfig, client *redis.Client) (Persister, error) {
	switch storage.Backend {
	case "redis":
		if client == nil {
			return nil, errors.New("storage.backend=redis needs a redis client")
		}
		return NewRedisPersister(client, storage.Namespace), nil
	case "file":
		return NewFilePersister(storage.FileDir, storage.Namespace), nil
	case "memory", "":
		return NewMemoryPersister(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", storage.Backend)
	}
}

// ==========================
// Redis
// ==========================

type RedisPersister struct {
	client *redis.Client
	key    string
}

func NewRedisPersister(client *redis.Client, namespace string) *RedisPersister {
	return &RedisPersister{client: client, key: namespace}
}

func (p *RedisPersister) Load(ctx context.Context) ([]byte, error) {
	blob, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", p.key, err)
	}
	return blob, nil
}

func (p *RedisPersister) Save(ctx context.Context, blob []byte) error {
	if err := p.client.Set(ctx, p.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.key, err)
	}
	return nil
}

// ==========================
// File
// ==========================

// FilePersister keeps the blob in <dir>/<namespace>.json. Writes go through
// a temp file and rename so a crash never leaves a torn file.
type FilePersister struct {
	mu   sync.Mutex
	path string
}

func NewFilePersister(dir, namespace string) *FilePersister {
	return &FilePersister{path: filepath.Join(dir, namespace+".json")}
}

func (p *FilePersister) Path() string { return p.path }

func (p *FilePersister) Load(_ context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	blob, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}
	return blob, nil
}

func (p *FilePersister) Save(_ context.Context, blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("rename into %s: %w", p.path, err)
	}
	return nil
}

// ==========================
// Memory
// ==========================

type MemoryPersister struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Load(_ context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.blob == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), p.blob...), nil
}

func (p *MemoryPersister) Save(_ context.Context, blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blob = append([]byte(nil), blob...)
	return nil
}
