// internal/services/site/config-store/persister_test.go
package configstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-builder/internal/common/config"
	"site-builder/internal/common/logger"
)

func TestRedisPersister(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisPersister(client, config.DefaultStorageNamespace)
	ctx := context.Background()

	_, err := p.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Save(ctx, []byte(`{"state":{}}`)))
	got, err := mr.Get(config.DefaultStorageNamespace)
	require.NoError(t, err)
	assert.Equal(t, `{"state":{}}`, got)

	blob, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"state":{}}`), blob)
}

func TestRedisPersister_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, err := NewRedisPersister(client, "k").Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFilePersister(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	p := NewFilePersister(dir, config.DefaultStorageNamespace)
	ctx := context.Background()

	_, err := p.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Save(ctx, []byte("one")))
	require.NoError(t, p.Save(ctx, []byte("two")))

	blob, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), blob)
	assert.Equal(t, filepath.Join(dir, "business-config-storage.json"), p.Path())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_WithRedisPersister(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	s := New(NewRedisPersister(client, config.DefaultStorageNamespace), logger.NewTestLogger(t))
	require.NoError(t, s.Load(ctx))
	_, err := s.Update(ctx, Patch{"slogan": []byte(`"Aus Redis"`)})
	require.NoError(t, err)

	again := New(NewRedisPersister(client, config.DefaultStorageNamespace), logger.NewNoOpLogger())
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, "Aus Redis", again.Get().Slogan)
}

func TestNewPersister(t *testing.T) {
	p, err := NewPersister(config.StorageConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryPersister{}, p)

	dir := t.TempDir()
	p, err = NewPersister(config.StorageConfig{Backend: "file", FileDir: dir, Namespace: "site"}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site.json"), p.(*FilePersister).Path())

	_, err = NewPersister(config.StorageConfig{Backend: "redis"}, nil)
	assert.Error(t, err)

	_, err = NewPersister(config.StorageConfig{Backend: "s3"}, nil)
	assert.Error(t, err)
}
