package negcache_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seokeys/internal/negcache"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
	exp  map[string]time.Duration
	err  error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}, exp: map[string]time.Duration{}}
}

func (m *memStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.data[key], nil
}

func (m *memStorage) Set(key string, val []byte, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = val
	m.exp[key] = exp
	return nil
}

func TestNew_Disabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, negcache.New(nil, time.Minute))
	assert.Nil(t, negcache.New(newMemStorage(), 0))

	var c *negcache.Cache
	assert.False(t, c.RecentlyFailed("https://example.com"))
	assert.NoError(t, c.MarkFailed("https://example.com"))
	assert.Zero(t, c.TTL())
}

func TestCache_MarkFailed(t *testing.T) {
	t.Parallel()

	s := newMemStorage()
	c := negcache.New(s, 10*time.Minute)
	require.NotNil(t, c)

	assert.False(t, c.RecentlyFailed("https://example.com"))
	require.NoError(t, c.MarkFailed("https://example.com"))
	assert.True(t, c.RecentlyFailed("https://example.com"))
	assert.False(t, c.RecentlyFailed("https://example.org"))
	assert.Equal(t, 10*time.Minute, s.exp[negcache.Key("https://example.com")])
}

func TestCache_StorageErrorReadsAsNotFailed(t *testing.T) {
	t.Parallel()

	s := newMemStorage()
	s.err = errors.New("redis down")
	c := negcache.New(s, time.Minute)

	assert.False(t, c.RecentlyFailed("https://example.com"))
	assert.Error(t, c.MarkFailed("https://example.com"))
}

func TestKey(t *testing.T) {
	t.Parallel()

	k := negcache.Key("https://example.com")
	assert.True(t, strings.HasPrefix(k, "seokeys:neg:"))
	assert.Equal(t, k, negcache.Key("https://example.com"))
	assert.NotEqual(t, k, negcache.Key("https://example.com/a"))
}
