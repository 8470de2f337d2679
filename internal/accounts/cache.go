// ===============================
// File: internal/accounts/cache.go
// ===============================
package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached account snapshot stays fresh.
const DefaultTTL = 10 * time.Second

type cacheEntry struct {
	account *Account
	expires time.Time
}

// CachedSource memoizes another Source with a per-entry TTL. It is an
// optional layer, never a source of truth: an expired entry is a miss and
// last write wins. Reads hold only a read lock, so populating one key never
// blocks concurrent reads of others.
type CachedSource struct {
	inner  Source
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[solana.PublicKey]cacheEntry
	group   singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

func NewCachedSource(inner Source, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		logger:  logger.Named("account-cache"),
		entries: make(map[solana.PublicKey]cacheEntry),
		now:     time.Now,
	}
}

// Fetch returns a fresh cached snapshot, or fetches through to the inner
// source. Concurrent misses on the same address share one underlying fetch.
func (c *CachedSource) Fetch(ctx context.Context, address solana.PublicKey) (*Account, error) {
	if acc, ok := c.lookup(address); ok {
		return acc, nil
	}

	v, err, shared := c.group.Do(address.String(), func() (interface{}, error) {
		// Re-check: another caller may have populated the entry while this
		// one waited on the flight group.
		if acc, ok := c.lookup(address); ok {
			return acc, nil
		}

		acc, err := c.inner.Fetch(ctx, address)
		if err != nil {
			return nil, err
		}
		c.store(address, acc)
		return acc, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug("shared in-flight fetch", zap.String("address", address.String()))
	}
	return v.(*Account), nil
}

func (c *CachedSource) lookup(address solana.PublicKey) (*Account, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[address]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.account, true
}

func (c *CachedSource) store(address solana.PublicKey, acc *Account) {
	c.mu.Lock()
	c.entries[address] = cacheEntry{account: acc, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops one cached entry.
func (c *CachedSource) Invalidate(address solana.PublicKey) {
	c.mu.Lock()
	delete(c.entries, address)
	c.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (c *CachedSource) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[solana.PublicKey]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of entries currently held, fresh or expired.
func (c *CachedSource) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
