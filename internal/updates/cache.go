// Package updates coordinates update checking, caching, pending
// tracking, and installation on top of the winget runner.
package updates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// Error variables for cache errors
var (
	// ErrCacheCorrupted is returned when the cache file cannot be parsed
	ErrCacheCorrupted = errors.New("cache file is corrupted")
)

// DefaultCacheTTL is the default time-to-live for a cached upgrade
// report (1 hour)
const DefaultCacheTTL = time.Hour

// cacheFile represents the JSON structure stored on disk
type cacheFile struct {
	Report    *winget.UpgradeReport `json:"report"`
	Timestamp time.Time             `json:"timestamp"`
}

// Cache persists the most recent upgrade report with TTL-based
// expiration. Checking updates shells out to winget, which is slow, so
// repeat checks within the TTL are served from here.
type Cache struct {
	// TTL is the time-to-live for the cached report
	TTL time.Duration

	report    *winget.UpgradeReport
	timestamp time.Time
	path      string
	mu        sync.RWMutex
	// nowFunc allows injecting time for testing
	nowFunc func() time.Time
}

// CacheOption is a functional option for configuring Cache
type CacheOption func(*Cache)

// WithTTL sets a custom TTL for the cache
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.TTL = ttl
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowFunc = fn
	}
}

// NewCache creates or loads a cache from disk. A missing cache file
// yields an empty cache; a corrupted one is discarded and overwritten
// on the next Set.
func NewCache(stateDir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		TTL:     DefaultCacheTTL,
		path:    filepath.Join(stateDir, "cache.json"),
		nowFunc: time.Now,
	}

	for _, opt := range opts {
		opt(cache)
	}

	if err := cache.load(); err != nil && !os.IsNotExist(err) {
		cache.report = nil
	}

	return cache, nil
}

// load reads the cache from disk
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}

	c.report = cf.Report
	c.timestamp = cf.Timestamp
	return nil
}

// Get returns the cached upgrade report if present and not expired.
func (c *Cache) Get() (*winget.UpgradeReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil {
		return nil, false
	}
	if c.nowFunc().Sub(c.timestamp) >= c.TTL {
		return nil, false
	}
	return c.report, true
}

// Age returns how old the cached report is. Returns zero when the cache
// is empty.
func (c *Cache) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil {
		return 0
	}
	return c.nowFunc().Sub(c.timestamp)
}

// Set stores an upgrade report with the current timestamp and persists
// it to disk.
func (c *Cache) Set(report *winget.UpgradeReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.timestamp = c.nowFunc()
	return c.saveUnsafe()
}

// Clear removes the cached report and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
	c.timestamp = time.Time{}
	return c.saveUnsafe()
}

// saveUnsafe persists the cache to disk without locking.
// Caller must hold the write lock.
func (c *Cache) saveUnsafe() error {
	cf := cacheFile{
		Report:    c.report,
		Timestamp: c.timestamp,
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}
