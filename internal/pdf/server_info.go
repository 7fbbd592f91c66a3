package pdf

import (
	"sync"
	"time"
)

// DirectoryCache provides TTL-based caching for report listings
type DirectoryCache struct {
	entries map[string]*CacheEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

// CacheEntry represents a cached directory scan result
type CacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]*CacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves cached directory contents if valid
func (c *DirectoryCache) Get(path string) ([]FileInfo, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists {
		return nil, 0, false
	}

	age := c.now().Sub(entry.lastUpdate)
	if age > c.ttl {
		return nil, 0, false
	}
	return entry.files, age, true
}

// Set stores directory contents in cache
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = &CacheEntry{
		files:      files,
		lastUpdate: c.now(),
	}
}

// Clear removes expired entries from cache
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for path, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > c.ttl {
			delete(c.entries, path)
		}
	}
}

// ServerInfo answers server info requests from a cached report listing
type ServerInfo struct {
	cache   *DirectoryCache
	service *Service
}

// NewServerInfo creates a server info handler with a five minute cache
func NewServerInfo(service *Service) *ServerInfo {
	return &ServerInfo{
		cache:   NewDirectoryCache(5 * time.Minute),
		service: service,
	}
}

// GetServerInfo describes the server and the reports found in its directory
func (p *ServerInfo) GetServerInfo(serverName, version string) (*ServerInfoResult, error) {
	dir := p.service.Directory()

	files, age, cached := p.cache.Get(dir)
	if !cached {
		var err error
		files, err = p.service.FindReports("")
		if err != nil {
			return nil, err
		}
		p.cache.Set(dir, files)
	}

	result := &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       p.service.MaxFileSize(),
		DirectoryContents: files,
		FromCache:         cached,
		CacheAge:          age,
		ReportCounts:      make(map[string]int),
	}
	for _, f := range files {
		result.ReportCounts[f.Kind]++
	}
	return result, nil
}

// Invalidate drops every cached listing
func (p *ServerInfo) Invalidate() {
	p.cache.mu.Lock()
	defer p.cache.mu.Unlock()
	p.cache.entries = make(map[string]*CacheEntry)
}
