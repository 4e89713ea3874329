package registry

import "sync"

// Cache memoizes project lookups for the duration of one scan so that
// multiple scanners sharing it fetch each package at most once. Safe for
// concurrent use.
type Cache struct {
	mu       sync.Mutex
	projects map[string]*Project
}

// NewCache creates an empty per-scan cache.
func NewCache() *Cache {
	return &Cache{projects: make(map[string]*Project)}
}

// Get returns the cached project for key, if present.
func (c *Cache) Get(key string) (*Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.projects[key]
	return p, ok
}

// Put stores a project under key.
func (c *Cache) Put(key string, p *Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[key] = p
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.projects)
}
