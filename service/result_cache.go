package service

import "sync"

// ResultCache memoizes the final citation string per exact question text for
// the lifetime of the browsing session. No TTL and no bound: session question
// sets are at most tens of cards.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewResultCache creates an empty session cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]string)}
}

// Get returns the cached citation for the question, if any.
func (c *ResultCache) Get(questionText string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[questionText]
	return value, ok
}

// Put stores the final citation for the question.
func (c *ResultCache) Put(questionText, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[questionText] = value
}

// Len reports the number of cached citations.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
