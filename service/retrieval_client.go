package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"tivuchprep-backend/models"
)

const (
	retrievalCacheTTL     = 5 * time.Minute
	retrievalCacheMax     = 100
	retrievalMaxAttempts  = 2
	retrievalFirstBackoff = time.Second
)

type retrievalCacheEntry struct {
	blocks    []models.LegalBlock
	createdAt time.Time
}

// retrievalCache memoizes retrieval responses for a short TTL. Eviction is
// FIFO by insertion time, not LRU: the cache exists to absorb bursts of
// identical questions, not to model popularity.
type retrievalCache struct {
	mu      sync.Mutex
	entries map[string]retrievalCacheEntry
	order   []string
	ttl     time.Duration
	max     int
	now     func() time.Time
}

func newRetrievalCache(ttl time.Duration, max int) *retrievalCache {
	return &retrievalCache{
		entries: make(map[string]retrievalCacheEntry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

func (c *retrievalCache) get(key string) ([]models.LegalBlock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.dropFromOrder(key)
		return nil, false
	}
	return entry.blocks, true
}

func (c *retrievalCache) put(key string, blocks []models.LegalBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Overwrites restart the key's age, so it moves to the back of the
	// eviction order.
	if _, exists := c.entries[key]; exists {
		c.dropFromOrder(key)
	}
	c.order = append(c.order, key)
	c.entries[key] = retrievalCacheEntry{blocks: blocks, createdAt: c.now()}
	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// dropFromOrder removes key from the eviction order. Callers hold c.mu.
func (c *retrievalCache) dropFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// RetrieveRequest is the wire request of the passage-retrieval endpoint.
type RetrieveRequest struct {
	Question      string `json:"question"`
	DocID         string `json:"doc_id"`
	MaxBlocks     int    `json:"max_blocks"`
	SectionFilter string `json:"section_filter,omitempty"`
}

// RetrieveResponse is the wire response of the passage-retrieval endpoint.
type RetrieveResponse struct {
	Blocks []models.LegalBlock `json:"blocks"`
}

// RetrievalClient fetches relevant text blocks for a question from the
// passage-retrieval service, behind a short-TTL cache and a circuit breaker
// shared by all concurrent requests.
type RetrievalClient struct {
	endpoint   string
	httpClient *http.Client
	cache      *retrievalCache
	breaker    *CircuitBreaker
	sleep      func(time.Duration) // injectable for tests
}

// NewRetrievalClient creates a client for the given retrieval endpoint.
// A nil breaker gets the default thresholds.
func NewRetrievalClient(endpoint string, breaker *CircuitBreaker) *RetrievalClient {
	if breaker == nil {
		breaker = NewCircuitBreaker(breakerFailureThreshold, breakerCoolDown)
	}
	return &RetrievalClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      newRetrievalCache(retrievalCacheTTL, retrievalCacheMax),
		breaker:    breaker,
		sleep:      time.Sleep,
	}
}

// Breaker exposes the shared circuit breaker (used by health reporting).
func (rc *RetrievalClient) Breaker() *CircuitBreaker {
	return rc.breaker
}

// retrievalCacheKey encodes the request parameters into a cache key. The
// unit separator keeps free-text questions from colliding with the other
// fields.
func retrievalCacheKey(question, docID string, maxBlocks int, sectionFilter string) string {
	return fmt.Sprintf("%s\x1f%s\x1f%d\x1f%s", question, docID, maxBlocks, sectionFilter)
}

// Retrieve fetches up to maxBlocks relevant blocks for the question.
// Cached responses (including explicit empty ones, so genuinely unanswerable
// questions do not hammer the service) are returned without a network call.
// When the breaker is open it fails fast with ErrServiceUnavailable.
func (rc *RetrievalClient) Retrieve(ctx context.Context, question, docID string, maxBlocks int, sectionFilter string) ([]models.LegalBlock, error) {
	key := retrievalCacheKey(question, docID, maxBlocks, sectionFilter)
	if blocks, ok := rc.cache.get(key); ok {
		return blocks, nil
	}

	if !rc.breaker.Allow() {
		return nil, ErrServiceUnavailable
	}

	var lastErr error
	backoff := retrievalFirstBackoff
	for attempt := 0; attempt < retrievalMaxAttempts; attempt++ {
		if attempt > 0 {
			rc.sleep(backoff)
			backoff *= 2
		}

		blocks, err := rc.call(ctx, RetrieveRequest{
			Question:      question,
			DocID:         docID,
			MaxBlocks:     maxBlocks,
			SectionFilter: sectionFilter,
		})
		if err == nil {
			rc.breaker.RecordSuccess()
			rc.cache.put(key, blocks)
			return blocks, nil
		}

		lastErr = err
		if !isTransient(err) {
			break
		}
	}

	rc.breaker.RecordFailure()
	return nil, lastErr
}

func (rc *RetrievalClient) call(ctx context.Context, reqBody RetrieveRequest) ([]models.LegalBlock, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", rc.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "retrieval", Message: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Retrieval service error: status %d, body: %s", resp.StatusCode, string(body))
		return nil, newProviderError("retrieval", resp.StatusCode, string(body))
	}

	var apiResp RetrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode retrieval response: %w", err)
	}
	return apiResp.Blocks, nil
}
