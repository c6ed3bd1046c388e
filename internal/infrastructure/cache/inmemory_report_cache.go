package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
)

type entry struct {
	report    billingapp.BillingReportResponse
	expiresAt time.Time
}

// InMemoryReportCache implements ReportCache with a map.
// It only suits single-instance deployments and tests.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache creates the cache and starts its cleanup goroutine
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries:  make(map[uuid.UUID]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached view of report id
func (c *InMemoryReportCache) Get(_ context.Context, id uuid.UUID) (*billingapp.BillingReportResponse, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	report := e.report
	return &report, true, nil
}

// Set stores a copy of report
func (c *InMemoryReportCache) Set(_ context.Context, report *billingapp.BillingReportResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[report.ID] = entry{report: *report, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Delete evicts report id
func (c *InMemoryReportCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired ones included
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ billingapp.ReportCache = (*InMemoryReportCache)(nil)
