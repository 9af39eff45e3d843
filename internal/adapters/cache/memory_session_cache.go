package cache

import (
	"context"
	"sync"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
)

// MemorySessionCache keeps session state in process memory. It backs the
// degraded local-only mode (no Redis configured) and doubles as the test
// fake; state does not survive a restart.
type MemorySessionCache struct {
	mu        sync.Mutex
	states    map[string]ports.SessionState
	progress  map[string]ports.SavedProgress
	snapshots map[string]*domain.RouteSnapshot
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{
		states:    make(map[string]ports.SessionState),
		progress:  make(map[string]ports.SavedProgress),
		snapshots: make(map[string]*domain.RouteSnapshot),
	}
}

func (c *MemorySessionCache) SaveState(ctx context.Context, driverID string, state ports.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[driverID] = state
	return nil
}

func (c *MemorySessionCache) LoadState(ctx context.Context, driverID string) (*ports.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[driverID]
	if !ok {
		return nil, nil
	}
	out := state
	return &out, nil
}

func (c *MemorySessionCache) SaveProgress(ctx context.Context, driverID string, p ports.SavedProgress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress[driverID] = p
	return nil
}

func (c *MemorySessionCache) LoadProgress(ctx context.Context, driverID string) (ports.SavedProgress, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.progress[driverID]
	return p, ok, nil
}

func (c *MemorySessionCache) ClearProgress(ctx context.Context, driverID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.progress, driverID)
	return nil
}

func (c *MemorySessionCache) SaveSnapshot(ctx context.Context, driverID string, snap *domain.RouteSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[driverID] = snap
	return nil
}

func (c *MemorySessionCache) LoadSnapshot(ctx context.Context, driverID string) (*domain.RouteSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[driverID], nil
}
