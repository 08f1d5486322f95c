package server

import (
	"sync"
	"time"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/platform"
)

// throwKey identifies a simulated throw. Two requests with the same key
// always produce the same trajectory.
type throwKey struct {
	Config    config.Config
	Screen    platform.Bounds
	Window    platform.Geometry
	HasV      bool
	VX, VY    float64
	Samples   string
	FrameMs   int
	MaxFrames int
}

type cacheEntry struct {
	traj      model.Trajectory
	timestamp time.Time
}

// TrajectoryCache is a TTL cache of simulated throws.
type TrajectoryCache struct {
	mu      sync.Mutex
	entries map[throwKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewTrajectoryCache creates a new cache. A ttl of 0 disables caching.
func NewTrajectoryCache(ttl time.Duration) *TrajectoryCache {
	return &TrajectoryCache{
		entries: make(map[throwKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached trajectory for key, or runs simulate and caches
// its result.
func (c *TrajectoryCache) Get(key throwKey, simulate func() (model.Trajectory, error)) (model.Trajectory, bool, error) {
	if c.ttl == 0 {
		t, err := simulate()
		return t, false, err
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.mu.Unlock()
		return entry.traj, true, nil
	}
	c.mu.Unlock()

	t, err := simulate()
	if err != nil {
		return model.Trajectory{}, false, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{traj: t, timestamp: c.now()}
	c.mu.Unlock()
	return t, false, nil
}

// Len returns the number of cached entries, expired ones included.
func (c *TrajectoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InvalidateAll clears the entire cache.
func (c *TrajectoryCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[throwKey]cacheEntry)
}
