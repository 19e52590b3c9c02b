package wordpress

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// TagCache remembers tag IDs per destination.
type TagCache interface {
	Get(ctx context.Context, destination, name string) (int, bool, error)
	Put(ctx context.Context, destination, name string, id int) error
}

type MemoryTagCache struct {
	mu  sync.RWMutex
	ids map[string]int
}

func NewMemoryTagCache() *MemoryTagCache {
	return &MemoryTagCache{ids: make(map[string]int)}
}

func tagKey(destination, name string) string {
	return strings.ToLower(destination) + "\x00" + strings.ToLower(name)
}

func (m *MemoryTagCache) Get(_ context.Context, destination, name string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.ids[tagKey(destination, name)]
	return id, ok, nil
}

func (m *MemoryTagCache) Put(_ context.Context, destination, name string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[tagKey(destination, name)] = id
	return nil
}

// TagID returns the ID of the tag called name, creating the tag when the
// destination has none.
func (c *Client) TagID(ctx context.Context, cache TagCache, name string) (int, error) {
	if cache != nil {
		id, ok, err := cache.Get(ctx, c.destination.Name, name)
		if err != nil {
			c.logger.Warn("tag cache lookup failed", "tag", name, "error", err)
		} else if ok {
			return id, nil
		}
	}

	tag, err := c.FindTag(ctx, name)
	if err != nil {
		return 0, err
	}
	if tag == nil {
		if tag, err = c.CreateTag(ctx, name); err != nil {
			return 0, err
		}
		c.logger.Debug("tag created", "tag", name, "id", tag.ID)
	}

	if cache != nil {
		if err := cache.Put(ctx, c.destination.Name, name, tag.ID); err != nil {
			c.logger.Warn("tag cache store failed", "tag", name, "error", err)
		}
	}
	return tag.ID, nil
}

// TagIDs resolves every non-empty name in order.
func (c *Client) TagIDs(ctx context.Context, cache TagCache, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		id, err := c.TagID(ctx, cache, name)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
