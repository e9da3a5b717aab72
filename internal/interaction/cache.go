package interaction

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

// Cache keeps one diagram per key (typically section name plus diagram
// type). Concurrent requests for a missing key share a single computation.
type Cache struct {
	Spec SweepSpec

	mu       sync.RWMutex
	diagrams map[string]*Diagram
	group    singleflight.Group
}

// NewCache returns an empty cache computing diagrams with spec
func NewCache(spec SweepSpec) *Cache {
	return &Cache{Spec: spec, diagrams: make(map[string]*Diagram)}
}

// Get returns the diagram stored under key, computing it from sec if needed.
// Failed computations are not stored.
func (o *Cache) Get(ctx context.Context, key string, sec *fiber.Section) (*Diagram, error) {
	o.mu.RLock()
	d, ok := o.diagrams[key]
	o.mu.RUnlock()
	if ok {
		return d, nil
	}
	v, err, _ := o.group.Do(key, func() (interface{}, error) {
		d, err := ComputeDiagram(ctx, sec, o.Spec)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.diagrams[key] = d
		o.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Diagram), nil
}

// Len returns the number of cached diagrams
func (o *Cache) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.diagrams)
}
