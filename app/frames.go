// Package app wires the domain operations: ingestion, statistics,
// model training, scenarios, projects, and the audit trail.
package app

import (
	"context"

	"orion/domain/core"
	"orion/internal/frame"
	"orion/ports"
)

// FrameLoader fronts the on-disk frame store with the LRU cache
type FrameLoader struct {
	cache *frame.Cache
	store ports.FrameStore
}

// NewFrameLoader creates a loader over the given cache and store
func NewFrameLoader(cache *frame.Cache, store ports.FrameStore) *FrameLoader {
	return &FrameLoader{cache: cache, store: store}
}

// Load returns the frame for a dataset, hitting the cache first
func (l *FrameLoader) Load(ctx context.Context, id core.DatasetID) (*frame.Frame, error) {
	if f, ok := l.cache.Get(id); ok {
		return f, nil
	}
	f, err := l.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	l.cache.Put(id, f)
	return f, nil
}

// Put seeds the cache, used right after ingestion
func (l *FrameLoader) Put(id core.DatasetID, f *frame.Frame) {
	l.cache.Put(id, f)
}

// Invalidate drops a dataset from the cache
func (l *FrameLoader) Invalidate(id core.DatasetID) {
	l.cache.Invalidate(id)
}
