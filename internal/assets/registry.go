// Package assets provides pluggable, type-keyed binary asset extractors
// over the engine document graph. Extractors are independent of one
// another, share no mutable state and may run concurrently.
package assets

import (
	"context"
	"sync"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// Extractor locates and pulls raw bytes plus identity for one asset
// type. Metadata enrichment, storage and indexing happen downstream.
type Extractor interface {
	// Type is the asset type this extractor produces.
	Type() schema.AssetType

	// ExtractAssets walks the document and returns every asset of the
	// extractor's type within the requested slide range.
	ExtractAssets(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions) ([]schema.AssetResult, error)
}

// Registry maps asset types to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[schema.AssetType]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[schema.AssetType]Extractor)}
}

// Register registers an extractor under its own type. A later
// registration for the same type replaces the earlier one.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Type()] = e
}

// Get returns the extractor for an asset type, if registered.
func (r *Registry) Get(t schema.AssetType) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[t]
	return e, ok
}

// Types returns the registered asset types.
func (r *Registry) Types() []schema.AssetType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schema.AssetType, 0, len(r.extractors))
	for t := range r.extractors {
		out = append(out, t)
	}
	return out
}

// Len returns the number of registered extractors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.extractors)
}

// DefaultRegistry holds the built-in extractors, populated by the
// extractor files' init functions.
var DefaultRegistry = NewRegistry()

// Register registers an extractor with the default registry.
func Register(e Extractor) {
	DefaultRegistry.Register(e)
}
