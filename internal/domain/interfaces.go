package domain

import "context"

// Embedder converts a batch of texts into vectors of fixed dimensionality.
// Implementations must return vectors in input order; a violated ordering
// contract surfaces as ErrEmbeddingOrder.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
}

// VectorStore hands out named collections of embedded units.
type VectorStore interface {
	// GetOrCreateCollection creates the collection on first use.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)
	// GetCollection fails with ErrCollectionNotFound when the name is absent.
	GetCollection(ctx context.Context, name string) (Collection, error)
}

// Collection persists embedded units and answers nearest-neighbor queries.
type Collection interface {
	Name() string
	// Add writes units in one call. IDs must be unique within the call;
	// a unit whose ID already exists in the collection is overwritten.
	Add(ctx context.Context, units []EmbeddedUnit) error
	// Query returns at most k results, ordered best-first.
	Query(ctx context.Context, vector []float32, k int) ([]RetrievalResult, error)
	Count(ctx context.Context) (int, error)
}
