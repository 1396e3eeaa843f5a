// Package retrieve drives the query path: embed a question and fetch
// the most similar stored units.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"docrag/internal/domain"
)

// DefaultTopK matches the original corpus bots.
const DefaultTopK = 5

// Retriever embeds questions and queries a collection. No retry is
// attempted here; retry policy belongs to the caller.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

func New(embedder domain.Embedder, store domain.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns at most k excerpts ranked best-first. A missing
// collection fails with ErrCollectionNotFound; an existing collection
// with no matches (or a blank question) returns an empty result and no
// error.
func (r *Retriever) Retrieve(ctx context.Context, question, collectionName string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k %d: %w", k, domain.ErrInvalidConfig)
	}
	col, err := r.store.GetCollection(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, nil
	}
	vectors, err := r.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("got %d vectors for one question: %w", len(vectors), domain.ErrEmbeddingOrder)
	}
	results, err := col.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}
	// k is an upper bound even if a store over-returns.
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
