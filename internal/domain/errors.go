package domain

import "errors"

// Pipeline errors. Call sites wrap these with %w and callers branch
// with errors.Is; the distinction between expected conditions and
// fatal ones drives the ingestor's skip-vs-abort policy.
var (
	// ErrNotFound indicates a missing file or folder. Expected; the
	// caller decides whether to recover.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates a file extension the segmenter
	// does not recognize. The file is skipped, the folder continues.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidConfig indicates a bad batch budget, bad k, or similar.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingOrder indicates the embedding service violated its
	// ordering contract. Fatal: positional pairing would silently
	// attach vectors to the wrong text.
	ErrEmbeddingOrder = errors.New("embedding order violated")

	// ErrCollectionNotFound indicates a query against a collection that
	// was never ingested. Expected, and distinct from connectivity
	// failures.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollaboratorUnavailable indicates a network or auth failure
	// from the embedding service or vector store. Fatal for the current
	// run; the whole run is safe to retry later.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
