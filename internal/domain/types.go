package domain

// Unit is a segment of source text eligible for embedding.
type Unit struct {
	Text       string
	SourceFile string
	Index      int
}

// Batch is an ordered run of units whose summed text length fits the
// batcher's character budget. A single oversized unit still forms its
// own one-element batch.
type Batch struct {
	Units []Unit
	Chars int
}

// Metadata travels with every stored unit and comes back with query hits.
type Metadata struct {
	Filename       string `json:"filename"`
	ParagraphIndex int    `json:"paragraph_index"`
	Source         string `json:"source"`
}

// EmbeddedUnit pairs a unit with its vector and its stable identity.
// ID has the form "{source_file_stem}::{index_in_file}", so re-ingesting
// the same file overwrites rather than duplicates.
type EmbeddedUnit struct {
	ID       string
	Unit     Unit
	Vector   []float32
	Metadata Metadata
}

// RetrievalResult is one query hit, ranked best-first by the store.
type RetrievalResult struct {
	Text     string
	Metadata Metadata
	Score    float64
}

// FileError records a per-file ingestion failure that did not abort the run.
type FileError struct {
	File string
	Err  error
}

// IngestSummary accounts for every file and unit touched by an ingestion run.
type IngestSummary struct {
	FilesProcessed int
	UnitsEmbedded  int
	UnitsFiltered  int
	BatchesSent    int
	Failures       []FileError
}
