// Package ingest drives the write path: segment files, batch units,
// embed batches, and persist embedded units into a collection.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"docrag/internal/batch"
	"docrag/internal/domain"
	"docrag/internal/segment"
)

// Ingestor wires the segmenter and batcher to externally-owned
// collaborators. Collaborator lifecycle belongs to the caller.
type Ingestor struct {
	segmenter *segment.Segmenter
	maxChars  int
	embedder  domain.Embedder
	store     domain.VectorStore
}

func New(seg *segment.Segmenter, maxChars int, embedder domain.Embedder, store domain.VectorStore) *Ingestor {
	if maxChars <= 0 {
		maxChars = batch.DefaultMaxChars
	}
	return &Ingestor{segmenter: seg, maxChars: maxChars, embedder: embedder, store: store}
}

// Run ingests every eligible file under folder into the named
// collection, creating it on first write. Files are visited in
// lexicographic order so ids stay stable across runs. A failure on one
// file is recorded in the summary and does not abort siblings, except
// collaborator unavailability and embedding-order violations, which
// abort the run: partial writes under an unreachable store risk silent
// gaps. Already-written files stay persisted either way.
func (in *Ingestor) Run(ctx context.Context, folder, collectionName string) (domain.IngestSummary, error) {
	var summary domain.IngestSummary

	files, err := eligibleFiles(folder)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		return summary, nil
	}

	col, err := in.store.GetOrCreateCollection(ctx, collectionName)
	if err != nil {
		return summary, err
	}

	for _, path := range files {
		embedded, batches, dropped, err := in.ingestFile(ctx, folder, path)
		summary.UnitsFiltered += dropped
		if err != nil {
			summary.Failures = append(summary.Failures, domain.FileError{File: path, Err: err})
			if fatal(err) {
				return summary, err
			}
			continue
		}
		if len(embedded) == 0 {
			summary.FilesProcessed++
			continue
		}
		if err := col.Add(ctx, embedded); err != nil {
			summary.Failures = append(summary.Failures, domain.FileError{File: path, Err: err})
			if fatal(err) {
				return summary, err
			}
			continue
		}
		summary.FilesProcessed++
		summary.UnitsEmbedded += len(embedded)
		summary.BatchesSent += batches
	}
	return summary, nil
}

// ingestFile runs one file through segment -> batch -> embed and pairs
// vectors with units positionally. A batch is the atomic unit of work:
// either fully embedded or the file is treated as failed.
func (in *Ingestor) ingestFile(ctx context.Context, folder, path string) ([]domain.EmbeddedUnit, int, int, error) {
	units, dropped, err := in.segmenter.Segment(path)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(units) == 0 {
		return nil, 0, dropped, nil
	}
	batches, err := batch.Split(units, in.maxChars)
	if err != nil {
		return nil, 0, dropped, err
	}

	stem := fileStem(path)
	source, relErr := filepath.Rel(folder, path)
	if relErr != nil {
		source = path
	}

	embedded := make([]domain.EmbeddedUnit, 0, len(units))
	for _, b := range batches {
		texts := make([]string, len(b.Units))
		for i, u := range b.Units {
			texts[i] = u.Text
		}
		vectors, err := in.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, 0, dropped, err
		}
		if len(vectors) != len(b.Units) {
			return nil, 0, dropped, fmt.Errorf("got %d vectors for %d units: %w",
				len(vectors), len(b.Units), domain.ErrEmbeddingOrder)
		}
		for i, u := range b.Units {
			embedded = append(embedded, domain.EmbeddedUnit{
				ID:     stem + "::" + strconv.Itoa(u.Index),
				Unit:   u,
				Vector: vectors[i],
				Metadata: domain.Metadata{
					Filename:       filepath.Base(path),
					ParagraphIndex: u.Index,
					Source:         source,
				},
			})
		}
	}
	return embedded, len(batches), dropped, nil
}

// eligibleFiles lists segmentable regular files in lexicographic order.
// Files with other extensions are not the ingestor's to reject; they
// are simply not eligible.
func eligibleFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", folder, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".csv":
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func fatal(err error) bool {
	return errors.Is(err, domain.ErrCollaboratorUnavailable) ||
		errors.Is(err, domain.ErrEmbeddingOrder) ||
		errors.Is(err, domain.ErrInvalidConfig)
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
