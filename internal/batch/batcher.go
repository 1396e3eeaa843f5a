// Package batch groups units into embedding-call batches bounded by a
// character budget.
package batch

import (
	"fmt"

	"docrag/internal/domain"
)

// DefaultMaxChars bounds the summed text length of one embedding call.
const DefaultMaxChars = 600000

// Split greedily accumulates units into batches of at most maxChars
// summed text length, preserving order. A single unit longer than the
// budget forms its own one-element batch rather than being dropped or
// split mid-unit. Zero units yield zero batches.
func Split(units []domain.Unit, maxChars int) ([]domain.Batch, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max batch chars %d: %w", maxChars, domain.ErrInvalidConfig)
	}
	var (
		batches []domain.Batch
		current domain.Batch
	)
	for _, u := range units {
		if len(current.Units) > 0 && current.Chars+len(u.Text) > maxChars {
			batches = append(batches, current)
			current = domain.Batch{}
		}
		current.Units = append(current.Units, u)
		current.Chars += len(u.Text)
	}
	if len(current.Units) > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}
