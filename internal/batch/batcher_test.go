package batch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/domain"
)

func unitsOfLengths(lengths ...int) []domain.Unit {
	units := make([]domain.Unit, len(lengths))
	for i, n := range lengths {
		units[i] = domain.Unit{Text: strings.Repeat("a", n), Index: i}
	}
	return units
}

func TestSplit_GreedyAccumulation(t *testing.T) {
	batches, err := Split(unitsOfLengths(5, 5, 20), 10)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Len(t, batches[0].Units, 2)
	assert.Equal(t, 10, batches[0].Chars)
	// The oversized unit forms its own one-element batch.
	assert.Len(t, batches[1].Units, 1)
	assert.Equal(t, 20, batches[1].Chars)
}

func TestSplit_PreservesOrder(t *testing.T) {
	units := unitsOfLengths(3, 7, 2, 9, 4, 6, 1)
	batches, err := Split(units, 10)
	require.NoError(t, err)

	var flattened []domain.Unit
	for _, b := range batches {
		require.NotEmpty(t, b.Units)
		flattened = append(flattened, b.Units...)
	}
	assert.Equal(t, units, flattened)
}

func TestSplit_BudgetRespectedExceptSingletons(t *testing.T) {
	batches, err := Split(unitsOfLengths(4, 4, 4, 15, 4, 4), 12)
	require.NoError(t, err)

	for _, b := range batches {
		if len(b.Units) > 1 {
			assert.LessOrEqual(t, b.Chars, 12)
		}
	}
}

func TestSplit_ExactFit(t *testing.T) {
	batches, err := Split(unitsOfLengths(5, 5), 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
}

func TestSplit_NoUnitsNoBatches(t *testing.T) {
	batches, err := Split(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestSplit_InvalidBudget(t *testing.T) {
	for _, max := range []int{0, -1} {
		_, err := Split(unitsOfLengths(5), max)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	}
}
