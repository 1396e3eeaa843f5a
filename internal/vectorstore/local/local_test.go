package local

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/domain"
)

func unit(id, text string, vector []float32) domain.EmbeddedUnit {
	return domain.EmbeddedUnit{
		ID:       id,
		Unit:     domain.Unit{Text: text},
		Vector:   vector,
		Metadata: domain.Metadata{Filename: "f.txt", Source: "f.txt"},
	}
}

func TestGetCollection_NotFound(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)

	_, err = s.GetCollection(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))
}

func TestGetOrCreate_ThenGet(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	ctx := context.Background()

	created, err := s.GetOrCreateCollection(ctx, "talks")
	require.NoError(t, err)
	assert.Equal(t, "talks", created.Name())

	got, err := s.GetCollection(ctx, "talks")
	require.NoError(t, err)
	assert.Equal(t, "talks", got.Name())
}

func TestQuery_RanksBestFirstAndBoundsK(t *testing.T) {
	s, _ := NewStore("")
	ctx := context.Background()
	col, _ := s.GetOrCreateCollection(ctx, "talks")

	require.NoError(t, col.Add(ctx, []domain.EmbeddedUnit{
		unit("a::0", "north", []float32{0, 1}),
		unit("a::1", "east", []float32{1, 0}),
		unit("a::2", "northeast", []float32{1, 1}),
	}))

	results, err := col.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "east", results[0].Text)
	assert.Equal(t, "northeast", results[1].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	// k larger than the collection is an upper bound, not a guarantee.
	results, err = col.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQuery_InvalidK(t *testing.T) {
	s, _ := NewStore("")
	ctx := context.Background()
	col, _ := s.GetOrCreateCollection(ctx, "talks")

	_, err := col.Query(ctx, []float32{1}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestAdd_SameIDOverwrites(t *testing.T) {
	s, _ := NewStore("")
	ctx := context.Background()
	col, _ := s.GetOrCreateCollection(ctx, "talks")

	require.NoError(t, col.Add(ctx, []domain.EmbeddedUnit{unit("a::0", "old", []float32{1, 0})}))
	require.NoError(t, col.Add(ctx, []domain.EmbeddedUnit{unit("a::0", "new", []float32{1, 0})}))

	n, err := col.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := col.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", results[0].Text)
}

func TestAdd_DuplicateIDsInOneCall(t *testing.T) {
	s, _ := NewStore("")
	ctx := context.Background()
	col, _ := s.GetOrCreateCollection(ctx, "talks")

	err := col.Add(ctx, []domain.EmbeddedUnit{
		unit("a::0", "one", []float32{1}),
		unit("a::0", "two", []float32{1}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestPersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewStore(dir)
	require.NoError(t, err)
	col, _ := s1.GetOrCreateCollection(ctx, "talks")
	require.NoError(t, col.Add(ctx, []domain.EmbeddedUnit{
		unit("a::0", "persisted text", []float32{0.5, 0.5}),
	}))

	// A fresh store over the same directory sees the collection.
	s2, err := NewStore(dir)
	require.NoError(t, err)
	reopened, err := s2.GetCollection(ctx, "talks")
	require.NoError(t, err)

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := reopened.Query(ctx, []float32{0.5, 0.5}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "persisted text", results[0].Text)
	assert.Equal(t, "f.txt", results[0].Metadata.Filename)
}

func TestInMemory_NothingOnDisk(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("")
	require.NoError(t, err)
	col, _ := s.GetOrCreateCollection(ctx, "talks")
	require.NoError(t, col.Add(ctx, []domain.EmbeddedUnit{unit("a::0", "ephemeral", []float32{1})}))

	s2, err := NewStore("")
	require.NoError(t, err)
	_, err = s2.GetCollection(ctx, "talks")
	assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))
}
