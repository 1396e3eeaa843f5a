package segment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSegment_ParagraphMode(t *testing.T) {
	path := writeFile(t, "talk.txt", "Alpha paragraph text here.\n\nBeta paragraph text here.")

	units, dropped, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Zero(t, dropped)

	assert.Equal(t, "Alpha paragraph text here.", units[0].Text)
	assert.Equal(t, "Beta paragraph text here.", units[1].Text)
	assert.Equal(t, 0, units[0].Index)
	assert.Equal(t, 1, units[1].Index)
	assert.Equal(t, path, units[0].SourceFile)
}

func TestSegment_ParagraphMode_BlankLinesWithSpaces(t *testing.T) {
	path := writeFile(t, "talk.txt", "First paragraph goes here.\n   \nSecond paragraph goes here.")

	units, _, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 2)
}

func TestSegment_LineMode(t *testing.T) {
	path := writeFile(t, "talk.txt", "First line with enough text.\nSecond line with enough text.\n")

	units, _, err := New(ModeLine, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Second line with enough text.", units[1].Text)
}

func TestSegment_FiltersShortAndLong(t *testing.T) {
	long := strings.Repeat("x", MaxUnitChars)
	path := writeFile(t, "talk.txt",
		"tiny\n\nThis candidate is long enough to keep.\n\n"+long)

	units, dropped, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "This candidate is long enough to keep.", units[0].Text)
	assert.Equal(t, 2, dropped)

	// Filter bounds are exclusive on both ends.
	for _, u := range units {
		assert.Greater(t, len(u.Text), MinUnitChars)
		assert.Less(t, len(u.Text), MaxUnitChars)
	}
}

func TestSegment_IndexCountsKeptUnitsOnly(t *testing.T) {
	path := writeFile(t, "talk.txt", "skip\n\nThe first kept paragraph here.\n\nThe second kept paragraph here.")

	units, _, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, 0, units[0].Index)
	assert.Equal(t, 1, units[1].Index)
}

func TestSegment_CSVJoinsNonEmptyCells(t *testing.T) {
	path := writeFile(t, "clients.csv",
		"Ada Lovelace,,ada@example.com,London\nshort,,\n")

	units, dropped, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Ada Lovelace ada@example.com London", units[0].Text)
	assert.Equal(t, 1, dropped)
}

func TestSegment_EmptyFileYieldsNoUnitsNoError(t *testing.T) {
	path := writeFile(t, "empty.txt", "")

	units, dropped, err := New(ModeParagraph, 0, 0).Segment(path)
	require.NoError(t, err)
	assert.Empty(t, units)
	assert.Zero(t, dropped)
}

func TestSegment_MissingFile(t *testing.T) {
	_, _, err := New(ModeParagraph, 0, 0).Segment(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSegment_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "talk.pdf", "irrelevant")

	_, _, err := New(ModeParagraph, 0, 0).Segment(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}
