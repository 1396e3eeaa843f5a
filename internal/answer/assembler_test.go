package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docrag/internal/domain"
)

func TestBuildContext_LabelsExcerptsInOrder(t *testing.T) {
	results := []domain.RetrievalResult{
		{Text: "First excerpt body.", Score: 0.9},
		{Text: "Second excerpt body.", Score: 0.4},
	}

	got := BuildContext(results)
	want := "Here are relevant excerpts from the documents:\n" +
		"\n[Excerpt 1]\nFirst excerpt body.\n" +
		"\n[Excerpt 2]\nSecond excerpt body.\n"
	assert.Equal(t, want, got)
}

func TestBuildContext_Deterministic(t *testing.T) {
	results := []domain.RetrievalResult{{Text: "Only one."}}
	assert.Equal(t, BuildContext(results), BuildContext(results))
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Why?", "CONTEXT\n")
	assert.Equal(t, "CONTEXT\n\nQuestion: Why?", got)

	assert.Equal(t, "Question: Why?", BuildPrompt("Why?", ""))
}
