// Package answer assembles retrieved excerpts into a bounded context
// and hands it, with the question, to an answer generator.
package answer

import (
	"fmt"
	"strings"

	"docrag/internal/domain"
)

// DefaultSystemPrompt is the instruction used when none is configured.
const DefaultSystemPrompt = "You are a helpful assistant answering questions about the provided documents. " +
	"Use the provided excerpts to answer the user's question accurately and thoroughly. " +
	"If the excerpts don't contain enough information, say so."

// BuildContext concatenates excerpts in retrieval order, each prefixed
// with a 1-based ordinal label. Deterministic: the same results always
// produce the same string.
func BuildContext(results []domain.RetrievalResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Here are relevant excerpts from the documents:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n[Excerpt %d]\n%s\n", i+1, r.Text)
	}
	return b.String()
}

// BuildPrompt combines the assembled context with the original question.
func BuildPrompt(question, context string) string {
	if context == "" {
		return "Question: " + question
	}
	return context + "\nQuestion: " + question
}
