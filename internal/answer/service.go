package answer

import (
	"context"

	"docrag/internal/domain"
	"docrag/internal/retrieve"
)

// Service answers questions against one collection: retrieve, assemble
// the context, generate.
type Service struct {
	retriever    *retrieve.Retriever
	generator    Generator
	collection   string
	topK         int
	systemPrompt string
}

func NewService(retriever *retrieve.Retriever, generator Generator, collection string, topK int, systemPrompt string) *Service {
	if topK <= 0 {
		topK = retrieve.DefaultTopK
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Service{
		retriever:    retriever,
		generator:    generator,
		collection:   collection,
		topK:         topK,
		systemPrompt: systemPrompt,
	}
}

// Ask returns the retrieved excerpts alongside the generated answer so
// callers can show both. No excerpts means no generation call: the
// caller decides how to present an empty retrieval.
func (s *Service) Ask(ctx context.Context, question string) ([]domain.RetrievalResult, string, error) {
	results, err := s.retriever.Retrieve(ctx, question, s.collection, s.topK)
	if err != nil {
		return nil, "", err
	}
	if len(results) == 0 {
		return nil, "", nil
	}
	prompt := BuildPrompt(question, BuildContext(results))
	reply, err := s.generator.Generate(ctx, s.systemPrompt, prompt)
	if err != nil {
		return results, "", err
	}
	return results, reply, nil
}
