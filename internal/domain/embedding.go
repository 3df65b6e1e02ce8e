package domain

import "context"

// EmbeddingResult carries the vector and token usage of one embedding call.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings. Implementations may be
// unavailable at runtime; callers treat any error as "semantic scoring
// unavailable" and degrade rather than fail.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
	EmbedBatch(ctx context.Context, texts []string) ([]EmbeddingResult, error)
}
