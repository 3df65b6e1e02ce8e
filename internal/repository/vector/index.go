// Package vector implements the semantic candidate source over an
// in-memory embedding index.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
)

// Source is a nearest-neighbor candidate source over fixed-dimension
// document embeddings held in memory. The index is read-only after Build
// and safe for concurrent use.
type Source struct {
	embed   domain.Embedder
	docs    map[string]domain.Document
	order   []string
	vectors map[string][]float32
	logger  *zap.Logger
}

// Build embeds the corpus and constructs the index. Embedding the corpus is
// the one place where an unavailable provider is fatal: without document
// vectors there is no semantic source to degrade to.
func Build(ctx context.Context, docs []domain.Document, embed domain.Embedder, logger *zap.Logger) (*Source, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content()
	}

	results, err := embed.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(results) != len(docs) {
		return nil, fmt.Errorf("embedded %d of %d documents: %w",
			len(results), len(docs), domain.ErrEmbeddingProviderError)
	}

	byID := make(map[string]domain.Document, len(docs))
	vectors := make(map[string][]float32, len(docs))
	order := make([]string, 0, len(docs))
	for i, d := range docs {
		byID[d.ID()] = d
		vectors[d.ID()] = results[i].Embedding
		order = append(order, d.ID())
	}

	logger.Info("Built vector index", zap.Int("documents", len(order)))
	return &Source{embed: embed, docs: byID, order: order, vectors: vectors, logger: logger}, nil
}

// Retrieve embeds the query and returns the top-k cosine neighbors.
// An embedding failure is returned to the caller, which treats it as an
// empty candidate set.
func (s *Source) Retrieve(ctx context.Context, query string, k int) ([]candidate.Candidate, error) {
	if query == "" || k <= 0 {
		return nil, nil
	}

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w: %w", domain.ErrSourceUnavailable, err)
	}

	type scored struct {
		id    string
		score float64
	}
	scoreds := make([]scored, 0, len(s.order))
	for _, id := range s.order {
		scoreds = append(scoreds, scored{id: id, score: Cosine(res.Embedding, s.vectors[id])})
	}
	sort.SliceStable(scoreds, func(i, j int) bool { return scoreds[i].score > scoreds[j].score })

	if len(scoreds) > k {
		scoreds = scoreds[:k]
	}
	out := make([]candidate.Candidate, 0, len(scoreds))
	for _, sc := range scoreds {
		out = append(out, candidate.New(s.docs[sc.id], sc.score, candidate.Semantic))
	}
	return out, nil
}

// Vector returns the stored embedding for a document id.
func (s *Source) Vector(id string) ([]float32, bool) {
	v, ok := s.vectors[id]
	return v, ok
}

// Cosine computes the cosine similarity of two vectors. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
