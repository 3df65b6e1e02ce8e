// Package rerank blends semantic similarity with heuristic legal-domain
// signals to produce the final candidate order.
package rerank

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
	"github.com/nyaya-cloud/nyaya/internal/metrics"
)

// Service reranks retrieval candidates. The embedder and vector lookup are
// optional; without them every rerank is heuristic-only.
type Service struct {
	embed   domain.Embedder
	vectors VectorLookup
	alpha   float64
	logger  *zap.Logger
}

// New creates a reranker. alpha weights the semantic score in the blend and
// must be in (0, 1]; config validation enforces the range.
func New(embed domain.Embedder, vectors VectorLookup, alpha float64, logger *zap.Logger) *Service {
	return &Service{embed: embed, vectors: vectors, alpha: alpha, logger: logger}
}

// Rerank orders candidates by blended score and caps the result at topK.
// When semantic scoring is unavailable it degrades to heuristic-only order;
// either way the result covers every input candidate up to the cap, fully
// ordered with 1-based ranks.
func (s *Service) Rerank(ctx context.Context, cands []candidate.Candidate, processedQuery string, topK int) []rank.Result {
	if len(cands) == 0 {
		return nil
	}

	heuristics := make([]float64, len(cands))
	for i := range cands {
		doc := cands[i].Document()
		heuristics[i] = heuristicScore(doc.Content(), doc.Metadata().DocumentType, processedQuery)
	}

	final, blended := s.blendSemantic(ctx, cands, heuristics, processedQuery)
	if !blended {
		// Heuristic-only fallback: raw heuristic scores, no normalization,
		// so the order is a pure function of content and query.
		final = heuristics
	}

	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return final[order[a]] > final[order[b]]
	})

	if topK > 0 && topK < len(order) {
		order = order[:topK]
	}
	results := make([]rank.Result, len(order))
	for pos, idx := range order {
		results[pos] = rank.New(cands[idx].Document(), final[idx], pos+1)
	}
	return results
}

// blendSemantic computes alpha-blended scores. The second result is false
// when semantic scoring is unavailable and the caller must fall back.
func (s *Service) blendSemantic(ctx context.Context, cands []candidate.Candidate, heuristics []float64, processedQuery string) ([]float64, bool) {
	if s.embed == nil || s.vectors == nil {
		return nil, false
	}

	queryRes, err := s.embed.Embed(ctx, processedQuery)
	if err != nil {
		s.logger.Warn("Semantic scoring unavailable, falling back to heuristic-only rerank", zap.Error(err))
		metrics.RerankFallbackTotal.Inc()
		return nil, false
	}

	normHeuristics := normalizeScores(heuristics)
	final := make([]float64, len(cands))
	for i := range cands {
		var semantic float64
		if vec, ok := s.vectors.Vector(cands[i].Document().ID()); ok {
			semantic = cosine(queryRes.Embedding, vec)
		}
		final[i] = s.alpha*semantic + (1-s.alpha)*normHeuristics[i]
	}
	return final, true
}

// cosine returns the cosine similarity of two vectors, 0 on dimension
// mismatch or zero norm.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
