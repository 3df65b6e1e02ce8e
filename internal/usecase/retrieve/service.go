// Package retrieve orchestrates hybrid lexical plus semantic retrieval.
package retrieve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/filter"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
	"github.com/nyaya-cloud/nyaya/internal/metrics"
)

// Options carries the tunable retrieval parameters.
type Options struct {
	LexicalWeight  float64
	SemanticWeight float64
	NarrowK        int
	WideK          int
	TopK           int
	SourceTimeout  time.Duration
}

// Stats reports per-stage wall-clock durations of one retrieval plus whether
// the wide pass ran. Durations cover both passes when the wide pass runs.
type Stats struct {
	Lexical  time.Duration
	Semantic time.Duration
	Rerank   time.Duration
	Total    time.Duration
	WidePass bool
}

// Service is the hybrid retriever. It never returns an error: source
// failures degrade to empty candidate sets and total failure yields an empty
// result list.
type Service struct {
	lexical  Source
	semantic Source
	reranker Reranker
	opts     Options
	logger   *zap.Logger
}

// New creates a hybrid retriever.
func New(lexical, semantic Source, reranker Reranker, opts Options, logger *zap.Logger) *Service {
	return &Service{lexical: lexical, semantic: semantic, reranker: reranker, opts: opts, logger: logger}
}

// Retrieve runs the narrow pass, broadens to the wide pass when fewer than
// two distinct documents survive dedup, applies the metadata filter, and
// hands the pool to the reranker. topK <= 0 uses the configured default.
func (s *Service) Retrieve(ctx context.Context, query string, spec filter.Spec, topK int) ([]rank.Result, Stats) {
	var stats Stats
	start := time.Now()
	defer func() {
		stats.Total = time.Since(start)
		metrics.RetrievalStageDuration.WithLabelValues("total").Observe(stats.Total.Seconds())
	}()

	if topK <= 0 {
		topK = s.opts.TopK
	}

	pool := s.pass(ctx, query, s.opts.NarrowK, &stats)
	if len(pool) < 2 {
		metrics.RetrievalWidePassTotal.Inc()
		stats.WidePass = true
		s.logger.Info("Narrow pass too small, broadening",
			zap.Int("narrow_results", len(pool)),
			zap.Int("wide_k", s.opts.WideK),
		)
		pool = s.pass(ctx, query, s.opts.WideK, &stats)
	}

	filtered := pool[:0:0]
	for i := range pool {
		if spec.Matches(pool[i].Document().Metadata()) {
			filtered = append(filtered, pool[i])
		}
	}

	rerankStart := time.Now()
	results := s.reranker.Rerank(ctx, filtered, query, topK)
	stats.Rerank = time.Since(rerankStart)
	metrics.RetrievalStageDuration.WithLabelValues("rerank").Observe(stats.Rerank.Seconds())

	return results, stats
}

// pass queries both sources at k and fuses the results. A failed source
// contributes an empty list.
func (s *Service) pass(ctx context.Context, query string, k int, stats *Stats) []candidate.Candidate {
	lexStart := time.Now()
	lexical := s.fromSource(ctx, s.lexical, candidate.Lexical, query, k)
	lexDur := time.Since(lexStart)
	stats.Lexical += lexDur
	metrics.RetrievalStageDuration.WithLabelValues("lexical").Observe(lexDur.Seconds())

	semStart := time.Now()
	semantic := s.fromSource(ctx, s.semantic, candidate.Semantic, query, k)
	semDur := time.Since(semStart)
	stats.Semantic += semDur
	metrics.RetrievalStageDuration.WithLabelValues("semantic").Observe(semDur.Seconds())

	return fuseWeighted(lexical, semantic, s.opts.LexicalWeight, s.opts.SemanticWeight)
}

func (s *Service) fromSource(ctx context.Context, src Source, origin candidate.Origin, query string, k int) []candidate.Candidate {
	if src == nil {
		return nil
	}
	if s.opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SourceTimeout)
		defer cancel()
	}
	cands, err := src.Retrieve(ctx, query, k)
	if err != nil {
		metrics.RetrievalSourceFailuresTotal.WithLabelValues(string(origin)).Inc()
		s.logger.Warn("Candidate source failed, treating as empty",
			zap.String("origin", string(origin)),
			zap.Error(err),
		)
		return nil
	}
	return cands
}
