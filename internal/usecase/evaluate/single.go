// Package evaluate measures retrieval and answer quality against a ground
// truth question set.
package evaluate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain/eval"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
	"github.com/nyaya-cloud/nyaya/internal/metrics"
	"github.com/nyaya-cloud/nyaya/internal/usecase/judge"
)

// maxSourceContextChars caps the concatenated source text handed to the
// faithfulness scorer.
const maxSourceContextChars = 2000

// Service runs single and batch evaluations.
type Service struct {
	analyzer    Analyzer
	retriever   Retriever
	answerer    Answerer // optional
	scorer      AnswerScorer
	recallK     int
	concurrency int
	logger      *zap.Logger
}

// New creates an evaluation harness. answerer may be nil; the expected
// answer is then scored in place of a generated one.
func New(analyzer Analyzer, retriever Retriever, answerer Answerer, scorer AnswerScorer, recallK, concurrency int, logger *zap.Logger) *Service {
	if recallK <= 0 {
		recallK = 10
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		analyzer:    analyzer,
		retriever:   retriever,
		answerer:    answerer,
		scorer:      scorer,
		recallK:     recallK,
		concurrency: concurrency,
		logger:      logger,
	}
}

// EvaluateSingle evaluates one question. A question without ground truth
// produces a zero-valued record flagged NoGroundTruth, not an error.
func (s *Service) EvaluateSingle(ctx context.Context, q eval.Question) (eval.Record, error) {
	if strings.TrimSpace(q.Query) == "" {
		metrics.EvaluationsTotal.WithLabelValues("failed").Inc()
		return eval.Record{}, fmt.Errorf("question %s: empty query", q.ID)
	}

	latencies := make(map[eval.Stage]time.Duration, 5)

	analyzeStart := time.Now()
	analysis := s.analyzer.Analyze(q.Query)
	latencies[eval.StageAnalyze] = time.Since(analyzeStart)

	results, stats := s.retriever.Retrieve(ctx, analysis.Processed(), analysis.Filter(), 0)
	latencies[eval.StageLexical] = stats.Lexical
	latencies[eval.StageSemantic] = stats.Semantic
	latencies[eval.StageRerank] = stats.Rerank
	latencies[eval.StageTotal] = latencies[eval.StageAnalyze] + stats.Total

	if !q.Truth.HasSignal() {
		metrics.EvaluationsTotal.WithLabelValues("no_ground_truth").Inc()
		s.logger.Warn("Question has no ground truth signal", zap.String("question_id", q.ID))
		return eval.NewRecord(eval.RecordParams{
			QuestionID:     q.ID,
			Category:       q.Category,
			RetrievedCount: len(results),
			NoGroundTruth:  true,
			Latencies:      latencies,
		}), nil
	}

	flags := make([]bool, len(results))
	docRelevance := make(map[string]float64, len(results))
	for i := range results {
		doc := results[i].Document()
		flags[i] = judge.IsRelevant(doc, q.Truth)
		if flags[i] {
			docRelevance[doc.ID()] = 1
		} else {
			docRelevance[doc.ID()] = 0
		}
	}

	relevance, faithfulness := s.scoreAnswer(ctx, q, results)

	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	return eval.NewRecord(eval.RecordParams{
		QuestionID:     q.ID,
		Category:       q.Category,
		PrecisionAt1:   precisionAt(flags, 1),
		PrecisionAt3:   precisionAt(flags, 3),
		PrecisionAt5:   precisionAt(flags, 5),
		ReciprocalRank: reciprocalRank(flags),
		RecallAtK:      s.recallAtK(results, q.Truth),
		RetrievedCount: len(results),
		Relevance:      relevance,
		Faithfulness:   faithfulness,
		Latencies:      latencies,
		DocRelevance:   docRelevance,
	}), nil
}

// precisionAt is the fraction of relevant flags within the first k
// positions, using min(k, len) so short result lists never divide by zero.
func precisionAt(flags []bool, k int) float64 {
	if len(flags) == 0 {
		return 0
	}
	if k > len(flags) {
		k = len(flags)
	}
	relevant := 0
	for _, f := range flags[:k] {
		if f {
			relevant++
		}
	}
	return float64(relevant) / float64(k)
}

// reciprocalRank is 1/rank of the first relevant flag, 0 when none is.
func reciprocalRank(flags []bool) float64 {
	for i, f := range flags {
		if f {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// recallAtK is the fraction of expected documents found within the top
// recallK results, 0 when no expected ids are supplied.
func (s *Service) recallAtK(results []rank.Result, truth eval.GroundTruth) float64 {
	expected := truth.ExpectedDocIDs()
	if len(expected) == 0 {
		return 0
	}
	top := results
	if len(top) > s.recallK {
		top = top[:s.recallK]
	}
	found := make(map[string]struct{}, len(expected))
	for i := range top {
		id := top[i].Document().ID()
		if truth.ExpectsDoc(id) {
			found[id] = struct{}{}
		}
	}
	return float64(len(found)) / float64(len(expected))
}

// scoreAnswer grades the generated answer, or the expected answer when no
// generator is wired or generation fails.
func (s *Service) scoreAnswer(ctx context.Context, q eval.Question, results []rank.Result) (relevance, faithfulness float64) {
	answer := q.Truth.ExpectedAnswer()
	if s.answerer != nil {
		generated, err := s.answerer.Answer(ctx, q.Query, results)
		if err != nil {
			s.logger.Warn("Answer generation failed, scoring expected answer",
				zap.String("question_id", q.ID), zap.Error(err))
		} else {
			answer = generated
		}
	}
	if answer == "" || s.scorer == nil {
		return 0, 0
	}

	sourceContext := buildSourceContext(results)
	return s.scorer.ScoreRelevance(ctx, q.Query, answer),
		s.scorer.ScoreFaithfulness(ctx, answer, sourceContext)
}

func buildSourceContext(results []rank.Result) string {
	var b strings.Builder
	for i := range results {
		if b.Len() >= maxSourceContextChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(results[i].Document().Content())
	}
	out := b.String()
	if len(out) > maxSourceContextChars {
		out = out[:maxSourceContextChars]
	}
	return out
}
