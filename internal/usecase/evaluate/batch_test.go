package evaluate

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain/eval"
)

func TestEvaluateBatchFailureDoesNotAbort(t *testing.T) {
	s := newHarness(&stubRetriever{results: ranked("a", "b")})
	questions := []eval.Question{
		question("q1", "first query", eval.NewGroundTruth("", []string{"a"})),
		question("q2", "", eval.NewGroundTruth("", []string{"a"})), // fails
		question("q3", "third query", eval.NewGroundTruth("", []string{"a"})),
	}

	summary := s.EvaluateBatch(context.Background(), questions)
	if summary.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Evaluated != 2 {
		t.Fatalf("Evaluated = %d, want 2", summary.Evaluated)
	}
	// Both surviving questions found "a" at rank 1.
	if summary.MeanPrecisionAt1 != 1.0 {
		t.Errorf("MeanPrecisionAt1 = %v, want 1.0 over the 2 successes", summary.MeanPrecisionAt1)
	}
}

func TestEvaluateBatchEmptyQuestionSet(t *testing.T) {
	s := newHarness(&stubRetriever{})
	summary := s.EvaluateBatch(context.Background(), nil)
	if summary.Evaluated != 0 || summary.Failed != 0 {
		t.Fatalf("empty batch: %+v", summary)
	}
	if summary.MeanPrecisionAt5 != 0 {
		t.Errorf("empty batch mean = %v, want 0", summary.MeanPrecisionAt5)
	}
}

func TestEvaluateBatchCategoryBreakdown(t *testing.T) {
	s := newHarness(&stubRetriever{results: ranked("a")})
	questions := []eval.Question{
		{ID: "q1", Query: "one", Truth: eval.NewGroundTruth("", []string{"a"}), Category: "criminal"},
		{ID: "q2", Query: "two", Truth: eval.NewGroundTruth("", []string{"a"}), Category: "criminal"},
		{ID: "q3", Query: "three", Truth: eval.NewGroundTruth("", []string{"zzz"}), Category: "family"},
	}

	summary := s.EvaluateBatch(context.Background(), questions)
	criminal, ok := summary.ByCategory["criminal"]
	if !ok || criminal.Questions != 2 {
		t.Fatalf("criminal category = %+v", criminal)
	}
	if criminal.MeanPrecisionAt5 != 1.0 {
		t.Errorf("criminal MeanPrecisionAt5 = %v, want 1.0", criminal.MeanPrecisionAt5)
	}
	family := summary.ByCategory["family"]
	if family.Questions != 1 || family.MeanPrecisionAt5 != 0 {
		t.Errorf("family category = %+v", family)
	}
}

func TestEvaluateBatchNoGroundTruthRate(t *testing.T) {
	s := newHarness(&stubRetriever{results: ranked("a")})
	questions := []eval.Question{
		question("q1", "one", eval.NewGroundTruth("", []string{"a"})),
		question("q2", "two", eval.NewGroundTruth("", nil)),
	}

	summary := s.EvaluateBatch(context.Background(), questions)
	if summary.NoGroundTruthRate != 0.5 {
		t.Errorf("NoGroundTruthRate = %v, want 0.5", summary.NoGroundTruthRate)
	}
}

func TestEvaluateBatchHallucinationRate(t *testing.T) {
	// Faithfulness 0.3 for every question: all count as hallucinations.
	s := New(stubAnalyzer{}, &stubRetriever{results: ranked("a")}, nil,
		&stubScorer{relevance: 0.9, faithfulness: 0.3}, 10, 2, zap.NewNop())
	questions := []eval.Question{
		question("q1", "one", eval.NewGroundTruth("answer", []string{"a"})),
		question("q2", "two", eval.NewGroundTruth("answer", []string{"a"})),
	}

	summary := s.EvaluateBatch(context.Background(), questions)
	if summary.HallucinationRate != 1.0 {
		t.Errorf("HallucinationRate = %v, want 1.0", summary.HallucinationRate)
	}
}

func TestEvaluateBatchDocMeanRelevance(t *testing.T) {
	s := newHarness(&stubRetriever{results: ranked("a", "b")})
	questions := []eval.Question{
		question("q1", "one", eval.NewGroundTruth("", []string{"a"})),
		question("q2", "two", eval.NewGroundTruth("", []string{"a", "b"})),
	}

	summary := s.EvaluateBatch(context.Background(), questions)
	if got := summary.DocMeanRelevance["a"]; got != 1.0 {
		t.Errorf("doc a mean relevance = %v, want 1.0", got)
	}
	if got := summary.DocMeanRelevance["b"]; got != 0.5 {
		t.Errorf("doc b mean relevance = %v, want 0.5", got)
	}
}

func TestPercentile(t *testing.T) {
	samples := []time.Duration{
		50 * time.Millisecond,
		10 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}
	if got := percentile(samples, 0.5); got != 30*time.Millisecond {
		t.Errorf("p50 = %v, want 30ms", got)
	}
	if got := percentile(samples, 0.95); got != 50*time.Millisecond {
		t.Errorf("p95 = %v, want 50ms", got)
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("empty sample percentile = %v, want 0", got)
	}
}
