// Package eval holds the evaluation-side value types: ground truth,
// questions, per-query records, and batch summaries.
package eval

import (
	"time"

	"github.com/nyaya-cloud/nyaya/internal/normalize"
)

// GroundTruth is the externally supplied expected answer and/or expected
// relevant document identifiers for one query. Used only for evaluation.
type GroundTruth struct {
	expectedAnswer string
	expectedDocIDs []string
}

// NewGroundTruth creates a ground truth. Document ids are normalized for
// comparison against candidate ids.
func NewGroundTruth(expectedAnswer string, expectedDocIDs []string) GroundTruth {
	return GroundTruth{
		expectedAnswer: expectedAnswer,
		expectedDocIDs: normalize.Tokens(expectedDocIDs),
	}
}

// ExpectedAnswer returns the expected answer text ("" when absent).
func (g GroundTruth) ExpectedAnswer() string { return g.expectedAnswer }

// ExpectedDocIDs returns the normalized expected document ids.
func (g GroundTruth) ExpectedDocIDs() []string { return g.expectedDocIDs }

// HasSignal reports whether at least one ground-truth signal is present.
// Without a signal the judge degrades to "unknown" (counted not relevant).
func (g GroundTruth) HasSignal() bool {
	return g.expectedAnswer != "" || len(g.expectedDocIDs) > 0
}

// ExpectsDoc reports whether the normalized candidate id is expected.
func (g GroundTruth) ExpectsDoc(id string) bool {
	norm := normalize.Token(id)
	for _, want := range g.expectedDocIDs {
		if want == norm {
			return true
		}
	}
	return false
}

// Question is one entry of the evaluation question set.
type Question struct {
	ID         string
	Query      string
	Truth      GroundTruth
	Category   string
	Difficulty string
	Keywords   []string
}

// Stage names a timed retrieval phase.
type Stage string

const (
	StageAnalyze  Stage = "analyze"
	StageLexical  Stage = "lexical"
	StageSemantic Stage = "semantic"
	StageRerank   Stage = "rerank"
	StageTotal    Stage = "total"
)

// RecordParams carries the fields of a per-query evaluation record.
type RecordParams struct {
	QuestionID     string
	Category       string
	PrecisionAt1   float64
	PrecisionAt3   float64
	PrecisionAt5   float64
	ReciprocalRank float64
	RecallAtK      float64
	RetrievedCount int
	Relevance      float64
	Faithfulness   float64
	NoGroundTruth  bool
	Latencies      map[Stage]time.Duration

	// DocRelevance maps each retrieved document id to its judged relevance
	// (1 relevant, 0 not). Batch aggregation derives per-document means
	// from it.
	DocRelevance map[string]float64
}

// Record is one query's evaluation result, immutable after creation.
type Record struct {
	p RecordParams
}

// NewRecord creates an evaluation record. The latency map is copied so the
// record stays immutable even if the caller reuses its map.
func NewRecord(p RecordParams) Record {
	if p.Latencies != nil {
		lat := make(map[Stage]time.Duration, len(p.Latencies))
		for k, v := range p.Latencies {
			lat[k] = v
		}
		p.Latencies = lat
	}
	if p.DocRelevance != nil {
		rel := make(map[string]float64, len(p.DocRelevance))
		for k, v := range p.DocRelevance {
			rel[k] = v
		}
		p.DocRelevance = rel
	}
	return Record{p: p}
}

func (r Record) QuestionID() string      { return r.p.QuestionID }
func (r Record) Category() string        { return r.p.Category }
func (r Record) PrecisionAt1() float64   { return r.p.PrecisionAt1 }
func (r Record) PrecisionAt3() float64   { return r.p.PrecisionAt3 }
func (r Record) PrecisionAt5() float64   { return r.p.PrecisionAt5 }
func (r Record) ReciprocalRank() float64 { return r.p.ReciprocalRank }
func (r Record) RecallAtK() float64      { return r.p.RecallAtK }
func (r Record) RetrievedCount() int     { return r.p.RetrievedCount }
func (r Record) Relevance() float64      { return r.p.Relevance }
func (r Record) Faithfulness() float64   { return r.p.Faithfulness }
func (r Record) NoGroundTruth() bool     { return r.p.NoGroundTruth }

// DocRelevance returns a copy of the per-document relevance flags.
func (r Record) DocRelevance() map[string]float64 {
	out := make(map[string]float64, len(r.p.DocRelevance))
	for k, v := range r.p.DocRelevance {
		out[k] = v
	}
	return out
}

// Latency returns the recorded duration for one stage (0 when absent).
func (r Record) Latency(s Stage) time.Duration { return r.p.Latencies[s] }

// Latencies returns a copy of the stage latency samples.
func (r Record) Latencies() map[Stage]time.Duration {
	out := make(map[Stage]time.Duration, len(r.p.Latencies))
	for k, v := range r.p.Latencies {
		out[k] = v
	}
	return out
}

// CategorySummary aggregates the records of one question category.
type CategorySummary struct {
	Questions          int
	MeanPrecisionAt5   float64
	MeanReciprocalRank float64
	MeanRecallAtK      float64
}

// BatchSummary aggregates a batch evaluation run. Failed evaluations are
// excluded from every mean and counted separately.
type BatchSummary struct {
	Evaluated         int
	Failed            int
	MeanPrecisionAt1  float64
	MeanPrecisionAt3  float64
	MeanPrecisionAt5  float64
	MeanReciprocal    float64
	MeanRecallAtK     float64
	MeanRelevance     float64
	MeanFaithfulness  float64
	HallucinationRate float64
	NoGroundTruthRate float64
	LatencyP50        time.Duration
	LatencyP95        time.Duration
	ByCategory        map[string]CategorySummary
	DocMeanRelevance  map[string]float64
}
