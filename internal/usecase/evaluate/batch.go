package evaluate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nyaya-cloud/nyaya/internal/domain/eval"
)

type outcome struct {
	record eval.Record
	err    error
}

// EvaluateBatch evaluates every question with a bounded worker pool and
// aggregates the results. A single question's failure is recorded and
// excluded from the means; it never aborts the batch. The summary is
// invariant to completion order because outcomes are aggregated by question
// index.
func (s *Service) EvaluateBatch(ctx context.Context, questions []eval.Question) eval.BatchSummary {
	outcomes := make([]outcome, len(questions))

	g := &errgroup.Group{}
	g.SetLimit(s.concurrency)
	for i := range questions {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i].err = fmt.Errorf("evaluation panic: %v", r)
				}
			}()
			rec, err := s.EvaluateSingle(ctx, questions[i])
			outcomes[i] = outcome{record: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return s.aggregate(questions, outcomes)
}

func (s *Service) aggregate(questions []eval.Question, outcomes []outcome) eval.BatchSummary {
	summary := eval.BatchSummary{
		ByCategory:       make(map[string]eval.CategorySummary),
		DocMeanRelevance: make(map[string]float64),
	}

	var (
		p1Sum, p3Sum, p5Sum, rrSum, recallSum float64
		relSum, faithSum                      float64
		hallucinated, noTruth                 int
		totals                                []time.Duration
		catRecords                            = make(map[string][]eval.Record)
		docSums                               = make(map[string]float64)
		docCounts                             = make(map[string]int)
	)

	for i := range outcomes {
		if outcomes[i].err != nil {
			summary.Failed++
			s.logger.Error("Question evaluation failed",
				zap.String("question_id", questions[i].ID),
				zap.Error(outcomes[i].err),
			)
			continue
		}
		rec := outcomes[i].record
		summary.Evaluated++

		p1Sum += rec.PrecisionAt1()
		p3Sum += rec.PrecisionAt3()
		p5Sum += rec.PrecisionAt5()
		rrSum += rec.ReciprocalRank()
		recallSum += rec.RecallAtK()
		relSum += rec.Relevance()
		faithSum += rec.Faithfulness()
		if rec.Faithfulness() < 0.5 {
			hallucinated++
		}
		if rec.NoGroundTruth() {
			noTruth++
		}
		if total := rec.Latency(eval.StageTotal); total > 0 {
			totals = append(totals, total)
		}
		catRecords[rec.Category()] = append(catRecords[rec.Category()], rec)
		for id, rel := range rec.DocRelevance() {
			docSums[id] += rel
			docCounts[id]++
		}
	}

	if summary.Evaluated > 0 {
		n := float64(summary.Evaluated)
		summary.MeanPrecisionAt1 = p1Sum / n
		summary.MeanPrecisionAt3 = p3Sum / n
		summary.MeanPrecisionAt5 = p5Sum / n
		summary.MeanReciprocal = rrSum / n
		summary.MeanRecallAtK = recallSum / n
		summary.MeanRelevance = relSum / n
		summary.MeanFaithfulness = faithSum / n
		summary.HallucinationRate = float64(hallucinated) / n
		summary.NoGroundTruthRate = float64(noTruth) / n
	}

	summary.LatencyP50 = percentile(totals, 0.50)
	summary.LatencyP95 = percentile(totals, 0.95)

	for cat, recs := range catRecords {
		var p5, rr, recall float64
		for i := range recs {
			p5 += recs[i].PrecisionAt5()
			rr += recs[i].ReciprocalRank()
			recall += recs[i].RecallAtK()
		}
		n := float64(len(recs))
		summary.ByCategory[cat] = eval.CategorySummary{
			Questions:          len(recs),
			MeanPrecisionAt5:   p5 / n,
			MeanReciprocalRank: rr / n,
			MeanRecallAtK:      recall / n,
		}
	}

	for id, sum := range docSums {
		summary.DocMeanRelevance[id] = sum / float64(docCounts[id])
	}

	return summary
}
