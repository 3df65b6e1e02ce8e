package evaluate

import (
	"context"

	"github.com/nyaya-cloud/nyaya/internal/domain/query"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/filter"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
	"github.com/nyaya-cloud/nyaya/internal/usecase/retrieve"
)

// Analyzer turns raw query text into a structured analysis.
type Analyzer interface {
	Analyze(raw string) query.Analysis
}

// Retriever is the production retrieval entry point under evaluation.
type Retriever interface {
	Retrieve(ctx context.Context, query string, spec filter.Spec, topK int) ([]rank.Result, retrieve.Stats)
}

// Answerer generates an answer from a query and its retrieved sources. It
// stands in for the answer-generation chain, which lives outside this
// subsystem; evaluation runs fall back to scoring the expected answer when
// no Answerer is wired.
type Answerer interface {
	Answer(ctx context.Context, query string, sources []rank.Result) (string, error)
}

// AnswerScorer grades an answer's relevance and source faithfulness in [0,1].
type AnswerScorer interface {
	ScoreRelevance(ctx context.Context, question, answer string) float64
	ScoreFaithfulness(ctx context.Context, answer, sourceContext string) float64
}
