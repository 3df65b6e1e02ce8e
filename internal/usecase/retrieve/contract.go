package retrieve

import (
	"context"

	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
)

// Source produces ordered scored candidates for a query. A failing source
// returns an error; the retriever treats errors as empty candidate sets.
type Source interface {
	Retrieve(ctx context.Context, query string, k int) ([]candidate.Candidate, error)
}

// Reranker orders the filtered candidate pool by final blended score.
type Reranker interface {
	Rerank(ctx context.Context, cands []candidate.Candidate, processedQuery string, topK int) []rank.Result
}
