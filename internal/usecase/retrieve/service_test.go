package retrieve

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/filter"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/rank"
)

type stubSource struct {
	cands []candidate.Candidate
	err   error
	wideK []int
}

func (s *stubSource) Retrieve(ctx context.Context, query string, k int) ([]candidate.Candidate, error) {
	s.wideK = append(s.wideK, k)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.cands) > k {
		return s.cands[:k], nil
	}
	return s.cands, nil
}

// passthroughReranker keeps pool order so tests observe the retriever's own
// merge and filter behavior.
type passthroughReranker struct{}

func (passthroughReranker) Rerank(ctx context.Context, cands []candidate.Candidate, query string, topK int) []rank.Result {
	if topK > 0 && topK < len(cands) {
		cands = cands[:topK]
	}
	out := make([]rank.Result, len(cands))
	for i := range cands {
		out[i] = rank.New(cands[i].Document(), cands[i].Score(), i+1)
	}
	return out
}

func cand(id string, score float64, origin candidate.Origin, meta domain.Metadata) candidate.Candidate {
	return candidate.New(domain.NewDocument(id, "content "+id, meta), score, origin)
}

func defaultOpts() Options {
	return Options{
		LexicalWeight:  0.4,
		SemanticWeight: 0.6,
		NarrowK:        10,
		WideK:          200,
		TopK:           5,
		SourceTimeout:  time.Second,
	}
}

func TestRetrieveNeverReturnsDuplicateIDs(t *testing.T) {
	lex := &stubSource{cands: []candidate.Candidate{
		cand("shared", 0.9, candidate.Lexical, domain.Metadata{}),
		cand("lexonly", 0.5, candidate.Lexical, domain.Metadata{}),
	}}
	sem := &stubSource{cands: []candidate.Candidate{
		cand("shared", 0.8, candidate.Semantic, domain.Metadata{}),
		cand("semonly", 0.7, candidate.Semantic, domain.Metadata{}),
	}}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	results, _ := s.Retrieve(context.Background(), "q", filter.Empty(), 10)
	seen := map[string]bool{}
	for i := range results {
		id := results[i].Document().ID()
		if seen[id] {
			t.Fatalf("duplicate document id %q in results", id)
		}
		seen[id] = true
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 distinct documents", len(results))
	}
}

func TestRetrieveKeepsHigherScoreOnDuplicate(t *testing.T) {
	// Weighted: lexical 0.9*0.4 = 0.36, semantic 0.8*0.6 = 0.48.
	lex := &stubSource{cands: []candidate.Candidate{cand("shared", 0.9, candidate.Lexical, domain.Metadata{})}}
	sem := &stubSource{cands: []candidate.Candidate{
		cand("shared", 0.8, candidate.Semantic, domain.Metadata{}),
		cand("other", 0.1, candidate.Semantic, domain.Metadata{}),
	}}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	results, _ := s.Retrieve(context.Background(), "q", filter.Empty(), 10)
	if results[0].Document().ID() != "shared" {
		t.Fatalf("expected shared doc first, got %q", results[0].Document().ID())
	}
	if got := results[0].Score(); got < 0.47 || got > 0.49 {
		t.Fatalf("kept score %v, want the higher weighted score 0.48", got)
	}
}

func TestRetrieveBothSourcesFailReturnsEmpty(t *testing.T) {
	lex := &stubSource{err: errors.New("lexical down")}
	sem := &stubSource{err: errors.New("semantic down")}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	results, _ := s.Retrieve(context.Background(), "q", filter.Empty(), 10)
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(results))
	}
}

func TestRetrieveWidePassOnSparseNarrowPass(t *testing.T) {
	lex := &stubSource{cands: []candidate.Candidate{cand("only", 0.9, candidate.Lexical, domain.Metadata{})}}
	sem := &stubSource{}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	_, stats := s.Retrieve(context.Background(), "q", filter.Empty(), 10)
	if !stats.WidePass {
		t.Fatal("expected wide pass with a single distinct document")
	}
	if len(lex.wideK) != 2 || lex.wideK[0] != 10 || lex.wideK[1] != 200 {
		t.Fatalf("source saw k values %v, want [10 200]", lex.wideK)
	}
}

func TestRetrieveAppliesMetadataFilter(t *testing.T) {
	lex := &stubSource{cands: []candidate.Candidate{
		cand("tagged", 0.5, candidate.Lexical, domain.Metadata{Sections: []string{"302"}, DocumentType: "criminal_code"}),
		cand("untagged", 0.9, candidate.Lexical, domain.Metadata{}),
	}}
	sem := &stubSource{}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	spec := filter.NewSpec("", nil, []string{"302"}, nil, filter.MatchAll)
	results, _ := s.Retrieve(context.Background(), "q", spec, 10)
	if len(results) != 1 || results[0].Document().ID() != "tagged" {
		t.Fatalf("filter must keep only the tagged document, got %d results", len(results))
	}
}

func TestRetrieveCapsAtTopK(t *testing.T) {
	var cands []candidate.Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		cands = append(cands, cand(id, 0.5, candidate.Lexical, domain.Metadata{}))
	}
	lex := &stubSource{cands: cands}
	sem := &stubSource{}
	s := New(lex, sem, passthroughReranker{}, defaultOpts(), zap.NewNop())

	// topK <= 0 falls back to the configured default of 5.
	results, _ := s.Retrieve(context.Background(), "q", filter.Empty(), 0)
	if len(results) != 5 {
		t.Fatalf("got %d results, want configured TopK of 5", len(results))
	}
}

func TestFuseWeightedOrdersByWeightedScore(t *testing.T) {
	lex := []candidate.Candidate{cand("l", 1.0, candidate.Lexical, domain.Metadata{})}
	sem := []candidate.Candidate{cand("s", 0.9, candidate.Semantic, domain.Metadata{})}

	// 1.0*0.4 = 0.40 < 0.9*0.6 = 0.54: semantic first.
	fused := fuseWeighted(lex, sem, 0.4, 0.6)
	if len(fused) != 2 || fused[0].Document().ID() != "s" {
		t.Fatalf("fused order wrong: %v first", fused[0].Document().ID())
	}
}
