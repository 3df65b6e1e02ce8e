package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
)

type flakyEmbedder struct {
	fail  bool
	calls int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.fail {
		return domain.EmbeddingResult{}, errors.New("provider down")
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

func (f *flakyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("provider down")
	}
	out := make([]domain.EmbeddingResult, len(texts))
	for i := range texts {
		out[i] = domain.EmbeddingResult{Embedding: []float32{1, 0}}
	}
	return out, nil
}

func TestBreakerPassesThroughOnSuccess(t *testing.T) {
	inner := &flakyEmbedder{}
	b := NewBreaker(inner, 3, time.Minute, zap.NewNop())

	res, err := b.Embed(context.Background(), "section 302 ipc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 2 {
		t.Fatalf("expected embedding, got %v", res.Embedding)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyEmbedder{fail: true}
	b := NewBreaker(inner, 3, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := b.Embed(context.Background(), "q"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	callsBefore := inner.calls

	_, err := b.Embed(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError while open, got %v", err)
	}
	if inner.calls != callsBefore {
		t.Fatalf("open breaker must not reach the provider, calls went %d -> %d", callsBefore, inner.calls)
	}
}

func TestBreakerBatchIndependentOfSingle(t *testing.T) {
	inner := &flakyEmbedder{fail: true}
	b := NewBreaker(inner, 2, time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, _ = b.Embed(context.Background(), "q")
	}
	// The single-call breaker is open but the batch breaker still reaches
	// the provider.
	callsBefore := inner.calls
	if _, err := b.EmbedBatch(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected provider error")
	}
	if inner.calls != callsBefore+1 {
		t.Fatalf("batch breaker should still forward, calls %d -> %d", callsBefore, inner.calls)
	}
}
