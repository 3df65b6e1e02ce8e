// Package embedding provides decorators around the embedding provider.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
)

// BreakerEmbedder wraps an embedder with a circuit breaker so that a dead
// provider fails fast instead of costing a timeout per query. Callers treat
// the fast failure like any other embedding error and degrade to
// heuristic-only scoring.
type BreakerEmbedder struct {
	inner  domain.Embedder
	single *gobreaker.CircuitBreaker[domain.EmbeddingResult]
	batch  *gobreaker.CircuitBreaker[[]domain.EmbeddingResult]
	logger *zap.Logger
}

// NewBreaker creates a circuit breaker decorator. The breaker opens after
// maxFailures consecutive failures and half-opens after openTimeout.
func NewBreaker(inner domain.Embedder, maxFailures uint32, openTimeout time.Duration, logger *zap.Logger) *BreakerEmbedder {
	settings := gobreaker.Settings{
		Name:    "embedding",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerEmbedder{
		inner:  inner,
		single: gobreaker.NewCircuitBreaker[domain.EmbeddingResult](settings),
		batch:  gobreaker.NewCircuitBreaker[[]domain.EmbeddingResult](settings),
		logger: logger,
	}
}

// Embed implements domain.Embedder.
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := b.single.Execute(func() (domain.EmbeddingResult, error) {
		return b.inner.Embed(ctx, text)
	})
	if err != nil {
		return domain.EmbeddingResult{}, wrapBreakerErr(err)
	}
	return res, nil
}

// EmbedBatch implements domain.Embedder.
func (b *BreakerEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	res, err := b.batch.Execute(func() ([]domain.EmbeddingResult, error) {
		return b.inner.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return nil, wrapBreakerErr(err)
	}
	return res, nil
}

func wrapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("embedding breaker open: %w", domain.ErrEmbeddingProviderError)
	}
	return err
}
