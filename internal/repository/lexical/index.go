// Package lexical implements the keyword candidate source over an
// in-memory bleve index.
package lexical

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve"
	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
)

// indexedDoc is the shape stored in the bleve index.
type indexedDoc struct {
	Content string `json:"content"`
}

// Source is a term-frequency candidate source backed by bleve BM25.
type Source struct {
	index  bleve.Index
	docs   map[string]domain.Document
	logger *zap.Logger
}

// NewSource builds a mem-only index over the corpus.
func NewSource(docs []domain.Document, logger *zap.Logger) (*Source, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create lexical index: %w", err)
	}

	byID := make(map[string]domain.Document, len(docs))
	for _, doc := range docs {
		if err := index.Index(doc.ID(), indexedDoc{Content: doc.Content()}); err != nil {
			return nil, fmt.Errorf("index document %s: %w", doc.ID(), err)
		}
		byID[doc.ID()] = doc
	}

	logger.Info("Built lexical index", zap.Int("documents", len(byID)))
	return &Source{index: index, docs: byID, logger: logger}, nil
}

// Retrieve returns the top-k keyword matches in score order. Failures are
// returned to the caller, which degrades to an empty candidate set; this
// source never panics.
func (s *Source) Retrieve(ctx context.Context, query string, k int) ([]candidate.Candidate, error) {
	if query == "" || k <= 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), k, 0, false)
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w: %w", domain.ErrSourceUnavailable, err)
	}

	out := make([]candidate.Candidate, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := s.docs[hit.ID]
		if !ok {
			s.logger.Warn("Lexical hit for unknown document", zap.String("id", hit.ID))
			continue
		}
		out = append(out, candidate.New(doc, hit.Score, candidate.Lexical))
	}
	return out, nil
}
