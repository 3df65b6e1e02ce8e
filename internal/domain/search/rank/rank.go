// Package rank holds the final ranked result value type.
package rank

import "github.com/nyaya-cloud/nyaya/internal/domain"

// Result is one entry of the final ranked list. Ranks are 1-based and
// strictly increase as the final score descends; ties keep first-seen order.
type Result struct {
	doc   domain.Document
	score float64
	rank  int
}

// New creates a ranked result.
func New(doc domain.Document, score float64, rank int) Result {
	return Result{doc: doc, score: score, rank: rank}
}

// Document returns the ranked document.
func (r Result) Document() domain.Document { return r.doc }

// Score returns the blended final score.
func (r Result) Score() float64 { return r.score }

// Rank returns the 1-based position.
func (r Result) Rank() int { return r.rank }
