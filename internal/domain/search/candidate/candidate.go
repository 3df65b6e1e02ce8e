// Package candidate holds the per-query scored document value type.
package candidate

import "github.com/nyaya-cloud/nyaya/internal/domain"

// Origin identifies which source produced a candidate.
type Origin string

const (
	// Lexical marks candidates from the term-frequency source.
	Lexical Origin = "lexical"
	// Semantic marks candidates from the embedding source.
	Semantic Origin = "semantic"
)

// Candidate is one retrieved document scored for one query. Candidates are
// never mutated after creation; rescoring produces new values.
type Candidate struct {
	doc    domain.Document
	score  float64
	origin Origin
}

// New creates a candidate.
func New(doc domain.Document, score float64, origin Origin) Candidate {
	return Candidate{doc: doc, score: score, origin: origin}
}

// Rescored returns a copy of c carrying the given score.
func (c Candidate) Rescored(score float64) Candidate {
	return Candidate{doc: c.doc, score: score, origin: c.origin}
}

// Document returns the referenced document.
func (c Candidate) Document() domain.Document { return c.doc }

// Score returns the raw source score.
func (c Candidate) Score() float64 { return c.score }

// Origin returns the producing source.
func (c Candidate) Origin() Origin { return c.origin }
