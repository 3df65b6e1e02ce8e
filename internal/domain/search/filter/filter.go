// Package filter implements metadata filtering of retrieval candidates.
package filter

import (
	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/normalize"
)

// MatchMode combines the results of the individual predicates.
type MatchMode string

const (
	// MatchAll requires every present predicate to pass.
	MatchAll MatchMode = "all"
	// MatchAny requires at least one present predicate to pass. A spec with
	// no predicates still passes everything (never vacuously false).
	MatchAny MatchMode = "any"
)

// ParseMatchMode maps a raw string to a MatchMode. Unknown input falls back
// to MatchAll ("precise" semantics); the bool result reports whether the
// input was recognized so the caller can log the misconfiguration.
func ParseMatchMode(raw string) (MatchMode, bool) {
	switch MatchMode(raw) {
	case MatchAll:
		return MatchAll, true
	case MatchAny:
		return MatchAny, true
	case "":
		return MatchAll, true
	default:
		return MatchAll, false
	}
}

// Spec is a validated metadata filter. Values are normalized once at
// construction; matching is exact token equality, never substring, so
// section "41" cannot match "141".
type Spec struct {
	documentType string
	topics       []string
	sections     []string
	acts         []string
	mode         MatchMode
}

// NewSpec creates a filter spec, normalizing all predicate values.
func NewSpec(documentType string, topics, sections, acts []string, mode MatchMode) Spec {
	if mode != MatchAny {
		mode = MatchAll
	}
	return Spec{
		documentType: normalize.Token(documentType),
		topics:       normalize.Tokens(topics),
		sections:     normalize.Sections(sections),
		acts:         normalize.Tokens(acts),
		mode:         mode,
	}
}

// Empty returns a spec that matches every document.
func Empty() Spec { return Spec{mode: MatchAll} }

// DocumentType returns the document type predicate value ("" when absent).
func (s Spec) DocumentType() string { return s.documentType }

// Topics returns the topic predicate values.
func (s Spec) Topics() []string { return s.topics }

// Sections returns the normalized section predicate values.
func (s Spec) Sections() []string { return s.sections }

// Acts returns the normalized act predicate values.
func (s Spec) Acts() []string { return s.acts }

// Mode returns the match mode.
func (s Spec) Mode() MatchMode { return s.mode }

// IsEmpty reports whether no predicate is present.
func (s Spec) IsEmpty() bool {
	return s.documentType == "" &&
		len(s.topics) == 0 && len(s.sections) == 0 && len(s.acts) == 0
}

// Matches evaluates the spec against a document's normalized metadata.
// A spec with no predicates always passes.
func (s Spec) Matches(meta domain.Metadata) bool {
	if s.IsEmpty() {
		return true
	}

	type outcome struct{ present, pass bool }
	predicates := []outcome{
		{s.documentType != "", s.documentType == normalize.Token(meta.DocumentType)},
		{len(s.topics) > 0, anyIn(s.topics, meta.HasTopic)},
		{len(s.sections) > 0, anyIn(s.sections, meta.HasSection)},
		{len(s.acts) > 0, anyIn(s.acts, meta.HasAct)},
	}

	if s.mode == MatchAny {
		for _, p := range predicates {
			if p.present && p.pass {
				return true
			}
		}
		return false
	}

	for _, p := range predicates {
		if p.present && !p.pass {
			return false
		}
	}
	return true
}

func anyIn(wanted []string, has func(string) bool) bool {
	for _, w := range wanted {
		if has(w) {
			return true
		}
	}
	return false
}

// Apply filters candidate documents, preserving input order.
func Apply(docs []domain.Document, s Spec) []domain.Document {
	if s.IsEmpty() {
		return docs
	}
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if s.Matches(d.Metadata()) {
			out = append(out, d)
		}
	}
	return out
}
