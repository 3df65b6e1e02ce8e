// Package judge decides candidate relevance and scores generated answers.
// Both judges are heuristic approximations used only for evaluation
// reporting, never for production ranking.
package judge

import (
	"strings"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/domain/eval"
)

// shortAnswerLimit is the length at or below which the expected answer must
// appear as a whole word; tiny fragments like "302" or "yes" would otherwise
// match almost any legal text.
const shortAnswerLimit = 3

// IsRelevant reports whether a retrieved document is relevant to the ground
// truth. Checks run in precedence order, first match wins:
// expected document id, expected answer containment, metadata relevance
// marker. Without any ground-truth signal the result is always false.
func IsRelevant(doc domain.Document, truth eval.GroundTruth) bool {
	if truth.ExpectsDoc(doc.ID()) {
		return true
	}

	if answer := truth.ExpectedAnswer(); answer != "" {
		content := strings.ToLower(doc.Content())
		needle := strings.ToLower(strings.TrimSpace(answer))
		if len(needle) <= shortAnswerLimit {
			if containsWord(content, needle) {
				return true
			}
		} else if strings.Contains(content, needle) {
			return true
		}
	}

	if doc.Metadata().RelevanceMarker > 0 {
		return true
	}
	return false
}

// containsWord reports whether needle appears in text delimited by
// non-alphanumeric characters.
func containsWord(text, needle string) bool {
	if needle == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
