package retrieve

import (
	"sort"

	"github.com/nyaya-cloud/nyaya/internal/domain/search/candidate"
)

// fuseWeighted merges lexical and semantic candidate lists under fixed
// source weights and deduplicates by document id. When both sources return
// the same document, the higher weighted score wins. The result is ordered
// by weighted score descending, ties kept in lexical-before-semantic input
// order.
func fuseWeighted(lexical, semantic []candidate.Candidate, lexicalWeight, semanticWeight float64) []candidate.Candidate {
	merged := make([]candidate.Candidate, 0, len(lexical)+len(semantic))
	for i := range lexical {
		merged = append(merged, lexical[i].Rescored(lexical[i].Score()*lexicalWeight))
	}
	for i := range semantic {
		merged = append(merged, semantic[i].Rescored(semantic[i].Score()*semanticWeight))
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Score() > merged[b].Score()
	})

	seen := make(map[string]struct{}, len(merged))
	out := merged[:0]
	for i := range merged {
		id := merged[i].Document().ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, merged[i])
	}
	return out
}
