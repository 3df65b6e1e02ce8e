package rerank

import (
	"regexp"
	"strings"
)

// Heuristic scoring bonuses. The values are tuned against the evaluation
// question set; changing them changes result order.
const (
	phraseMatchBonus     = 2.0
	wordOverlapWeight    = 1.5
	sectionPatternBonus  = 0.5
	criminalDocTypeBonus = 0.8
)

var contentSectionPattern = regexp.MustCompile(`(?i)section\s+\d+`)

// criminalCueWords trigger the document-type bonus for penal and procedure
// code documents.
var criminalCueWords = []string{"criminal", "police", "arrest", "bail"}

// heuristicScore computes the lexical legal-domain relevance signal for one
// document against a cleaned, lowercased query. It is pure and total.
func heuristicScore(content, documentType, processedQuery string) float64 {
	if processedQuery == "" {
		return 0
	}
	lowered := strings.ToLower(content)

	var score float64
	if strings.Contains(lowered, processedQuery) {
		score += phraseMatchBonus
	}

	words := strings.Fields(processedQuery)
	if len(words) > 0 {
		matches := 0
		for _, w := range words {
			if strings.Contains(lowered, w) {
				matches++
			}
		}
		score += float64(matches) / float64(len(words)) * wordOverlapWeight
	}

	if contentSectionPattern.MatchString(content) {
		score += sectionPatternBonus
	}

	if documentType == "criminal_code" || documentType == "procedure_code" {
		for _, cue := range criminalCueWords {
			if strings.Contains(processedQuery, cue) {
				score += criminalDocTypeBonus
				break
			}
		}
	}

	return score
}

// normalizeScores min-max normalizes into [0,1]. When all scores are equal
// the spread is zero and every normalized score is 0.
func normalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	out := make([]float64, len(scores))
	if hi == lo {
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}
