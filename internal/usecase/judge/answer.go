package judge

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// LLMScorer grades answers on a 0 to 1 scale via a language model.
type LLMScorer interface {
	ScoreRelevance(ctx context.Context, question, answer string) (float64, error)
	ScoreFaithfulness(ctx context.Context, answer, sourceContext string) (float64, error)
}

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "and": {},
	"a": {}, "to": {}, "are": {}, "as": {}, "in": {}, "of": {}, "for": {},
}

// AnswerJudge scores generated answers for relevance to the question and
// faithfulness to the retrieved sources. The LLM scorer is optional; without
// it, and whenever it fails, scoring degrades to keyword overlap.
type AnswerJudge struct {
	llm    LLMScorer
	logger *zap.Logger
}

// NewAnswerJudge creates an answer judge. llm may be nil.
func NewAnswerJudge(llm LLMScorer, logger *zap.Logger) *AnswerJudge {
	return &AnswerJudge{llm: llm, logger: logger}
}

// ScoreRelevance grades how well the answer addresses the question, in [0,1].
func (j *AnswerJudge) ScoreRelevance(ctx context.Context, question, answer string) float64 {
	if j.llm != nil {
		score, err := j.llm.ScoreRelevance(ctx, question, answer)
		if err == nil {
			return clamp01(score)
		}
		j.logger.Warn("LLM relevance scoring failed, using keyword overlap", zap.Error(err))
	}
	return keywordOverlap(question, answer)
}

// ScoreFaithfulness grades how grounded the answer is in the retrieved
// source context, in [0,1].
func (j *AnswerJudge) ScoreFaithfulness(ctx context.Context, answer, sourceContext string) float64 {
	if j.llm != nil {
		score, err := j.llm.ScoreFaithfulness(ctx, answer, sourceContext)
		if err == nil {
			return clamp01(score)
		}
		j.logger.Warn("LLM faithfulness scoring failed, using keyword overlap", zap.Error(err))
	}
	return keywordOverlap(answer, sourceContext)
}

// keywordOverlap returns the fraction of non-stop-word keywords from text
// that appear in reference.
func keywordOverlap(text, reference string) float64 {
	reference = strings.ToLower(reference)
	keywords := contentWords(text)
	if len(keywords) == 0 {
		return 0
	}
	found := 0
	for _, w := range keywords {
		if strings.Contains(reference, w) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

func contentWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if f == "" {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
