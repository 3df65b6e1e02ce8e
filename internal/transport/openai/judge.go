package openai

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
)

const relevancePromptFmt = `Rate how well this answer addresses the user's question on a scale of 0-10.

User Question: %s

Generated Answer: %s

Scoring criteria:
- 10: Perfect answer, directly addresses question completely
- 8-9: Good answer, addresses main question with minor gaps
- 6-7: Partial answer, addresses some aspects of question
- 4-5: Weak answer, tangentially related to question
- 2-3: Poor answer, barely related to question
- 0-1: Irrelevant answer, doesn't address question at all

Return only a number between 0 and 10.`

const faithfulnessPromptFmt = `Rate how faithful this generated answer is to the provided source documents on a scale of 0-10.

Source Documents:
%s

Generated Answer:
%s

Scoring criteria:
- 10: All facts in answer are directly supported by source documents
- 8-9: Most facts supported, minor unsupported details
- 6-7: Some facts supported, some unsupported or inferred
- 4-5: Mix of supported and unsupported facts
- 2-3: Few facts supported, mostly unsupported
- 0-1: Answer contains facts not found in sources (hallucination)

Focus on factual accuracy, not writing style.
Return only a number between 0 and 10.`

// maxSourceContextChars bounds the source context included in the
// faithfulness prompt.
const maxSourceContextChars = 2000

// Judge scores answers via chat completion on an OpenAI-compatible API.
// It is used only by the evaluation harness; every call is bounded by the
// configured timeout and callers fall back to keyword heuristics on error.
type Judge struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// JudgeConfig holds the judge client settings.
type JudgeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewJudge creates an LLM judge client.
func NewJudge(cfg *JudgeConfig) *Judge {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Judge{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// ScoreRelevance rates how well answer addresses question, in [0,1].
func (j *Judge) ScoreRelevance(ctx context.Context, question, answer string) (float64, error) {
	return j.score(ctx, fmt.Sprintf(relevancePromptFmt, question, answer))
}

// ScoreFaithfulness rates how faithful answer is to the source context, in [0,1].
func (j *Judge) ScoreFaithfulness(ctx context.Context, answer, sourceContext string) (float64, error) {
	if len(sourceContext) > maxSourceContextChars {
		sourceContext = sourceContext[:maxSourceContextChars]
	}
	return j.score(ctx, fmt.Sprintf(faithfulnessPromptFmt, sourceContext, answer))
}

func (j *Judge) score(ctx context.Context, prompt string) (float64, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("judge completion: %w: %w", domain.ErrJudgeUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("judge returned no choices: %w", domain.ErrJudgeUnavailable)
	}

	return parseScore(resp.Choices[0].Message.Content)
}

// parseScore converts a "number between 0 and 10" reply to [0,1], clamping
// out-of-range values instead of failing.
func parseScore(reply string) (float64, error) {
	raw := strings.TrimSpace(reply)
	// Some models wrap the number in prose; take the first numeric field.
	for _, f := range strings.Fields(raw) {
		f = strings.Trim(f, ".,")
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		return clamp01(v / 10.0), nil
	}
	return 0, fmt.Errorf("judge reply %q has no numeric score: %w", raw, domain.ErrJudgeUnavailable)
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
