package domain

import "errors"

var (
	// ErrSourceUnavailable signals that a candidate source failed to respond.
	ErrSourceUnavailable = errors.New("candidate source unavailable")
	// ErrScoringDegraded signals that semantic scoring is unavailable.
	ErrScoringDegraded = errors.New("semantic scoring degraded")
	// ErrGroundTruthMissing signals an evaluation without any ground-truth signal.
	ErrGroundTruthMissing = errors.New("ground truth missing")
	// ErrEmptyCorpus signals that no documents were available at startup.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrJudgeUnavailable signals that the LLM judge could not be reached.
	ErrJudgeUnavailable = errors.New("llm judge unavailable")
)
