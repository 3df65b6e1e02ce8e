package config

import (
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Corpus: CorpusConfig{Path: "corpus.json"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Corpus: CorpusConfig{Path: "corpus.json"}}
	cfg.ApplyDefaults()

	if cfg.Retrieval.LexicalWeight != 0.4 || cfg.Retrieval.SemanticWeight != 0.6 {
		t.Errorf("default weights = %v/%v, want 0.4/0.6",
			cfg.Retrieval.LexicalWeight, cfg.Retrieval.SemanticWeight)
	}
	if cfg.Retrieval.NarrowK != 10 {
		t.Errorf("default narrow_k = %d, want 10", cfg.Retrieval.NarrowK)
	}
	if cfg.Retrieval.WideK != 200 {
		t.Errorf("default wide_k = %d, want 200", cfg.Retrieval.WideK)
	}
	if cfg.Rerank.Alpha != 0.7 {
		t.Errorf("default alpha = %v, want 0.7", cfg.Rerank.Alpha)
	}
	if cfg.Evaluation.Concurrency != 4 {
		t.Errorf("default concurrency = %d, want 4", cfg.Evaluation.Concurrency)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingCorpusPath(t *testing.T) {
	cfg := validConfig()
	cfg.Corpus.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing corpus path")
	}
}

func TestValidate_AlphaOutOfRange(t *testing.T) {
	for _, alpha := range []float64{-0.1, 0, 1.5} {
		cfg := validConfig()
		cfg.Rerank.Alpha = alpha
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for alpha=%v", alpha)
		}
	}
}

func TestValidate_WideKSmallerThanNarrowK(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.NarrowK = 50
	cfg.Retrieval.WideK = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for wide_k < narrow_k")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("NYAYA_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${NYAYA_TEST_KEY}")))
	if out != "api_key: secret" {
		t.Errorf("expandEnvVars = %q", out)
	}

	out = string(expandEnvVars([]byte("model: ${NYAYA_UNSET_VAR:-fallback}")))
	if out != "model: fallback" {
		t.Errorf("expandEnvVars with default = %q", out)
	}
}
