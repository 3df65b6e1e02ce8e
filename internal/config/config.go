// Package config loads the nyaya configuration from YAML by environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the nyaya retrieval core configuration.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Rerank     RerankConfig     `yaml:"rerank"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Judge      JudgeConfig      `yaml:"judge"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// CorpusConfig holds corpus snapshot settings.
type CorpusConfig struct {
	Path string `yaml:"path"` // JSON snapshot of the document corpus
}

// RetrievalConfig holds hybrid retrieval tunables.
type RetrievalConfig struct {
	LexicalWeight    float64 `yaml:"lexical_weight"`     // ensemble weight for the lexical source
	SemanticWeight   float64 `yaml:"semantic_weight"`    // ensemble weight for the semantic source
	NarrowK          int     `yaml:"narrow_k"`           // per-source k for the narrow pass
	WideK            int     `yaml:"wide_k"`             // per-source k for the wide fallback pass
	TopK             int     `yaml:"top_k"`              // final result cap
	SourceTimeoutSec int     `yaml:"source_timeout_sec"` // per-source call timeout
}

// RerankConfig holds score blending settings.
type RerankConfig struct {
	Alpha float64 `yaml:"alpha"` // semantic share of the blended score, (0,1]
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider      string        `yaml:"provider"`
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	Model         string        `yaml:"model"`
	Dimensions    int           `yaml:"dimensions"`
	CacheTTLHours int           `yaml:"cache_ttl_hours"`
	Breaker       BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the embedding provider.
type BreakerConfig struct {
	MaxFailures    int `yaml:"max_failures"`     // consecutive failures before the breaker opens
	OpenTimeoutSec int `yaml:"open_timeout_sec"` // how long the breaker stays open
}

// JudgeConfig holds LLM judge settings for evaluation.
type JudgeConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EvaluationConfig holds batch evaluation settings.
type EvaluationConfig struct {
	QuestionsPath string `yaml:"questions_path"` // YAML question set
	Concurrency   int    `yaml:"concurrency"`    // bounded worker pool size
	RecallK       int    `yaml:"recall_k"`       // k for recall@k
}

// DatabaseConfig holds the embedding cache store settings.
// Empty addrs disables the cache entirely.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Retrieval.LexicalWeight <= 0 && c.Retrieval.SemanticWeight <= 0 {
		c.Retrieval.LexicalWeight = 0.4
		c.Retrieval.SemanticWeight = 0.6
	}
	if c.Retrieval.NarrowK <= 0 {
		c.Retrieval.NarrowK = 10
	}
	if c.Retrieval.WideK <= 0 {
		c.Retrieval.WideK = 200
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.SourceTimeoutSec <= 0 {
		c.Retrieval.SourceTimeoutSec = 5
	}
	if c.Rerank.Alpha <= 0 {
		c.Rerank.Alpha = 0.7
	}
	if c.Embedding.CacheTTLHours <= 0 {
		c.Embedding.CacheTTLHours = 24 * 30
	}
	if c.Embedding.Breaker.MaxFailures <= 0 {
		c.Embedding.Breaker.MaxFailures = 5
	}
	if c.Embedding.Breaker.OpenTimeoutSec <= 0 {
		c.Embedding.Breaker.OpenTimeoutSec = 30
	}
	if c.Judge.TimeoutSec <= 0 {
		c.Judge.TimeoutSec = 20
	}
	if c.Judge.Model == "" {
		c.Judge.Model = "gpt-4o-mini"
	}
	if c.Evaluation.Concurrency <= 0 {
		c.Evaluation.Concurrency = 4
	}
	if c.Evaluation.RecallK <= 0 {
		c.Evaluation.RecallK = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Corpus.Path == "" {
		return fmt.Errorf("corpus.path is required")
	}
	if c.Retrieval.LexicalWeight < 0 || c.Retrieval.SemanticWeight < 0 {
		return fmt.Errorf("retrieval weights must be non-negative")
	}
	if c.Retrieval.LexicalWeight+c.Retrieval.SemanticWeight <= 0 {
		return fmt.Errorf("at least one retrieval weight must be positive")
	}
	if c.Rerank.Alpha <= 0 || c.Rerank.Alpha > 1 {
		return fmt.Errorf("rerank.alpha must be in (0, 1], got %v", c.Rerank.Alpha)
	}
	if c.Retrieval.WideK < c.Retrieval.NarrowK {
		return fmt.Errorf(
			"retrieval.wide_k (%d) must not be smaller than narrow_k (%d)",
			c.Retrieval.WideK, c.Retrieval.NarrowK,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
