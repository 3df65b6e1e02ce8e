package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/config"
	"github.com/nyaya-cloud/nyaya/internal/db"
	dbRedis "github.com/nyaya-cloud/nyaya/internal/db/redis"
	"github.com/nyaya-cloud/nyaya/internal/domain"
	logpkg "github.com/nyaya-cloud/nyaya/internal/logger"
	"github.com/nyaya-cloud/nyaya/internal/metrics"
	"github.com/nyaya-cloud/nyaya/internal/repository/corpus"
	"github.com/nyaya-cloud/nyaya/internal/repository/embcache"
	"github.com/nyaya-cloud/nyaya/internal/repository/lexical"
	"github.com/nyaya-cloud/nyaya/internal/repository/questions"
	"github.com/nyaya-cloud/nyaya/internal/repository/vector"
	openaiTransport "github.com/nyaya-cloud/nyaya/internal/transport/openai"
	analyzeuc "github.com/nyaya-cloud/nyaya/internal/usecase/analyze"
	embeddinguc "github.com/nyaya-cloud/nyaya/internal/usecase/embedding"
	evaluateuc "github.com/nyaya-cloud/nyaya/internal/usecase/evaluate"
	judgeuc "github.com/nyaya-cloud/nyaya/internal/usecase/judge"
	rerankuc "github.com/nyaya-cloud/nyaya/internal/usecase/rerank"
	retrieveuc "github.com/nyaya-cloud/nyaya/internal/usecase/retrieve"
	"github.com/nyaya-cloud/nyaya/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nyaya evaluation run",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("corpus", cfg.Corpus.Path),
		zap.String("questions", cfg.Evaluation.QuestionsPath),
	)

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()

	// Optional embedding cache store
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err = store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache store")
	}

	// Build embedder chain — composition root
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder = embeddinguc.NewBreaker(
		embedder,
		uint32(cfg.Embedding.Breaker.MaxFailures),
		time.Duration(cfg.Embedding.Breaker.OpenTimeoutSec)*time.Second,
		logger,
	)
	if store != nil {
		embedder = embcache.New(
			embedder, store,
			time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour,
			metrics.EmbeddingCacheTotal, logger,
		)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cached", store != nil),
	)

	// Load the corpus and build both indexes
	docs, err := corpus.NewLoader(logger).Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	logger.Info("Corpus loaded", zap.Int("documents", len(docs)))
	snapshot := corpus.NewSnapshot(docs)

	lexicalSource, err := lexical.NewSource(snapshot.GetAll(), logger)
	if err != nil {
		logger.Fatal("Failed to build lexical index", zap.Error(err))
	}
	vectorSource, err := vector.Build(ctx, snapshot.GetAll(), embedder, logger)
	if err != nil {
		logger.Fatal("Failed to build vector index", zap.Error(err))
	}

	// Create use case services
	analyzer := analyzeuc.New(logger)
	reranker := rerankuc.New(embedder, vectorSource, cfg.Rerank.Alpha, logger)
	retriever := retrieveuc.New(lexicalSource, vectorSource, reranker, retrieveuc.Options{
		LexicalWeight:  cfg.Retrieval.LexicalWeight,
		SemanticWeight: cfg.Retrieval.SemanticWeight,
		NarrowK:        cfg.Retrieval.NarrowK,
		WideK:          cfg.Retrieval.WideK,
		TopK:           cfg.Retrieval.TopK,
		SourceTimeout:  time.Duration(cfg.Retrieval.SourceTimeoutSec) * time.Second,
	}, logger)

	var llm judgeuc.LLMScorer
	if cfg.Judge.Enabled {
		llm = openaiTransport.NewJudge(&openaiTransport.JudgeConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Judge.Model,
			Timeout: time.Duration(cfg.Judge.TimeoutSec) * time.Second,
			Logger:  logger,
		})
	}
	answerJudge := judgeuc.NewAnswerJudge(llm, logger)

	harness := evaluateuc.New(
		analyzer, retriever, nil, answerJudge,
		cfg.Evaluation.RecallK, cfg.Evaluation.Concurrency, logger,
	)

	// Run the batch evaluation
	set, err := questions.Load(cfg.Evaluation.QuestionsPath)
	if err != nil {
		logger.Fatal("Failed to load question set", zap.Error(err))
	}
	logger.Info("Question set loaded", zap.Int("questions", len(set.All())))

	summary := harness.EvaluateBatch(ctx, set.All())

	logger.Info("Batch evaluation finished",
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("failed", summary.Failed),
		zap.Float64("mean_precision_at_1", summary.MeanPrecisionAt1),
		zap.Float64("mean_precision_at_3", summary.MeanPrecisionAt3),
		zap.Float64("mean_precision_at_5", summary.MeanPrecisionAt5),
		zap.Float64("mean_reciprocal_rank", summary.MeanReciprocal),
		zap.Float64("mean_recall_at_k", summary.MeanRecallAtK),
		zap.Float64("mean_relevance", summary.MeanRelevance),
		zap.Float64("mean_faithfulness", summary.MeanFaithfulness),
		zap.Float64("hallucination_rate", summary.HallucinationRate),
		zap.Float64("no_ground_truth_rate", summary.NoGroundTruthRate),
		zap.Duration("latency_p50", summary.LatencyP50),
		zap.Duration("latency_p95", summary.LatencyP95),
	)
	for category, cs := range summary.ByCategory {
		logger.Info("Category summary",
			zap.String("category", category),
			zap.Int("questions", cs.Questions),
			zap.Float64("mean_precision_at_5", cs.MeanPrecisionAt5),
			zap.Float64("mean_reciprocal_rank", cs.MeanReciprocalRank),
			zap.Float64("mean_recall_at_k", cs.MeanRecallAtK),
		)
	}
}
