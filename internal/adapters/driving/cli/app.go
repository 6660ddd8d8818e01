package cli

import (
	"context"
	"errors"
	"fmt"

	config "github.com/tubelens/tubelens-cli/internal/adapters/driven/config/file"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/embedding/cached"
	ollamaembed "github.com/tubelens/tubelens-cli/internal/adapters/driven/embedding/ollama"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/embedding/openai"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/tubelens/tubelens-cli/internal/adapters/driven/llm/ollama"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/retry"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/bolt"
	filestore "github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/file"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/youtube"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
	"github.com/tubelens/tubelens-cli/internal/core/services"
	"github.com/tubelens/tubelens-cli/internal/postprocessors/chunker"
)

// Package-level services the commands run against. Wired on first use
// from the loaded config; tests inject mocks directly.
var (
	appConfig        *config.Config
	retrievalService driving.RetrievalService
	qaService        driving.QAService
	analyzerService  driving.AnalyzerService
	reportStore      driven.ReportStore
	transcriptStore  driven.TranscriptStore

	appClosers []func() error
)

// loadConfig resolves and validates the configuration, caching it for
// the rest of the invocation.
func loadConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfig = &cfg
	return appConfig, nil
}

// ensureServices wires the retrieval and QA services plus their
// stores. Idempotent; a no-op when a test has already injected mocks.
func ensureServices() error {
	if retrievalService != nil && qaService != nil {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
	}

	reports, err := filestore.NewReportStore(cfg.Dirs.Data)
	if err != nil {
		return fmt.Errorf("opening report store: %w", err)
	}
	transcripts, err := filestore.NewTranscriptStore(cfg.Dirs.Data)
	if err != nil {
		return fmt.Errorf("opening transcript store: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Dirs.Index)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	appClosers = append(appClosers, store.Close)

	cache, err := bolt.NewCache(cfg.Dirs.Cache)
	if err != nil {
		return fmt.Errorf("opening embedding cache: %w", err)
	}
	appClosers = append(appClosers, cache.Close)

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	embedder, err := buildEmbedder(cfg, policy)
	if err != nil {
		return err
	}
	llm, err := buildLLM(cfg, policy)
	if err != nil {
		return err
	}

	reportStore = reports
	transcriptStore = transcripts
	retrievalService = services.NewRetrievalService(
		splitter,
		cached.New(embedder, cache),
		store.VectorIndex(),
		cache,
		reports,
		transcripts,
	)
	qaService = services.NewQAService(retrievalService, llm, cfg.Retrieval.Results)
	return nil
}

// ensureAnalyzer additionally wires the YouTube provider, which needs
// an API key the read-only commands can do without.
func ensureAnalyzer(ctx context.Context) error {
	if analyzerService != nil {
		return nil
	}
	if err := ensureServices(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
	}

	videos, err := youtube.NewProvider(ctx, youtube.Config{
		APIKey:             cfg.YouTube.APIKey,
		TranscriptLanguage: cfg.YouTube.TranscriptLanguage,
	})
	if err != nil {
		return fmt.Errorf("configuring youtube provider: %w", err)
	}

	llm, err := buildLLM(cfg, policy)
	if err != nil {
		return err
	}

	analyzerService = services.NewAnalyzerService(
		videos,
		llm,
		reportStore,
		transcriptStore,
		retrievalService,
		cfg.YouTube.MaxVideos,
	)
	return nil
}

func buildEmbedder(cfg *config.Config, policy retry.Policy) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, errors.New("no OpenAI API key configured; run 'tubelens config set embedding.api_key' or set " + config.EnvOpenAIAPIKey)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Retry:   policy,
		})
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Retry:   policy,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func buildLLM(cfg *config.Config, policy retry.Policy) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "anthropic":
		if cfg.LLM.APIKey == "" {
			return nil, errors.New("no Anthropic API key configured; run 'tubelens config set llm.api_key' or set " + config.EnvAnthropicAPIKey)
		}
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Retry:   policy,
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Retry:   policy,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// closeApp releases everything ensureServices opened.
func closeApp() error {
	var errs []error
	for _, close := range appClosers {
		if err := close(); err != nil {
			errs = append(errs, err)
		}
	}
	appClosers = nil
	return errors.Join(errs...)
}
