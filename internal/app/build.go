package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/antoniostano/simhelper/internal/brain"
	"github.com/antoniostano/simhelper/internal/config"
	"github.com/antoniostano/simhelper/internal/dispatch"
	"github.com/antoniostano/simhelper/internal/httpapi"
	"github.com/antoniostano/simhelper/internal/knowledge"
	"github.com/antoniostano/simhelper/internal/matcher"
	"github.com/antoniostano/simhelper/internal/memory"
	"github.com/antoniostano/simhelper/internal/observability"
	"github.com/antoniostano/simhelper/internal/session"
	"github.com/antoniostano/simhelper/internal/translate"
)

type BuildResult struct {
	Config     config.Config
	API        *httpapi.Server
	Dispatcher *dispatch.Dispatcher
	Session    *session.Session
	Metrics    *observability.Metrics
	Backends   httpapi.Info

	// Cleanup should be called on shutdown to release external resources (DB handles).
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	kb, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		return nil, fmt.Errorf("knowledge base init failed: %w", err)
	}

	memoryLog, err := memory.NewLog(ctx, memory.Config{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.MemorySQLitePath,
		FilePath:    cfg.MemoryFile,
	})
	if err != nil {
		return nil, fmt.Errorf("memory log init failed: %w", err)
	}

	// The whole prior transcript seeds the conversation as one opaque turn.
	seed, err := memoryLog.ReadAll(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("backend", memory.Backend(memoryLog)).Msg("memory log unreadable; starting without history")
		seed = ""
	}

	generator, err := brain.NewGenerator(brain.Config{
		Provider:        cfg.BrainProvider,
		Fallback:        cfg.BrainFallback,
		Model:           cfg.BrainModel,
		MaxTokens:       cfg.BrainMaxTokens,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiBaseURL:   cfg.GeminiBaseURL,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		AnthropicAPIKey: cfg.AnthropicKey,
		HTTPURL:         cfg.BrainHTTPURL,
	})
	if err != nil {
		_ = memoryLog.Close()
		return nil, fmt.Errorf("generative backend init failed: %w", err)
	}

	translator, err := translate.NewTranslator(translate.Config{
		Provider:  cfg.TranslateProvider,
		URL:       cfg.TranslateURL,
		APIKey:    cfg.TranslateAPIKey,
		CacheSize: cfg.TranslateCacheSize,
	})
	if err != nil {
		_ = memoryLog.Close()
		return nil, fmt.Errorf("translator init failed: %w", err)
	}

	sess := session.Start(generator, seed)
	metrics.SetConversationTurns(sess.Len())

	dispatcher := dispatch.New(dispatch.Config{
		Matcher: matcher.New(kb, matcher.Options{
			Threshold: cfg.MatchThreshold,
			Keywords:  cfg.MatchKeywords,
		}),
		Session:         sess,
		Translator:      translate.NewGateway(translator),
		Memory:          memoryLog,
		Metrics:         metrics,
		Logger:          logger,
		UpstreamTimeout: cfg.UpstreamTimeout,
		UpstreamRetries: cfg.UpstreamRetries,
	})

	backends := httpapi.Info{
		Brain:      brain.Name(generator),
		Translator: translate.Name(translator),
		Memory:     memory.Backend(memoryLog),
		Knowledge:  kb.Len(),
	}
	if strings.HasPrefix(backends.Brain, brain.ProviderMock) {
		logger.Warn().Msg("no generative backend configured; using mock replies")
	}
	if strings.HasPrefix(backends.Translator, translate.ProviderMock) {
		logger.Warn().Msg("no translator configured; non-English replies are tagged, not translated")
	}

	api := httpapi.New(dispatcher, metrics, httpapi.Options{
		AllowAnyOrigin: cfg.AllowAnyOrigin,
		Info:           backends,
		Logger:         logger,
	})

	cleanup := func() error {
		if err := memoryLog.Close(); err != nil {
			return fmt.Errorf("memory log close: %w", err)
		}
		return nil
	}

	return &BuildResult{
		Config:     cfg,
		API:        api,
		Dispatcher: dispatcher,
		Session:    sess,
		Metrics:    metrics,
		Backends:   backends,
		Cleanup:    cleanup,
	}, nil
}
