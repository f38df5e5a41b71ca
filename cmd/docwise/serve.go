package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/docwiseai/docwise/internal/agent"
	"github.com/docwiseai/docwise/internal/auth"
	"github.com/docwiseai/docwise/internal/config"
	"github.com/docwiseai/docwise/internal/copilot"
	"github.com/docwiseai/docwise/internal/extraction"
	"github.com/docwiseai/docwise/internal/handlers"
	"github.com/docwiseai/docwise/internal/logger"
	"github.com/docwiseai/docwise/internal/server"
	"github.com/docwiseai/docwise/internal/state"
	"github.com/docwiseai/docwise/internal/teams"
	"github.com/docwiseai/docwise/internal/version"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideKeyCache,
			provideStore,
			provideAgentClient,
			provideDocumentAgent,
			provideActionsAgent,
			provideTableSummarizer,
			provideExtractionClient,
			provideConnector,
			provideTeamsHandler,
			provideDispatcher,
			providePingHandler,
			provideActivitiesHandler,
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideKeyCache(cfg config.Config, log *slog.Logger) *auth.KeyCache {
	return auth.NewKeyCache(cfg.Auth.OpenIDMetadata, log)
}

func provideStore(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) (state.Store, error) {
	if !cfg.Postgres.Enabled() {
		log.Info("no postgres host configured, using in-memory state store")
		return state.NewMemoryStore(), nil
	}
	store, err := state.NewPostgresStore(context.Background(), cfg.Postgres.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("postgres state store: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { store.Close(); return nil }})
	return store, nil
}

func provideAgentClient(cfg config.Config, log *slog.Logger) *agent.Client {
	return agent.NewClient(cfg.OpenAI, log)
}

func provideDocumentAgent(client *agent.Client, cfg config.Config, log *slog.Logger) *agent.DocumentAgent {
	return agent.NewDocumentAgent(client, cfg.OpenAI, log)
}

func provideActionsAgent(client *agent.Client, cfg config.Config, log *slog.Logger) *agent.ActionsAgent {
	return agent.NewActionsAgent(client, cfg.OpenAI, cfg.Copilot.SuggestedActionsInstructions, log)
}

func provideTableSummarizer(client *agent.Client, cfg config.Config, log *slog.Logger) *agent.TableSummarizer {
	return agent.NewTableSummarizer(client, cfg.OpenAI, cfg.Copilot.TableSummaryInstructions, log)
}

func provideExtractionClient(cfg config.Config, log *slog.Logger) *extraction.Client {
	return extraction.NewClient(cfg.DocIntel, log)
}

func provideConnector(cfg config.Config, log *slog.Logger) *teams.Connector {
	return teams.NewConnector(cfg.Auth, log)
}

func provideTeamsHandler(extractor *extraction.Client, docAgent *agent.DocumentAgent, summarizer *agent.TableSummarizer, cfg config.Config, log *slog.Logger) *copilot.TeamsHandler {
	return copilot.NewTeamsHandler(extractor, docAgent, summarizer, cfg.Copilot, log)
}

func provideDispatcher(store state.Store, handler *copilot.TeamsHandler, connector *teams.Connector, actionsAgent *agent.ActionsAgent, cfg config.Config, log *slog.Logger) *copilot.Dispatcher {
	return copilot.NewDispatcher(store, handler, connector, actionsAgent, cfg.Copilot.DocumentInstructions, log)
}

func providePingHandler(log *slog.Logger) *handlers.PingHandler {
	return handlers.NewPingHandler(log)
}

func provideActivitiesHandler(dispatcher *copilot.Dispatcher, log *slog.Logger) *handlers.ActivitiesHandler {
	return handlers.NewActivitiesHandler(dispatcher, log)
}

func provideServer(cfg config.Config, keys *auth.KeyCache, log *slog.Logger, pingHandler *handlers.PingHandler, activitiesHandler *handlers.ActivitiesHandler) *server.Server {
	return server.NewServer(cfg, keys, log, pingHandler, activitiesHandler)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Docwise %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
