// Command talklift is the TalkLift spoken-English coaching server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/ananyasolanki1/talklift/internal/analyze"
	"github.com/ananyasolanki1/talklift/internal/config"
	"github.com/ananyasolanki1/talklift/internal/health"
	"github.com/ananyasolanki1/talklift/internal/history"
	"github.com/ananyasolanki1/talklift/internal/history/localstore"
	historypg "github.com/ananyasolanki1/talklift/internal/history/postgres"
	"github.com/ananyasolanki1/talklift/internal/observe"
	"github.com/ananyasolanki1/talklift/internal/resilience"
	"github.com/ananyasolanki1/talklift/internal/server"
	"github.com/ananyasolanki1/talklift/pkg/provider/llm"
	"github.com/ananyasolanki1/talklift/pkg/provider/llm/anyllm"
	oaillm "github.com/ananyasolanki1/talklift/pkg/provider/llm/openai"
	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
	oaistt "github.com/ananyasolanki1/talklift/pkg/provider/stt/openai"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "talklift: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "talklift: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("talklift starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "talklift",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}

	// ── History stores ────────────────────────────────────────────────────────
	localPath := cfg.History.LocalPath
	if localPath == "" {
		localPath = localstore.DefaultFileName
	}
	local := localstore.New(localPath)

	checkers := []health.Checker{health.StoreChecker("local_history", local)}

	var remote history.RemoteStore
	var pg *historypg.Store
	if cfg.History.PostgresDSN != "" {
		pg, err = historypg.New(ctx, cfg.History.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect to postgres", "err", err)
			return 1
		}
		defer pg.Close()
		remote = pg
		checkers = append(checkers, health.StoreChecker("database", pg))
		slog.Info("remote history store connected")
	} else {
		slog.Warn("no postgres_dsn configured — history is local-only")
	}

	// ── Providers ─────────────────────────────────────────────────────────────
	llmProvider, err := buildLLM(cfg)
	if err != nil {
		slog.Error("failed to build llm provider", "err", err)
		return 1
	}

	transcriber, err := buildSTT(cfg)
	if err != nil {
		slog.Error("failed to build stt provider", "err", err)
		return 1
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	api := server.New(
		analyze.New(llmProvider),
		transcriber,
		history.NewMerger(remote, local),
	)

	mux := http.NewServeMux()
	api.Register(mux)
	health.New(checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           observe.Middleware(observe.DefaultMetrics())(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Server.TLS != nil {
			err = httpSrv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("server ready — press Ctrl+C to shut down", "addr", cfg.Server.ListenAddr)

	select {
	case err := <-errCh:
		slog.Error("server error", "err", err)
		return 1
	case <-ctx.Done():
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutdown signal received, stopping…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "err", err)
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// newLLM constructs one LLM provider from a config entry. The native OpenAI
// client is used for "openai"; every other backend goes through any-llm.
func newLLM(entry config.ProviderEntry) (llm.Provider, error) {
	if entry.Name == "openai" {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)
	}

	var opts []anyllmlib.Option
	if entry.APIKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
	}
	if entry.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
	}
	return anyllm.New(entry.Name, entry.Model, opts...)
}

// buildLLM constructs the primary LLM provider and chains any configured
// fallbacks behind it. A chain of one still goes through resilience so that
// per-provider request metrics are recorded uniformly.
func buildLLM(cfg *config.Config) (llm.Provider, error) {
	primary, err := newLLM(cfg.Providers.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider %q: %w", cfg.Providers.LLM.Name, err)
	}
	slog.Info("provider created", "kind", "llm", "name", cfg.Providers.LLM.Name, "model", cfg.Providers.LLM.Model)

	chain := resilience.NewLLMFallback(primary, cfg.Providers.LLM.Name)
	for _, entry := range cfg.Providers.LLMFallbacks {
		p, err := newLLM(entry)
		if err != nil {
			return nil, fmt.Errorf("create llm fallback %q: %w", entry.Name, err)
		}
		chain.AddFallback(entry.Name, p)
		slog.Info("provider created", "kind", "llm-fallback", "name", entry.Name, "model", entry.Model)
	}
	return chain, nil
}

// newSTT constructs one STT transcriber from a config entry. OpenAI is the
// only supported backend so far.
func newSTT(entry config.ProviderEntry) (stt.Transcriber, error) {
	if entry.Name != "openai" {
		return nil, fmt.Errorf("unknown stt provider %q", entry.Name)
	}

	var opts []oaistt.Option
	if entry.BaseURL != "" {
		opts = append(opts, oaistt.WithBaseURL(entry.BaseURL))
	}
	return oaistt.New(entry.APIKey, entry.Model, opts...)
}

// buildSTT constructs the STT transcriber and chains any configured fallbacks
// behind it, or returns nil when none is configured — the transcribe endpoint
// answers 503 in that case. Like buildLLM, a single provider still goes
// through resilience for uniform request metrics.
func buildSTT(cfg *config.Config) (stt.Transcriber, error) {
	entry := cfg.Providers.STT
	if entry.Name == "" {
		return nil, nil
	}
	primary, err := newSTT(entry)
	if err != nil {
		return nil, fmt.Errorf("create stt provider %q: %w", entry.Name, err)
	}
	slog.Info("provider created", "kind", "stt", "name", entry.Name, "model", entry.Model)

	chain := resilience.NewSTTFallback(primary, entry.Name)
	for _, fb := range cfg.Providers.STTFallbacks {
		t, err := newSTT(fb)
		if err != nil {
			return nil, fmt.Errorf("create stt fallback %q: %w", fb.Name, err)
		}
		chain.AddFallback(fb.Name, t)
		slog.Info("provider created", "kind", "stt-fallback", "name", fb.Name, "model", fb.Model)
	}
	return chain, nil
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
