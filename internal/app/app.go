// Package app wires all bloxcoach subsystems into a running server.
//
// The App struct owns the full lifecycle: New loads the knowledge base,
// builds the retrieval corpus and the coaching engine, and assembles the
// HTTP surface (chat API, health probes, Prometheus metrics). Run serves
// until the context is cancelled, then Shutdown drains in-flight requests.
//
// For testing, inject dependencies via functional options (WithProvider,
// WithLexicon, WithMetrics). When an option is not provided, New creates
// real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bloxcoach/bloxcoach/internal/chatapi"
	"github.com/bloxcoach/bloxcoach/internal/config"
	"github.com/bloxcoach/bloxcoach/internal/corpus"
	"github.com/bloxcoach/bloxcoach/internal/engine"
	"github.com/bloxcoach/bloxcoach/internal/health"
	"github.com/bloxcoach/bloxcoach/internal/kb"
	"github.com/bloxcoach/bloxcoach/internal/lexicon"
	"github.com/bloxcoach/bloxcoach/internal/observe"
	"github.com/bloxcoach/bloxcoach/internal/session"
	"github.com/bloxcoach/bloxcoach/pkg/provider/llm"
)

// shutdownTimeout bounds the HTTP server drain during Run's teardown.
const shutdownTimeout = 15 * time.Second

// App owns all subsystem lifetimes for the bloxcoach server.
type App struct {
	cfg *config.Config

	lex       *lexicon.Lexicon
	retriever *corpus.Retriever
	sessions  *session.Store
	engine    *engine.Engine
	provider  llm.Provider
	metrics   *observe.Metrics

	server *http.Server
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithProvider injects the generative LLM backend (typically a resilience
// chain built by main from the config registry).
func WithProvider(p llm.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithLexicon injects an alias table instead of loading one from config.
func WithLexicon(l *lexicon.Lexicon) Option {
	return func(a *App) { a.lex = l }
}

// WithMetrics injects a metrics instance instead of using the global default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App by wiring all subsystems together. The LLM provider
// comes from main.go (populated via the config registry) through
// [WithProvider]; without it, generation is off regardless of config.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}

	if err := a.initLexicon(); err != nil {
		return nil, fmt.Errorf("app: init lexicon: %w", err)
	}
	if err := a.initCorpus(); err != nil {
		return nil, fmt.Errorf("app: init corpus: %w", err)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	a.sessions = session.NewStore()
	if err := a.metrics.ObserveActiveSessions(a.sessions.Len); err != nil {
		return nil, fmt.Errorf("app: register session gauge: %w", err)
	}

	if err := a.initEngine(); err != nil {
		return nil, fmt.Errorf("app: init engine: %w", err)
	}
	a.initServer()

	return a, nil
}

// initLexicon loads the alias table: injected, from the configured override
// file, or the built-in default.
func (a *App) initLexicon() error {
	if a.lex != nil {
		return nil
	}
	if path := a.cfg.Lexicon.Path; path != "" {
		l, err := lexicon.LoadFile(path)
		if err != nil {
			return err
		}
		a.lex = l
		slog.Info("loaded lexicon override", "path", path)
		return nil
	}
	a.lex = lexicon.Default()
	return nil
}

// initCorpus loads the knowledge base and builds the retrieval corpus. A
// broken KB is not fatal outside strict mode: the engine still answers from
// its canned fact tables, so the server starts with an empty corpus and logs
// the failure instead of refusing to come up.
func (a *App) initCorpus() error {
	var (
		base *kb.KnowledgeBase
		err  error
	)
	switch {
	case a.cfg.KnowledgeBase.Dir != "":
		base, err = kb.LoadDir(a.cfg.KnowledgeBase.Dir, a.cfg.KnowledgeBase.Strict)
	case a.cfg.KnowledgeBase.Path != "":
		base, err = kb.Load(a.cfg.KnowledgeBase.Path)
	default:
		base = &kb.KnowledgeBase{}
	}
	if err != nil {
		if a.cfg.KnowledgeBase.Strict {
			return err
		}
		slog.Warn("knowledge base unusable; continuing with canned facts only", "err", err)
		base = &kb.KnowledgeBase{}
	}

	blocks := corpus.Build(base)
	var ropts []corpus.Option
	if k := a.cfg.Engine.RetrievalTopK; k > 0 {
		ropts = append(ropts, corpus.WithTopK(k))
	}
	if n := a.cfg.Engine.TheoryExcerptChars; n > 0 {
		ropts = append(ropts, corpus.WithTheoryExcerpt(n))
	}
	a.retriever = corpus.NewRetriever(blocks, base.Theory(), ropts...)
	slog.Info("retrieval corpus built", "blocks", a.retriever.Size())
	return nil
}

// initEngine builds the coaching engine from config.
func (a *App) initEngine() error {
	opts := []engine.Option{
		engine.WithMetrics(observe.EngineRecorder{M: a.metrics}),
	}

	eng := a.cfg.Engine
	if eng.ChunkSize > 0 || eng.ChunkDelayMS > 0 {
		// An unset delay keeps the built-in pacing; 0 would disable it.
		delay := engine.DefaultChunkDelay
		if eng.ChunkDelayMS > 0 {
			delay = time.Duration(eng.ChunkDelayMS) * time.Millisecond
		}
		opts = append(opts, engine.WithChunking(eng.ChunkSize, delay))
	}

	gen := eng.Generation
	if a.provider != nil && gen.Mode != "" && gen.Mode != config.GenerationOff {
		mode, err := generationMode(gen.Mode)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithGeneration(a.provider, mode))
		if gen.TimeoutSeconds > 0 {
			opts = append(opts, engine.WithGenerationTimeout(time.Duration(gen.TimeoutSeconds)*time.Second))
		}
		if gen.MaxContinuations > 0 {
			opts = append(opts, engine.WithMaxContinuations(gen.MaxContinuations))
		}
		if gen.Temperature > 0 || gen.MaxTokens > 0 {
			opts = append(opts, engine.WithSampling(gen.Temperature, gen.MaxTokens))
		}
	}

	e, err := engine.New(a.lex, a.retriever, a.sessions, opts...)
	if err != nil {
		return err
	}
	a.engine = e
	return nil
}

// generationMode maps the config enum onto the engine enum.
func generationMode(m config.GenerationMode) (engine.GenerationMode, error) {
	switch m {
	case config.GenerationFallback:
		return engine.GenerationFallback, nil
	case config.GenerationStrict:
		return engine.GenerationStrict, nil
	case config.GenerationOff, "":
		return engine.GenerationOff, nil
	}
	return engine.GenerationOff, fmt.Errorf("unknown generation mode %q", m)
}

// initServer assembles the HTTP surface.
func (a *App) initServer() {
	mux := http.NewServeMux()

	chatapi.NewServer(a.engine, a.metrics).Register(mux)

	checkers := []health.Checker{
		health.KnowledgeBase(a.retriever.Size),
	}
	if a.provider != nil {
		checkers = append(checkers, health.Generation(func(ctx context.Context) error {
			_, err := a.provider.CountTokens(nil)
			return err
		}))
	}
	health.New(checkers...).Register(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	addr := a.cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	a.server = &http.Server{
		Addr:              addr,
		Handler:           observe.Middleware(a.metrics)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Engine exposes the coaching engine, mainly for tests and the CLI.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Handler returns the fully assembled HTTP handler. Useful in tests with
// httptest servers.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
// It returns nil on a clean shutdown.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tls := a.cfg.Server.TLS
		var err error
		if tls != nil {
			slog.Info("listening", "addr", a.server.Addr, "tls", true)
			err = a.server.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			slog.Info("listening", "addr", a.server.Addr)
			err = a.server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app: run: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests up to the
// ctx deadline.
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
