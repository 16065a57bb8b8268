// Package engine implements the conversational core of the PvP coach.
//
// An Engine processes one chat turn at a time per session: it runs guard
// rules, classifies the message intent, detects game entities, consults the
// knowledge-base retriever and the canned fact tables, and synthesizes a
// reply. Long-form replies are paginated into chunks for staggered display.
//
// An optional generative backend (an llm.Provider) can be attached; it is
// only consulted on the free-form path where no deterministic answer exists,
// and a failed or timed-out generation always degrades to a canned reply
// without corrupting session state.
//
// This package lives under internal/ because it encapsulates application-private
// processing logic and is not intended to be imported by external code.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bloxcoach/bloxcoach/internal/corpus"
	"github.com/bloxcoach/bloxcoach/internal/intent"
	"github.com/bloxcoach/bloxcoach/internal/lexicon"
	"github.com/bloxcoach/bloxcoach/internal/session"
	"github.com/bloxcoach/bloxcoach/pkg/provider/llm"
)

// GenerationMode controls if and when the generative backend is consulted.
type GenerationMode string

const (
	// GenerationOff disables the generative backend entirely.
	GenerationOff GenerationMode = "off"

	// GenerationFallback consults the backend only on the free-form path when
	// neither canned facts nor retrieval produced an answer. This is the default.
	GenerationFallback GenerationMode = "fallback"

	// GenerationStrict is like GenerationFallback but refuses to generate when
	// retrieval returned nothing, so the model never answers without grounding.
	GenerationStrict GenerationMode = "strict"
)

const (
	// DefaultChunkSize is the maximum reply segment length in characters.
	DefaultChunkSize = 1200

	// DefaultChunkDelay is the inter-segment display pacing delay.
	DefaultChunkDelay = 18 * time.Millisecond

	// DefaultGenerationTimeout is the hard deadline for one generative turn,
	// including continuation rounds.
	DefaultGenerationTimeout = 60 * time.Second

	// DefaultMaxContinuations bounds the extra generation rounds requested when
	// the backend truncates a completion due to its length limit.
	DefaultMaxContinuations = 2
)

// Metrics receives per-turn engine observations. Implementations must be safe
// for concurrent use. See the observe package for the OpenTelemetry-backed
// implementation.
type Metrics interface {
	// RecordTurn is called once per completed turn with the classified intent
	// label and the total processing duration.
	RecordTurn(intentLabel string, d time.Duration)

	// RecordRetrieval is called whenever the retriever is consulted, with the
	// number of corpus blocks returned.
	RecordRetrieval(hits int)

	// RecordGeneration is called after each generative backend attempt with an
	// outcome label ("ok", "error", or "timeout") and the attempt duration.
	RecordGeneration(outcome string, d time.Duration)
}

// nopMetrics is the default Metrics sink.
type nopMetrics struct{}

func (nopMetrics) RecordTurn(string, time.Duration)       {}
func (nopMetrics) RecordRetrieval(int)                    {}
func (nopMetrics) RecordGeneration(string, time.Duration) {}

// Reply is the engine's answer to a single chat turn.
type Reply struct {
	// Text is the full reply text.
	Text string

	// Chunks is Text paginated into display segments, never empty. Callers
	// present segments in order with a short delay between them.
	Chunks []string

	// Intent is the classified intent of the user message.
	Intent intent.Kind

	// Entities lists the canonical game entities detected in the message,
	// in order of first appearance.
	Entities []string

	// Generated reports whether the generative backend produced Text.
	Generated bool
}

// Engine synthesizes coach replies. It is safe for concurrent use; turns
// within one session are serialized by the session store, turns across
// sessions proceed in parallel.
type Engine struct {
	lex       *lexicon.Lexicon
	retriever *corpus.Retriever
	sessions  *session.Store

	provider         llm.Provider
	genMode          GenerationMode
	genTimeout       time.Duration
	maxContinuations int
	temperature      float64
	maxTokens        int

	chunkSize  int
	chunkDelay time.Duration

	pick    func(n int) int
	metrics Metrics
}

// Option is a functional option for configuring an Engine during construction.
type Option func(*Engine)

// WithGeneration attaches a generative backend. A nil provider or
// [GenerationOff] mode leaves the engine fully deterministic.
func WithGeneration(p llm.Provider, mode GenerationMode) Option {
	return func(e *Engine) {
		e.provider = p
		e.genMode = mode
	}
}

// WithGenerationTimeout sets the hard deadline for one generative turn.
// Default is 60s.
func WithGenerationTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.genTimeout = d
		}
	}
}

// WithMaxContinuations bounds the extra generation rounds on length-truncated
// completions. Default is 2 (three pages total).
func WithMaxContinuations(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxContinuations = n
		}
	}
}

// WithSampling sets the temperature and completion token cap passed to the
// generative backend. Zero values use the provider defaults.
func WithSampling(temperature float64, maxTokens int) Option {
	return func(e *Engine) {
		e.temperature = temperature
		e.maxTokens = maxTokens
	}
}

// WithChunking overrides the reply pagination parameters. Defaults are
// 1200 characters per segment and 18ms between segments.
func WithChunking(size int, delay time.Duration) Option {
	return func(e *Engine) {
		if size > 0 {
			e.chunkSize = size
		}
		if delay >= 0 {
			e.chunkDelay = delay
		}
	}
}

// WithPicker injects the pseudo-random index picker used for greeting and
// free-prompt variant selection. pick(n) must return a value in [0, n).
// Tests inject a deterministic picker.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) {
		if pick != nil {
			e.pick = pick
		}
	}
}

// WithMetrics attaches a metrics sink. Default is a no-op.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// New constructs an Engine. lex, retriever and sessions must be non-nil.
func New(lex *lexicon.Lexicon, retriever *corpus.Retriever, sessions *session.Store, opts ...Option) (*Engine, error) {
	if lex == nil {
		return nil, fmt.Errorf("engine: lexicon must not be nil")
	}
	if retriever == nil {
		return nil, fmt.Errorf("engine: retriever must not be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("engine: session store must not be nil")
	}

	e := &Engine{
		lex:              lex,
		retriever:        retriever,
		sessions:         sessions,
		genMode:          GenerationOff,
		genTimeout:       DefaultGenerationTimeout,
		maxContinuations: DefaultMaxContinuations,
		chunkSize:        DefaultChunkSize,
		chunkDelay:       DefaultChunkDelay,
		pick:             rand.IntN,
		metrics:          nopMetrics{},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// ChunkDelay returns the configured inter-segment pacing delay for callers
// that present Reply.Chunks sequentially.
func (e *Engine) ChunkDelay() time.Duration {
	return e.chunkDelay
}

// Turn processes one user message for the given session and returns the
// coach's reply. Turns within a session are serialized; the session state is
// committed atomically when the turn completes, so a cancelled or failed turn
// leaves the state untouched.
func (e *Engine) Turn(ctx context.Context, sessionID, question string) (*Reply, error) {
	start := time.Now()

	var reply *Reply
	err := e.sessions.WithTurn(ctx, sessionID, func(st session.State) (session.State, error) {
		r, next := e.respond(ctx, question, st)
		reply = r
		return next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine: turn: %w", err)
	}

	reply.Chunks = Chunk(reply.Text, e.chunkSize)
	e.metrics.RecordTurn(reply.Intent.String(), time.Since(start))
	return reply, nil
}
