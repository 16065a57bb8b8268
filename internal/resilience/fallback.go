package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bloxcoach/bloxcoach/pkg/provider/llm"
)

// ErrAllFailed is returned when every backend in an [LLMChain] fails or has an
// open circuit breaker.
var ErrAllFailed = errors.New("all providers failed")

// FallbackConfig configures the per-entry circuit breaker created for each
// backend in an [LLMChain].
type FallbackConfig struct {
	CircuitBreaker CircuitBreakerConfig
}

// chainEntry pairs an LLM backend with its dedicated circuit breaker.
type chainEntry struct {
	name     string
	provider llm.Provider
	breaker  *CircuitBreaker
}

// LLMChain implements [llm.Provider] with automatic failover across multiple
// LLM backends. Each backend has its own circuit breaker; when the primary
// fails or its breaker is open, the next healthy fallback is tried in
// registration order.
//
// The entry list is fixed after construction time; LLMChain methods are safe
// for concurrent use once all fallbacks are registered.
type LLMChain struct {
	entries []chainEntry
	cfg     FallbackConfig
}

// Compile-time interface assertion.
var _ llm.Provider = (*LLMChain)(nil)

// NewLLMChain creates an [LLMChain] with primary as the preferred backend.
// Additional fallbacks are registered via [LLMChain.AddFallback].
func NewLLMChain(primary llm.Provider, primaryName string, cfg FallbackConfig) *LLMChain {
	cbCfg := cfg.CircuitBreaker
	cbCfg.Name = primaryName
	return &LLMChain{
		entries: []chainEntry{
			{
				name:     primaryName,
				provider: primary,
				breaker:  NewCircuitBreaker(cbCfg),
			},
		},
		cfg: cfg,
	}
}

// AddFallback appends a fallback backend. Fallbacks are tried in the order they
// are added, after the primary.
func (c *LLMChain) AddFallback(name string, provider llm.Provider) {
	cbCfg := c.cfg.CircuitBreaker
	cbCfg.Name = name
	c.entries = append(c.entries, chainEntry{
		name:     name,
		provider: provider,
		breaker:  NewCircuitBreaker(cbCfg),
	})
}

// execute tries fn against each entry in order until one succeeds.
// Circuit-breaker-open entries are skipped. Returns [ErrAllFailed] wrapped with
// the last error if every entry fails.
func execute[R any](c *LLMChain, fn func(llm.Provider) (R, error)) (R, error) {
	var (
		lastErr error
		zero    R
	)
	for i := range c.entries {
		entry := &c.entries[i]
		var result R
		err := entry.breaker.Execute(func() error {
			var innerErr error
			result, innerErr = fn(entry.provider)
			return innerErr
		})
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("skipping llm backend (circuit open)", "backend", entry.name)
		} else {
			slog.Warn("llm backend failed, trying next",
				"backend", entry.name, "error", err)
		}
	}
	return zero, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}

// Complete sends the request to the first healthy backend and returns its
// response. If the primary fails, subsequent fallbacks are tried.
func (c *LLMChain) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return execute(c, func(p llm.Provider) (*llm.CompletionResponse, error) {
		return p.Complete(ctx, req)
	})
}

// StreamCompletion sends the request to the first healthy backend and returns a
// streaming chunk channel. Note: only the initial connection attempt is covered
// by failover; once a stream is established, mid-stream errors are the caller's
// responsibility.
func (c *LLMChain) StreamCompletion(ctx context.Context, req llm.CompletionRequest) (<-chan llm.Chunk, error) {
	return execute(c, func(p llm.Provider) (<-chan llm.Chunk, error) {
		return p.StreamCompletion(ctx, req)
	})
}

// CountTokens delegates to the first healthy backend's token counter.
func (c *LLMChain) CountTokens(messages []llm.Message) (int, error) {
	return execute(c, func(p llm.Provider) (int, error) {
		return p.CountTokens(messages)
	})
}

// Capabilities returns the capabilities of the first entry (the primary).
// This does not participate in failover because capabilities are static metadata.
func (c *LLMChain) Capabilities() llm.ModelCapabilities {
	if len(c.entries) > 0 {
		return c.entries[0].provider.Capabilities()
	}
	return llm.ModelCapabilities{}
}
