package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidLLMProviders lists known LLM provider names.
// Used by [Validate] to warn about unrecognised provider names.
var ValidLLMProviders = []string{
	"openai", "anthropic", "ollama", "gemini", "deepseek",
	"mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" || tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("providers.llm", cfg.Providers.LLM.Name)
	for i, entry := range cfg.Providers.Fallbacks {
		validateProviderName(fmt.Sprintf("providers.fallbacks[%d]", i), entry.Name)
		if entry.Name == "" {
			errs = append(errs, fmt.Errorf("providers.fallbacks[%d].name is required", i))
		}
	}
	if len(cfg.Providers.Fallbacks) > 0 && cfg.Providers.LLM.Name == "" {
		errs = append(errs, errors.New("providers.fallbacks requires a primary providers.llm"))
	}

	// Knowledge base
	if cfg.KnowledgeBase.Path != "" && cfg.KnowledgeBase.Dir != "" {
		errs = append(errs, errors.New("kb.path and kb.dir are mutually exclusive"))
	}
	if cfg.KnowledgeBase.Strict && cfg.KnowledgeBase.Dir == "" {
		slog.Warn("kb.strict has no effect without kb.dir")
	}
	if cfg.KnowledgeBase.Path == "" && cfg.KnowledgeBase.Dir == "" {
		slog.Warn("no knowledge base configured; coach will run on canned facts only")
	}

	// Engine tuning
	eng := cfg.Engine
	if eng.RetrievalTopK < 0 {
		errs = append(errs, fmt.Errorf("engine.retrieval_top_k %d must not be negative", eng.RetrievalTopK))
	}
	if eng.TheoryExcerptChars < 0 {
		errs = append(errs, fmt.Errorf("engine.theory_excerpt_chars %d must not be negative", eng.TheoryExcerptChars))
	}
	if eng.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("engine.chunk_size %d must not be negative", eng.ChunkSize))
	}
	if eng.ChunkDelayMS < 0 {
		errs = append(errs, fmt.Errorf("engine.chunk_delay_ms %d must not be negative", eng.ChunkDelayMS))
	}

	// Generation
	gen := eng.Generation
	if gen.Mode != "" && !gen.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("engine.generation.mode %q is invalid; valid values: off, fallback, strict", gen.Mode))
	}
	if gen.Mode != "" && gen.Mode != GenerationOff && cfg.Providers.LLM.Name == "" {
		errs = append(errs, fmt.Errorf("engine.generation.mode %q requires providers.llm to be configured", gen.Mode))
	}
	if gen.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("engine.generation.timeout_seconds %d must not be negative", gen.TimeoutSeconds))
	}
	if gen.MaxContinuations < 0 {
		errs = append(errs, fmt.Errorf("engine.generation.max_continuations %d must not be negative", gen.MaxContinuations))
	}
	if gen.Temperature < 0 || gen.Temperature > 2 {
		errs = append(errs, fmt.Errorf("engine.generation.temperature %.2f is out of range [0, 2]", gen.Temperature))
	}
	if gen.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("engine.generation.max_tokens %d must not be negative", gen.MaxTokens))
	}
	if cfg.Providers.LLM.Name != "" && (gen.Mode == "" || gen.Mode == GenerationOff) {
		slog.Warn("providers.llm is configured but engine.generation.mode is off; provider will not be used")
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidLLMProviders] list.
func validateProviderName(where, name string) {
	if name == "" {
		return
	}
	if slices.Contains(ValidLLMProviders, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"config", where,
		"name", name,
		"known", ValidLLMProviders,
	)
}
