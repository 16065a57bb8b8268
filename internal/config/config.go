// Package config provides the configuration schema, loader, and provider
// registry for the bloxcoach server.
package config

// LogLevel controls log verbosity for the bloxcoach server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// GenerationMode selects how the engine uses the generative LLM backend for
// free-form questions.
type GenerationMode string

const (
	// GenerationOff disables the LLM entirely; free-form questions are
	// answered from retrieval and canned prompts only.
	GenerationOff GenerationMode = "off"

	// GenerationFallback tries the LLM for free-form questions and degrades
	// to the deterministic path when it fails.
	GenerationFallback GenerationMode = "fallback"

	// GenerationStrict only generates when retrieval produced grounding
	// context, refusing to answer from the model's own knowledge.
	GenerationStrict GenerationMode = "strict"
)

// IsValid reports whether m is a recognised generation mode.
func (m GenerationMode) IsValid() bool {
	switch m {
	case GenerationOff, GenerationFallback, GenerationStrict:
		return true
	}
	return false
}

// Config is the root configuration structure for bloxcoach.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server        ServerConfig    `yaml:"server"`
	Providers     ProvidersConfig `yaml:"providers"`
	KnowledgeBase KBConfig        `yaml:"kb"`
	Engine        EngineConfig    `yaml:"engine"`
	Lexicon       LexiconConfig   `yaml:"lexicon"`
}

// ServerConfig holds network and logging settings for the bloxcoach server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// ProvidersConfig declares the generative LLM backend chain. LLM is the
// primary provider; Fallbacks are tried in order when the primary fails or
// its circuit breaker is open. All entries select named providers registered
// in the [Registry].
type ProvidersConfig struct {
	LLM       ProviderEntry   `yaml:"llm"`
	Fallbacks []ProviderEntry `yaml:"fallbacks"`
}

// ProviderEntry is the common configuration block for an LLM provider.
// The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "openai", "ollama").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "gpt-4o-mini").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by the
	// standard fields above. Values may be strings, numbers, booleans, or nested maps.
	Options map[string]any `yaml:"options"`
}

// KBConfig locates the knowledge base the retrieval corpus is built from.
// Path and Dir are mutually exclusive; with neither set the coach runs on
// canned facts only.
type KBConfig struct {
	// Path is a single JSON knowledge base file.
	Path string `yaml:"path"`

	// Dir is a directory of per-section JSON files merged in a fixed order.
	Dir string `yaml:"dir"`

	// Strict makes any knowledge-base problem fatal at startup: a missing
	// per-section file under Dir, or an unparseable file. Without it the
	// server logs the failure and runs on canned facts alone.
	Strict bool `yaml:"strict"`
}

// EngineConfig tunes the coaching engine.
type EngineConfig struct {
	// RetrievalTopK caps how many corpus blocks a retrieval returns.
	// Zero means the engine default.
	RetrievalTopK int `yaml:"retrieval_top_k"`

	// TheoryExcerptChars caps the synthetic theory fallback block, in bytes.
	// Zero means the engine default.
	TheoryExcerptChars int `yaml:"theory_excerpt_chars"`

	// ChunkSize is the maximum reply segment length in characters.
	// Zero means the engine default.
	ChunkSize int `yaml:"chunk_size"`

	// ChunkDelayMS is the pause between streamed reply segments, in
	// milliseconds. Zero means the engine default.
	ChunkDelayMS int `yaml:"chunk_delay_ms"`

	// Generation configures the optional LLM backend.
	Generation GenerationConfig `yaml:"generation"`
}

// GenerationConfig tunes the generative backend for free-form questions.
type GenerationConfig struct {
	// Mode selects off, fallback, or strict generation. Empty means off.
	Mode GenerationMode `yaml:"mode"`

	// TimeoutSeconds bounds a single generation including continuation
	// rounds. Zero means the engine default.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxContinuations caps how many "Continue." rounds follow a truncated
	// completion. Zero means the engine default.
	MaxContinuations int `yaml:"max_continuations"`

	// Temperature is the sampling temperature passed to the provider.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps the completion length per round. Zero lets the
	// provider decide.
	MaxTokens int `yaml:"max_tokens"`
}

// LexiconConfig points at an optional alias table override file. The file
// either extends or replaces the built-in table; which one is declared inside
// the file itself.
type LexiconConfig struct {
	// Path is the YAML override file. Empty means built-in table only.
	Path string `yaml:"path"`
}
