package config_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/bloxcoach/bloxcoach/internal/config"
)

func TestValidate_KBPathAndDirExclusive(t *testing.T) {
	t.Parallel()
	yaml := `
kb:
  path: kb/blox_pvp.json
  dir: kb/
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for kb.path together with kb.dir, got nil")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("error should mention mutual exclusion, got: %v", err)
	}
}

func TestValidate_GenerationRequiresProvider(t *testing.T) {
	t.Parallel()
	yaml := `
engine:
  generation:
    mode: fallback
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for generation without providers.llm, got nil")
	}
	if !strings.Contains(err.Error(), "providers.llm") {
		t.Errorf("error should mention providers.llm, got: %v", err)
	}
}

func TestValidate_GenerationOffWithoutProviderIsValid(t *testing.T) {
	t.Parallel()
	yaml := `
engine:
  generation:
    mode: off
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FallbacksRequirePrimary(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  fallbacks:
    - name: ollama
      model: llama3
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for fallbacks without a primary, got nil")
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("error should mention the primary provider, got: %v", err)
	}
}

func TestValidate_FullConfigIsValid(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":8080"
  log_level: info
providers:
  llm:
    name: openai
    api_key: sk-test
    model: gpt-4o-mini
  fallbacks:
    - name: ollama
      base_url: http://localhost:11434
      model: llama3
kb:
  dir: kb/
  strict: true
engine:
  retrieval_top_k: 4
  chunk_size: 1200
  chunk_delay_ms: 18
  generation:
    mode: strict
    timeout_seconds: 60
    max_continuations: 2
    temperature: 0.7
    max_tokens: 700
lexicon:
  path: lexicon.yaml
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Generation.Mode != config.GenerationStrict {
		t.Errorf("generation mode = %q, want strict", cfg.Engine.Generation.Mode)
	}
	if len(cfg.Providers.Fallbacks) != 1 || cfg.Providers.Fallbacks[0].Name != "ollama" {
		t.Errorf("fallbacks = %+v, want one ollama entry", cfg.Providers.Fallbacks)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: bananas
engine:
  chunk_size: -1
  generation:
    mode: sometimes
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
	if !strings.Contains(errStr, "chunk_size") {
		t.Errorf("error should mention chunk_size, got: %v", err)
	}
	if !strings.Contains(errStr, "generation.mode") {
		t.Errorf("error should mention generation.mode, got: %v", err)
	}
}

func TestValidLLMProviders(t *testing.T) {
	t.Parallel()
	if len(config.ValidLLMProviders) == 0 {
		t.Fatal("ValidLLMProviders should not be empty")
	}
	if !slices.Contains(config.ValidLLMProviders, "openai") {
		t.Error("ValidLLMProviders should contain \"openai\"")
	}
}
