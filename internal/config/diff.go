package config

import "reflect"

// ConfigDiff describes what changed between two configs. Log level and engine
// tuning can be hot-reloaded; provider, knowledge base, lexicon, and server
// changes need a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// EngineChanged is true when any engine tuning field changed, including
	// the generation settings.
	EngineChanged bool

	// GenerationChanged is true when generation mode or its tuning changed.
	GenerationChanged bool

	// RestartRequired is true when a change cannot be applied in place:
	// server address, TLS, providers, knowledge base, or lexicon.
	RestartRequired bool
}

// Changed reports whether the diff contains any change at all.
func (d ConfigDiff) Changed() bool {
	return d.LogLevelChanged || d.EngineChanged || d.RestartRequired
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Engine.Generation != new.Engine.Generation {
		d.GenerationChanged = true
		d.EngineChanged = true
	}
	if old.Engine != new.Engine {
		d.EngineChanged = true
	}

	if old.Server.ListenAddr != new.Server.ListenAddr {
		d.RestartRequired = true
	}
	if !tlsEqual(old.Server.TLS, new.Server.TLS) {
		d.RestartRequired = true
	}
	if !providersEqual(old.Providers, new.Providers) {
		d.RestartRequired = true
	}
	if old.KnowledgeBase != new.KnowledgeBase {
		d.RestartRequired = true
	}
	if old.Lexicon != new.Lexicon {
		d.RestartRequired = true
	}

	return d
}

func tlsEqual(a, b *TLSConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func providersEqual(a, b ProvidersConfig) bool {
	if !entryEqual(a.LLM, b.LLM) {
		return false
	}
	if len(a.Fallbacks) != len(b.Fallbacks) {
		return false
	}
	for i := range a.Fallbacks {
		if !entryEqual(a.Fallbacks[i], b.Fallbacks[i]) {
			return false
		}
	}
	return true
}

func entryEqual(a, b ProviderEntry) bool {
	return a.Name == b.Name &&
		a.APIKey == b.APIKey &&
		a.BaseURL == b.BaseURL &&
		a.Model == b.Model &&
		reflect.DeepEqual(a.Options, b.Options)
}
