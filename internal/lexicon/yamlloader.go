package lexicon

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the YAML document shape accepted by [LoadFile].
type fileSchema struct {
	// Entries replaces the built-in table entirely when non-empty.
	Entries []Entry `yaml:"entries"`

	// Extend appends to the built-in table instead of replacing it.
	Extend []Entry `yaml:"extend"`
}

// LoadFile reads a lexicon override file. The file may either declare a full
// replacement table under `entries` or additions under `extend`; declaring
// both is an error.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %q: %w", path, err)
	}
	defer f.Close()

	l, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon: parse %q: %w", path, err)
	}
	return l, nil
}

// LoadFromReader decodes a lexicon override document from r.
// Useful in tests where tables are constructed from string literals.
func LoadFromReader(r io.Reader) (*Lexicon, error) {
	var doc fileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("lexicon: decode yaml: %w", err)
	}

	switch {
	case len(doc.Entries) > 0 && len(doc.Extend) > 0:
		return nil, fmt.Errorf("lexicon: `entries` and `extend` are mutually exclusive")
	case len(doc.Entries) > 0:
		return New(doc.Entries)
	case len(doc.Extend) > 0:
		merged := make([]Entry, 0, len(defaultEntries)+len(doc.Extend))
		merged = append(merged, defaultEntries...)
		merged = append(merged, doc.Extend...)
		return New(merged)
	default:
		return nil, fmt.Errorf("lexicon: document declares neither `entries` nor `extend`")
	}
}
