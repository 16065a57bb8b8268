package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// sectionFiles lists the per-section file names recognised by [LoadDir], in
// merge order. core.json may carry any subset of sections and is merged first.
var sectionFiles = []string{
	"core.json",
	"combos.json",
	"counters.json",
	"builds.json",
	"races.json",
	"playstyles.json",
	"fruits.json",
	"guides.json",
}

// Load reads a single-file knowledge base from path. A missing file returns
// an empty KB and no error; any other I/O or decode failure is returned.
func Load(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("knowledge base file not found; running on canned facts only", "path", path)
		return &KnowledgeBase{Guides: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kb: open %q: %w", path, err)
	}
	defer f.Close()

	k, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("kb: parse %q: %w", path, err)
	}
	return k, nil
}

// LoadDir reads a multi-file knowledge base from dir and merges the per-section
// files in [sectionFiles] order: list sections concatenate, guide maps merge
// with later files winning on key collisions.
//
// In lenient mode (strict=false, the default posture) missing section files
// are skipped with a warning. In strict mode the first missing file aborts
// the whole merge, leaving the caller with no KB rather than a partial one.
func LoadDir(dir string, strict bool) (*KnowledgeBase, error) {
	merged := &KnowledgeBase{Guides: map[string]string{}}

	for _, name := range sectionFiles {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			if strict {
				return nil, fmt.Errorf("kb: strict merge: missing %q: %w", path, err)
			}
			slog.Warn("knowledge base section missing; skipping", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("kb: open %q: %w", path, err)
		}

		part, err := decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("kb: parse %q: %w", path, err)
		}
		merge(merged, part)
	}

	return merged, nil
}

// decode parses one KB document and normalises absent fields.
func decode(r io.Reader) (*KnowledgeBase, error) {
	k := &KnowledgeBase{}
	if err := json.NewDecoder(r).Decode(k); err != nil {
		return nil, err
	}
	k.normalize()
	return k, nil
}

// merge appends part's list sections onto dst and overlays its guide map.
func merge(dst, part *KnowledgeBase) {
	dst.Combos = append(dst.Combos, part.Combos...)
	dst.Counters = append(dst.Counters, part.Counters...)
	dst.Builds = append(dst.Builds, part.Builds...)
	dst.Races = append(dst.Races, part.Races...)
	dst.Playstyles = append(dst.Playstyles, part.Playstyles...)
	dst.Fruits = append(dst.Fruits, part.Fruits...)
	for name, text := range part.Guides {
		dst.Guides[name] = text
	}
	if part.About != "" {
		dst.About = part.About
	}
	if part.Fundamentals != "" {
		dst.Fundamentals = part.Fundamentals
	}
}
