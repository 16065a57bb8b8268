// Package corpus flattens the knowledge base into retrievable text blocks and
// scores them against free-form queries.
//
// Each block carries a precomputed normalised search key; retrieval is
// token-overlap scoring (each query token hitting the key scores +2, with a
// +3 bonus when the full normalised query appears verbatim), descending by
// score with corpus order breaking ties. When nothing scores, the KB's
// "theory" guide — if present — is returned as a single synthetic block so
// callers always have context to work with whenever any KB is loaded.
package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bloxcoach/bloxcoach/internal/kb"
)

// Tag classifies the KB section a block was derived from.
type Tag string

const (
	TagCombo     Tag = "combo"
	TagCounter   Tag = "counter"
	TagBuild     Tag = "build"
	TagTheory    Tag = "theory"
	TagGuide     Tag = "guide"
	TagRace      Tag = "race"
	TagPlaystyle Tag = "playstyle"
	TagFruit     Tag = "fruit"
)

// Block is one retrievable unit of knowledge-base text. Blocks have no
// identity beyond the KB record they were derived from.
type Block struct {
	Tag   Tag
	Title string
	Body  string

	// key is the normalised search key the retriever scores against.
	key string
}

// String renders the block as a single context line.
func (b Block) String() string {
	return fmt.Sprintf("• %s | %s: %s", titleCase(string(b.Tag)), b.Title, b.Body)
}

// Build flattens every KB section into scored blocks. The result preserves KB
// declaration order within and across sections; it is safe to cache for the
// lifetime of the (immutable) KB.
func Build(k *kb.KnowledgeBase) []Block {
	if k == nil {
		return nil
	}
	var blocks []Block

	for _, c := range k.Combos {
		blocks = append(blocks, Block{
			Tag:   TagCombo,
			Title: c.Title,
			Body:  strings.Join(c.Inputs, " → ") + " | " + strings.Join(c.Notes, " | "),
			key:   Normalize("combo " + c.Title + " " + strings.Join(c.Inputs, " ") + " " + strings.Join(c.Notes, " ")),
		})
	}
	for _, ct := range k.Counters {
		enemy := ct.Enemy
		if enemy == "" {
			enemy = "?"
		}
		blocks = append(blocks, Block{
			Tag:   TagCounter,
			Title: "vs " + enemy,
			Body:  strings.Join(ct.Tips, " | "),
			key:   Normalize("counter " + ct.Enemy + " " + strings.Join(ct.Tips, " ") + " " + strings.Join(ct.Use, " ")),
		})
	}
	for _, b := range k.Builds {
		label := b.Label
		if label == "" {
			label = "Build"
		}
		blocks = append(blocks, Block{
			Tag:   TagBuild,
			Title: label,
			Body:  strings.Join(b.Notes, " | "),
			key:   Normalize("build " + b.Label + " " + b.Style + " " + strings.Join(b.Notes, " ") + " " + strings.Join(b.Accessories, " ")),
		})
	}
	for _, r := range k.Races {
		blocks = append(blocks, Block{
			Tag:   TagRace,
			Title: r.Name,
			Body:  strings.Join(r.Tips, " | "),
			key:   Normalize("race " + r.Name + " " + strings.Join(r.Tips, " ")),
		})
	}
	for _, p := range k.Playstyles {
		blocks = append(blocks, Block{
			Tag:   TagPlaystyle,
			Title: p.Name,
			Body:  strings.Join(p.Notes, " | "),
			key:   Normalize("playstyle " + p.Name + " " + strings.Join(p.Notes, " ")),
		})
	}
	for _, f := range k.Fruits {
		blocks = append(blocks, Block{
			Tag:   TagFruit,
			Title: f.Name,
			Body:  strings.Join(f.Notes, " | "),
			key:   Normalize("fruit " + f.Name + " " + strings.Join(f.Notes, " ")),
		})
	}
	for _, g := range sortedGuides(k.Guides) {
		tag := TagGuide
		title := titleCase(g.name)
		if g.name == "theory" {
			tag = TagTheory
			title = "PvP Theory"
		}
		blocks = append(blocks, Block{
			Tag:   tag,
			Title: title,
			Body:  g.text,
			key:   Normalize("guide " + g.name + " " + g.text),
		})
	}

	return blocks
}

type guideEntry struct{ name, text string }

// sortedGuides returns guide entries in name order so corpus construction is
// deterministic across runs (map iteration order is not).
func sortedGuides(guides map[string]string) []guideEntry {
	out := make([]guideEntry, 0, len(guides))
	for name, text := range guides {
		out = append(out, guideEntry{name, text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Normalize lowercases s, strips every character outside [a-z0-9] and
// whitespace, collapses runs of whitespace, and trims.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			sb.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
