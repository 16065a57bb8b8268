// Package lexicon provides the alias table and entity detector for the
// coaching engine.
//
// A lexicon maps canonical entity names (fruits, fighting styles, swords,
// guns, races) to the surface forms players actually type ("gh" for
// "godhuman", "doe" for "dough"). Detection is exact and whole-word: an alias
// embedded in a longer word never matches. Fuzzy handling lives in
// [Lexicon.Suggest] and is only used to phrase clarifying questions, never to
// silently rewrite input.
//
// The built-in table ([Default]) can be replaced or extended from a YAML file
// via [LoadFile]. All methods are safe for concurrent use — a Lexicon is
// read-only after construction.
package lexicon

import (
	"fmt"
	"strings"
)

// Kind classifies a lexicon entry.
type Kind string

const (
	// KindFruit is a Blox Fruit (e.g., dough, portal).
	KindFruit Kind = "fruit"

	// KindStyle is a fighting style (e.g., godhuman).
	KindStyle Kind = "style"

	// KindSword is a sword-class weapon.
	KindSword Kind = "sword"

	// KindGun is a gun-class weapon.
	KindGun Kind = "gun"

	// KindRace is a playable race, including V4 awakenings.
	KindRace Kind = "race"
)

// IsValid reports whether k is a recognised entry kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindFruit, KindStyle, KindSword, KindGun, KindRace:
		return true
	}
	return false
}

// Entry pairs a canonical entity name with the surface forms that resolve to it.
type Entry struct {
	// Canonical is the normalised entity name used as a dictionary key
	// throughout the engine, regardless of which alias the player typed.
	Canonical string `yaml:"canonical"`

	// Kind classifies the entity.
	Kind Kind `yaml:"kind"`

	// Aliases lists accepted surface forms, all lowercase. The canonical name
	// itself must be included if it should match.
	Aliases []string `yaml:"aliases"`
}

// Lexicon is an ordered alias table with a precomputed reverse index.
// Declaration order of entries is significant: [Lexicon.Detect] returns
// canonicals in declaration order, and the rest of the engine treats the
// first detected entity as representative.
type Lexicon struct {
	entries []Entry
	kinds   map[string]Kind
}

// New builds a [Lexicon] from entries. It returns an error when an entry is
// missing a canonical name, carries an invalid kind, or when the same alias is
// claimed by two different canonicals.
func New(entries []Entry) (*Lexicon, error) {
	aliasOwner := make(map[string]string)
	kinds := make(map[string]Kind, len(entries))

	for i, e := range entries {
		if e.Canonical == "" {
			return nil, fmt.Errorf("lexicon: entry %d has no canonical name", i)
		}
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("lexicon: entry %q has invalid kind %q", e.Canonical, e.Kind)
		}
		if _, dup := kinds[e.Canonical]; dup {
			return nil, fmt.Errorf("lexicon: duplicate canonical %q", e.Canonical)
		}
		kinds[e.Canonical] = e.Kind

		for _, a := range e.Aliases {
			norm := normalizeTerm(a)
			if norm == "" {
				return nil, fmt.Errorf("lexicon: entry %q has an empty alias", e.Canonical)
			}
			if owner, ok := aliasOwner[norm]; ok && owner != e.Canonical {
				return nil, fmt.Errorf("lexicon: alias %q claimed by both %q and %q", a, owner, e.Canonical)
			}
			aliasOwner[norm] = e.Canonical
		}
	}

	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Lexicon{entries: cp, kinds: kinds}, nil
}

// Detect scans text for whole-word alias matches and returns the canonical
// names of every entity mentioned, in lexicon declaration order. Multiple
// aliases of the same canonical collapse to a single result.
//
// Matching is case-insensitive and punctuation-blind: both the text and each
// alias are normalised to lowercase alphanumeric words before comparison, so
// "E-Claw!" matches the alias "eclaw" while "sanding" never matches "sand".
func (l *Lexicon) Detect(text string) []string {
	padded := " " + normalizeTerm(text) + " "

	var found []string
	for _, e := range l.entries {
		for _, a := range e.Aliases {
			if strings.Contains(padded, " "+normalizeTerm(a)+" ") {
				found = append(found, e.Canonical)
				break
			}
		}
	}
	return found
}

// KindOf returns the kind of the given canonical name, or "" when the name is
// not in the lexicon.
func (l *Lexicon) KindOf(canonical string) Kind {
	return l.kinds[canonical]
}

// Canonicals returns all canonical names in declaration order.
func (l *Lexicon) Canonicals() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Canonical
	}
	return out
}

// normalizeTerm lowercases s, replaces every non-alphanumeric rune with a
// space, and collapses runs of whitespace. The same normalisation is applied
// to input text and aliases so word boundaries always line up.
func normalizeTerm(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
