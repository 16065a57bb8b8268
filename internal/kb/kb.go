// Package kb loads the optional JSON knowledge base consumed by the corpus
// builder.
//
// The knowledge base is a read-only asset: it is loaded once at startup and
// treated as immutable for the lifetime of the process. A missing file is not
// an error — the engine degrades to its canned-fact tables — and malformed
// entries are defaulted rather than rejected, so a partially hand-edited KB
// still loads.
//
// Two layouts are supported: a single file holding every section, and a
// directory of per-section files merged by [LoadDir]. The directory merge is
// lenient by default (missing section files are skipped with a warning);
// strict mode aborts the merge on the first missing file.
package kb

// KnowledgeBase is the decoded knowledge base. Every field is optional; the
// zero value is a valid, empty KB.
type KnowledgeBase struct {
	Combos     []Combo           `json:"combos"`
	Counters   []Counter         `json:"counters"`
	Builds     []Build           `json:"builds"`
	Races      []Race            `json:"races"`
	Playstyles []Playstyle       `json:"playstyles"`
	Fruits     []Fruit           `json:"fruits"`
	Guides     map[string]string `json:"guides"`

	// About and Fundamentals are free-text sections kept for display; the
	// retriever does not index them.
	About        string `json:"about"`
	Fundamentals string `json:"fundamentals"`
}

// Combo is one combo route: ordered move inputs plus execution notes.
type Combo struct {
	Title  string   `json:"title"`
	Inputs []string `json:"inputs"`
	Notes  []string `json:"notes"`
}

// Counter holds matchup advice against one enemy kit.
type Counter struct {
	Enemy string   `json:"enemy"`
	Tips  []string `json:"tips"`

	// Use optionally lists the kits this advice assumes the player is on.
	Use []string `json:"use"`
}

// Build is a stat/gear archetype.
type Build struct {
	Label       string   `json:"label"`
	Style       string   `json:"style"`
	Notes       []string `json:"notes"`
	Accessories []string `json:"accessories"`
}

// Race describes a playable race and how it fits into PvP.
type Race struct {
	Name string   `json:"name"`
	Tips []string `json:"tips"`
}

// Playstyle describes a named approach to fights.
type Playstyle struct {
	Name  string   `json:"name"`
	Notes []string `json:"notes"`
}

// Fruit holds per-fruit PvP notes.
type Fruit struct {
	Name  string   `json:"name"`
	Notes []string `json:"notes"`
}

// IsEmpty reports whether the KB carries no retrievable content at all.
func (k *KnowledgeBase) IsEmpty() bool {
	return k == nil ||
		len(k.Combos) == 0 && len(k.Counters) == 0 && len(k.Builds) == 0 &&
			len(k.Races) == 0 && len(k.Playstyles) == 0 && len(k.Fruits) == 0 &&
			len(k.Guides) == 0
}

// Theory returns the "theory" guide text, the designated retrieval fallback,
// or "" when the KB has none.
func (k *KnowledgeBase) Theory() string {
	if k == nil {
		return ""
	}
	return k.Guides["theory"]
}

// normalize defaults nil slices and maps so downstream code never guards
// against absent fields.
func (k *KnowledgeBase) normalize() {
	if k.Guides == nil {
		k.Guides = map[string]string{}
	}
	for i := range k.Combos {
		if k.Combos[i].Inputs == nil {
			k.Combos[i].Inputs = []string{}
		}
		if k.Combos[i].Notes == nil {
			k.Combos[i].Notes = []string{}
		}
	}
	for i := range k.Counters {
		if k.Counters[i].Tips == nil {
			k.Counters[i].Tips = []string{}
		}
	}
	for i := range k.Builds {
		if k.Builds[i].Notes == nil {
			k.Builds[i].Notes = []string{}
		}
	}
	for i := range k.Races {
		if k.Races[i].Tips == nil {
			k.Races[i].Tips = []string{}
		}
	}
	for i := range k.Playstyles {
		if k.Playstyles[i].Notes == nil {
			k.Playstyles[i].Notes = []string{}
		}
	}
	for i := range k.Fruits {
		if k.Fruits[i].Notes == nil {
			k.Fruits[i].Notes = []string{}
		}
	}
}
