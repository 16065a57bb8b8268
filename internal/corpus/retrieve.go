package corpus

import (
	"sort"
	"strings"
)

const (
	// tokenHitScore is awarded per query token found in a block key.
	tokenHitScore = 2

	// phraseBonus is awarded when the full normalised query appears verbatim.
	phraseBonus = 3

	// DefaultTopK caps results when the caller does not configure a limit.
	DefaultTopK = 5
)

// expansions maps community shorthand to the vocabulary the KB actually uses.
// Expanded tokens are scored alongside the originals, never instead of them.
var expansions = map[string][]string{
	"gh":    {"godhuman"},
	"cdk":   {"cursed", "dual", "katana"},
	"eclaw": {"electric", "claw"},
	"dt":    {"dragon", "trident"},
	"haki":  {"aura"},
	"ken":   {"instinct"},
}

// Retriever scores corpus blocks against normalised queries.
// It is read-only after construction and safe for concurrent use.
type Retriever struct {
	blocks    []Block
	topK      int
	theory    string
	theoryLen int
}

// Option is a functional option for configuring a [Retriever].
type Option func(*Retriever)

// WithTopK sets the maximum number of blocks returned per query.
// Default is [DefaultTopK].
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithTheoryExcerpt sets the maximum length, in bytes, of the synthetic
// theory fallback block. Default is 800.
func WithTheoryExcerpt(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.theoryLen = n
		}
	}
}

// NewRetriever builds a retriever over blocks. theory is the fallback guide
// text returned when no block matches; pass "" when the KB has no theory guide.
func NewRetriever(blocks []Block, theory string, opts ...Option) *Retriever {
	r := &Retriever{
		blocks:    blocks,
		topK:      DefaultTopK,
		theory:    theory,
		theoryLen: 800,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Size returns the number of indexed corpus blocks.
func (r *Retriever) Size() int {
	return len(r.blocks)
}

// Retrieve returns the top-scoring blocks for query, at most the configured
// K. With zero matches it falls back to a single synthetic theory block when
// the KB has a theory guide; otherwise it returns nil. An empty corpus and no
// theory yields nil — never an error.
func (r *Retriever) Retrieve(query string) []Block {
	norm := Normalize(query)
	if norm == "" {
		return r.fallback()
	}

	tokens := expandTokens(strings.Fields(norm))
	phrase := strings.Join(tokens, " ")

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, b := range r.blocks {
		score := 0
		for _, tok := range tokens {
			if containsWord(b.key, tok) {
				score += tokenHitScore
			}
		}
		if strings.Contains(b.key, phrase) {
			score += phraseBonus
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}

	if len(hits) == 0 {
		return r.fallback()
	}

	// Descending by score; corpus order breaks ties so results are stable.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > r.topK {
		hits = hits[:r.topK]
	}

	out := make([]Block, len(hits))
	for i, h := range hits {
		out[i] = r.blocks[h.idx]
	}
	return out
}

// fallback builds the synthetic theory block, truncated to the configured
// excerpt length at a rune boundary.
func (r *Retriever) fallback() []Block {
	if r.theory == "" {
		return nil
	}
	text := r.theory
	if len(text) > r.theoryLen {
		cut := r.theoryLen
		for cut > 0 && !isASCIIBoundary(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = r.theoryLen
		}
		text = strings.TrimSpace(text[:cut]) + "…"
	}
	return []Block{{
		Tag:   TagTheory,
		Title: "PvP Theory",
		Body:  text,
		key:   Normalize(text),
	}}
}

// expandTokens appends shorthand expansions after the original tokens,
// deduplicating the result.
func expandTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range tokens {
		add(t)
	}
	for _, t := range tokens {
		for _, e := range expansions[t] {
			add(e)
		}
	}
	return out
}

// containsWord reports whether key contains tok as a whole word. Keys are
// already normalised, so spaces are the only separators.
func containsWord(key, tok string) bool {
	return strings.Contains(" "+key+" ", " "+tok+" ")
}

// isASCIIBoundary reports whether b is a safe truncation point (start of an
// ASCII rune or a space), avoiding mid-rune cuts in UTF-8 guide text.
func isASCIIBoundary(b byte) bool {
	return b < 0x80 || b >= 0xC0
}
