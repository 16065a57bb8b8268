package lexicon

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	// suggestPhoneticThreshold is the minimum Jaro-Winkler score required for
	// a phonetically-matched canonical to be suggested.
	suggestPhoneticThreshold = 0.70

	// suggestFuzzyThreshold is the minimum Jaro-Winkler score required when no
	// phonetic overlap exists.
	suggestFuzzyThreshold = 0.85
)

// Suggest returns the canonical name that most closely resembles a word or
// bigram of text, for use in "did you mean" clarifying questions. It never
// promotes a suggestion into a detection: callers that need a confirmed
// entity must use [Lexicon.Detect].
//
// Candidate selection runs in two stages. Double Metaphone codes of each
// input token are compared against the codes of every canonical name; any
// overlap makes that canonical a phonetic candidate, ranked by Jaro-Winkler
// similarity. When nothing overlaps phonetically, a pure Jaro-Winkler pass
// with a stricter threshold runs instead.
func (l *Lexicon) Suggest(text string) (canonical string, ok bool) {
	tokens := strings.Fields(normalizeTerm(text))
	if len(tokens) == 0 {
		return "", false
	}

	// Compare each token and each adjacent bigram against the table so
	// multi-word canonicals ("shark anchor") remain reachable.
	candidates := make([]string, 0, len(tokens)*2-1)
	candidates = append(candidates, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		candidates = append(candidates, tokens[i]+" "+tokens[i+1])
	}

	var (
		best         string
		bestScore    float64
		bestPhonetic bool
	)
	for _, cand := range candidates {
		// Skip anything that is already an exact alias; Detect handles those.
		if len(l.Detect(cand)) > 0 {
			continue
		}
		candCodes := metaphoneCodes(cand)

		for _, e := range l.entries {
			phonetic := codesOverlap(candCodes, metaphoneCodes(e.Canonical))
			score := matchr.JaroWinkler(cand, e.Canonical, true)

			switch {
			case phonetic && score >= suggestPhoneticThreshold:
				if !bestPhonetic || score > bestScore {
					best, bestScore, bestPhonetic = e.Canonical, score, true
				}
			case !phonetic && !bestPhonetic && score >= suggestFuzzyThreshold && score > bestScore:
				best, bestScore = e.Canonical, score
			}
		}
	}

	if best == "" {
		return "", false
	}
	return best, true
}

// metaphoneCodes returns the union of Double Metaphone codes for every token
// in s. Empty codes are excluded.
func metaphoneCodes(s string) map[string]struct{} {
	codes := make(map[string]struct{}, 4)
	for _, t := range strings.Fields(s) {
		p, sec := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if sec != "" {
			codes[sec] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for c := range a {
		if _, ok := b[c]; ok {
			return true
		}
	}
	return false
}
