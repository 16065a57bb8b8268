package engine

import (
	"regexp"
	"unicode/utf8"
)

// paraSep splits text on paragraph boundaries (runs of two or more newlines).
var paraSep = regexp.MustCompile(`\n{2,}`)

// Chunk paginates s into segments of at most max characters, preferring
// paragraph boundaries. Paragraphs are greedily packed into the current
// segment; a paragraph that alone exceeds max is hard-split at max-character
// boundaries. The result is never empty: text already within bounds comes
// back as a single-element list.
func Chunk(s string, max int) []string {
	if max <= 0 {
		max = DefaultChunkSize
	}
	if utf8.RuneCountInString(s) <= max {
		return []string{s}
	}

	var out []string
	buf := ""
	for _, p := range paraSep.Split(s, -1) {
		// The separator's two newlines count against the budget even for the
		// first paragraph of a segment.
		if utf8.RuneCountInString(buf)+2+utf8.RuneCountInString(p) <= max {
			if buf == "" {
				buf = p
			} else {
				buf = buf + "\n\n" + p
			}
			continue
		}

		if buf != "" {
			out = append(out, buf)
			buf = ""
		}
		if utf8.RuneCountInString(p) <= max {
			out = append(out, p)
			continue
		}
		runes := []rune(p)
		for i := 0; i < len(runes); i += max {
			end := min(i+max, len(runes))
			out = append(out, string(runes[i:end]))
		}
	}
	if buf != "" {
		out = append(out, buf)
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}
