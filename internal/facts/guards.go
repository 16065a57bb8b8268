package facts

import (
	"regexp"
	"strings"
)

// Guard rules run before intent classification and short-circuit the whole
// turn: a hit returns a fixed corrective statement regardless of what the
// player was otherwise asking. Order matters — the first hit wins.

var (
	guardSprite   = regexp.MustCompile(`\bsprite\b`)
	guardHaki     = regexp.MustCompile(`haki|aura`)
	guardInstinct = regexp.MustCompile(`\binstinct\b`)
	guardKenRef   = regexp.MustCompile(`ken|trick`)
)

const (
	spriteCorrection = "There's no Sprite race in Blox Fruits. Valid races include Angel, Cyborg, Draco, Ghoul, Rabbit."

	hakiCorrection = "Aura (Haki) lets you hit Elemental users — it doesn't buff damage. Keep it on to bypass Elementals."

	instinctCorrection = "Instinct helps with dodging/reading, not stats. Use **Ken Tricking** (timed ON/OFF) to survive combos and punish endlag."
)

// Guard tests the factual-correction triggers against the raw question and
// returns the corrective statement on a hit. The instinct correction is
// suppressed when the message also references Ken Tricking, since that is a
// legitimate technique question rather than a stat misconception.
func Guard(question string) (string, bool) {
	q := strings.ToLower(question)
	switch {
	case guardSprite.MatchString(q):
		return spriteCorrection, true
	case guardHaki.MatchString(q):
		return hakiCorrection, true
	case guardInstinct.MatchString(q) && !guardKenRef.MatchString(q):
		return instinctCorrection, true
	}
	return "", false
}
