package engine

import (
	"github.com/bloxcoach/bloxcoach/internal/facts"
	"github.com/bloxcoach/bloxcoach/internal/session"
)

// elaborate builds the long-form variant for the topic the previous turn
// established. The target entity comes from the current message first, then
// from the previous question, so "counter dough" followed by "elaborate"
// still knows the opponent.
func (e *Engine) elaborate(topic session.Topic, prevQuestion string, entities []string) string {
	var target string
	if len(entities) > 0 {
		target = entities[0]
	} else if prev := e.lex.Detect(prevQuestion); len(prev) > 0 {
		target = prev[0]
	}

	switch topic {
	case session.TopicKenTrick:
		return facts.KenTrickLong

	case session.TopicPlaystyles:
		return facts.PlaystyleLong

	case session.TopicCombos:
		if target == "portal" {
			return facts.PortalCombosLong
		}
		return facts.GenericCombosLong

	case session.TopicCounters:
		if base, ok := facts.CounterFor(target); ok {
			return base + "\n\n" + facts.CounterDeepNotes
		}
		if kbCtx := e.retrieveContext(prevQuestion); kbCtx != "" {
			return kbCtx
		}
		return "Who are we countering? Name the fruit, race, style, or weapon."

	default:
		// usage, builds, and misc have no dedicated long form.
		return "What should I go deeper on — **counters**, **combos**, **Ken Tricking**, or **playstyles**?"
	}
}
