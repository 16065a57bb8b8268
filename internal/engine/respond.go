package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bloxcoach/bloxcoach/internal/facts"
	"github.com/bloxcoach/bloxcoach/internal/intent"
	"github.com/bloxcoach/bloxcoach/internal/session"
)

// respond synthesizes the reply for one turn and returns the next session
// state. Guard rules run before classification and short-circuit everything;
// an elaborate request (or active deep mode) always expands the topic the
// previous turn established, never the current intent.
func (e *Engine) respond(ctx context.Context, q string, st session.State) (*Reply, session.State) {
	orig := st
	prevQuestion := st.LastQuestion
	st.LastQuestion = q

	if correction, ok := facts.Guard(q); ok {
		return &Reply{Text: correction, Intent: intent.KindFree}, st
	}

	in := intent.Classify(q)
	entities := e.lex.Detect(q)
	reply := &Reply{Intent: in.Kind, Entities: entities}

	if in.Kind == intent.KindToggle {
		st.DeepMode = in.ToggleOn
		if st.DeepMode {
			reply.Text = "Deep mode: ON."
		} else {
			reply.Text = "Deep mode: OFF."
		}
		return reply, st
	}

	if in.Kind == intent.KindElaborate || (st.DeepMode && in.Kind != intent.KindGreet) {
		reply.Text = e.elaborate(st.LastTopic, prevQuestion, entities)
		return reply, st
	}

	switch in.Kind {
	case intent.KindCounter:
		st.LastTopic = session.TopicCounters
		if len(entities) > 0 {
			if fact, ok := facts.CounterFor(entities[0]); ok {
				reply.Text = fact + "  (say **elaborate** for the full plan)"
				return reply, st
			}
		}
		if kbCtx := e.retrieveContext(q); kbCtx != "" {
			reply.Text = kbCtx + "\nSay **elaborate** for more."
			return reply, st
		}
		reply.Text = e.clarify("Who you fighting? (fruit/race/style/weapon)", q)

	case intent.KindCombo:
		st.LastTopic = session.TopicCombos
		if slices.Contains(entities, "portal") {
			reply.Text = facts.PortalCombo
			return reply, st
		}
		if kbCtx := e.retrieveContext(q); kbCtx != "" {
			reply.Text = "⚔️ Combos\n" + kbCtx + "\nSay **elaborate** for a bigger pack."
			return reply, st
		}
		reply.Text = facts.GenericCombos

	case intent.KindUsage:
		st.LastTopic = session.TopicUsage
		if len(entities) > 0 {
			if tip, ok := facts.UsageFor(entities[0]); ok {
				reply.Text = tip + "  (say **elaborate** to dive deeper)"
				return reply, st
			}
		}
		reply.Text = e.clarify("Tell me what you want to use (fruit/race/style/weapon) and I'll coach it.", q)

	case intent.KindBuild:
		st.LastTopic = session.TopicBuilds
		if kbCtx := e.retrieveContext("build"); kbCtx != "" {
			reply.Text = kbCtx
		} else {
			reply.Text = facts.DefaultBuild()
		}

	case intent.KindKenTrick:
		st.LastTopic = session.TopicKenTrick
		reply.Text = facts.KenTrickShort + "  (say **elaborate** for advanced timing)"

	case intent.KindPlaystyle:
		st.LastTopic = session.TopicPlaystyles
		reply.Text = facts.PlaystyleShort + "  (say **elaborate** for drills & switches)"

	case intent.KindGreet:
		st.LastTopic = session.TopicMisc
		reply.Text = facts.Greetings[e.pick(len(facts.Greetings))]

	default: // free-form
		return e.respondFree(ctx, q, entities, reply, st, orig)
	}

	return reply, st
}

// respondFree handles the free-form path: entity nudges first, then retrieval,
// then the generative backend, then a canned prompt. orig is the pre-turn
// state, restored when a generative turn fails outright.
func (e *Engine) respondFree(ctx context.Context, q string, entities []string, reply *Reply, st, orig session.State) (*Reply, session.State) {
	st.LastTopic = session.TopicMisc

	if len(entities) > 0 {
		target := entities[0]
		if target == "cyborg v4" {
			st.LastTopic = session.TopicUsage
			reply.Text = facts.CyborgFreeTip
			return reply, st
		}
		reply.Text = fmt.Sprintf(
			"You mentioned **%s** — want **counters**, **combos**, or **how to use** it? "+
				"Say %q, %q, or %q.",
			target, "counter "+target, target+" combo", "how to use "+target)
		return reply, st
	}

	kbCtx := e.retrieveContext(q)

	if e.provider != nil && e.genMode != GenerationOff && !(e.genMode == GenerationStrict && kbCtx == "") {
		text, err := e.generate(ctx, q, kbCtx)
		if err == nil {
			reply.Text = text
			reply.Generated = true
			return reply, st
		}
		if kbCtx == "" {
			// Turn failed; leave the session exactly as it was.
			if ctx.Err() != nil || strings.Contains(err.Error(), "deadline") {
				reply.Text = "⏳ That took too long on my end — ask again, or say **counters**, **combos**, or **builds** for instant tips."
			} else {
				reply.Text = "😅 I couldn't reach my deeper brain just now — ask again, or say **counters**, **combos**, or **builds** for instant tips."
			}
			return reply, orig
		}
	}

	if kbCtx != "" {
		reply.Text = kbCtx
		return reply, st
	}

	reply.Text = facts.FreePrompts[e.pick(len(facts.FreePrompts))]
	return reply, st
}

// retrieveContext runs retrieval for q and renders the hits one block per
// line, recording the hit count. Returns "" when nothing matched and no
// theory fallback exists.
func (e *Engine) retrieveContext(q string) string {
	blocks := e.retriever.Retrieve(q)
	e.metrics.RecordRetrieval(len(blocks))
	if len(blocks) == 0 {
		return ""
	}
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// clarify appends a spelling suggestion to a clarifying question when the
// message contains something phonetically close to a known entity.
func (e *Engine) clarify(base, q string) string {
	if canonical, ok := e.lex.Suggest(q); ok {
		return base + fmt.Sprintf("\nDid you mean **%s**?", canonical)
	}
	return base
}
