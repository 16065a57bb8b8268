package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bloxcoach/bloxcoach/internal/corpus"
	"github.com/bloxcoach/bloxcoach/internal/facts"
	"github.com/bloxcoach/bloxcoach/internal/intent"
	"github.com/bloxcoach/bloxcoach/internal/kb"
	"github.com/bloxcoach/bloxcoach/internal/lexicon"
	"github.com/bloxcoach/bloxcoach/internal/session"
	"github.com/bloxcoach/bloxcoach/pkg/provider/llm"
	llmmock "github.com/bloxcoach/bloxcoach/pkg/provider/llm/mock"
)

// newTestEngine builds an engine over an empty corpus with a deterministic
// picker (always index 0).
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithPicker(func(int) int { return 0 })}, opts...)
	e, err := New(lexicon.Default(), corpus.NewRetriever(nil, ""), session.NewStore(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// newKBTestEngine builds an engine whose corpus contains a small knowledge base.
func newKBTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	k := &kb.KnowledgeBase{
		Counters: []kb.Counter{
			{Enemy: "dough", Tips: []string{"fight airborne", "punish C/V endlag"}},
		},
		Builds: []kb.Build{
			{Label: "sword main", Notes: []string{"max sword melee defense"}},
		},
	}
	opts = append([]Option{WithPicker(func(int) int { return 0 })}, opts...)
	e, err := New(lexicon.Default(), corpus.NewRetriever(corpus.Build(k), ""), session.NewStore(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestTurn_CounterDough(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "counter dough")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Intent != intent.KindCounter {
		t.Errorf("intent = %v, want counter", reply.Intent)
	}
	if len(reply.Entities) != 1 || reply.Entities[0] != "dough" {
		t.Errorf("entities = %v, want [dough]", reply.Entities)
	}
	want, _ := facts.CounterFor("dough")
	if !strings.HasPrefix(reply.Text, want) {
		t.Errorf("text = %q, want prefix %q", reply.Text, want)
	}
	if !strings.Contains(reply.Text, "elaborate") {
		t.Errorf("text should hint at elaborate, got %q", reply.Text)
	}
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicCounters {
		t.Errorf("lastTopic = %v, want counters", got)
	}
}

func TestTurn_KenTrickThenElaborate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Turn(ctx, "s1", "ken trick")
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if !strings.HasPrefix(first.Text, facts.KenTrickShort) {
		t.Errorf("first text = %q, want the short Ken Trick steps", first.Text)
	}
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicKenTrick {
		t.Fatalf("lastTopic = %v, want kentrick", got)
	}

	second, err := e.Turn(ctx, "s1", "elaborate")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if second.Text != facts.KenTrickLong {
		t.Errorf("second text = %q, want the long Ken Trick deep-dive", second.Text)
	}
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicKenTrick {
		t.Errorf("lastTopic changed to %v, want kentrick unchanged", got)
	}
}

func TestTurn_ElaborateCounterUsesPreviousQuestion(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Turn(ctx, "s1", "counter dough"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	reply, err := e.Turn(ctx, "s1", "elaborate")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	base, _ := facts.CounterFor("dough")
	if !strings.HasPrefix(reply.Text, base) {
		t.Errorf("text = %q, want the dough counter fact first", reply.Text)
	}
	if !strings.Contains(reply.Text, facts.CounterDeepNotes) {
		t.Errorf("text = %q, want the deep notes appended", reply.Text)
	}
}

func TestTurn_PortalCombo(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "portal combo")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != facts.PortalCombo {
		t.Errorf("text = %q, want the fixed portal route verbatim", reply.Text)
	}
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicCombos {
		t.Errorf("lastTopic = %v, want combos", got)
	}
}

func TestTurn_BuildWithEmptyKB(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "best build")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != facts.DefaultBuild() {
		t.Errorf("text = %q, want the default fruit-main build fact", reply.Text)
	}
}

func TestTurn_BuildWithKB(t *testing.T) {
	e := newKBTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "best build")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !strings.Contains(strings.ToLower(reply.Text), "sword main") {
		t.Errorf("text = %q, want the KB build block", reply.Text)
	}
}

func TestTurn_DeepModeToggle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	reply, err := e.Turn(ctx, "s1", "deep mode on")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != "Deep mode: ON." {
		t.Errorf("text = %q, want 'Deep mode: ON.'", reply.Text)
	}
	if !e.sessions.Peek("s1").DeepMode {
		t.Error("deepMode should be true after toggle")
	}

	reply, err = e.Turn(ctx, "s1", "deep mode off")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != "Deep mode: OFF." {
		t.Errorf("text = %q, want 'Deep mode: OFF.'", reply.Text)
	}
	if e.sessions.Peek("s1").DeepMode {
		t.Error("deepMode should be false after toggle off")
	}
}

func TestTurn_DeepModeForcesLongVariant(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// Establish the topic, then enable deep mode.
	if _, err := e.Turn(ctx, "s1", "ken trick"); err != nil {
		t.Fatalf("topic turn: %v", err)
	}
	if _, err := e.Turn(ctx, "s1", "deep mode on"); err != nil {
		t.Fatalf("toggle turn: %v", err)
	}

	// Any non-greeting turn now elaborates the established topic.
	reply, err := e.Turn(ctx, "s1", "whats the timing")
	if err != nil {
		t.Fatalf("deep turn: %v", err)
	}
	if reply.Text != facts.KenTrickLong {
		t.Errorf("text = %q, want the long Ken Trick variant in deep mode", reply.Text)
	}
}

func TestTurn_GuardShortCircuits(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "how do I counter the sprite race")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !strings.Contains(reply.Text, "no Sprite race") {
		t.Errorf("text = %q, want the sprite correction", reply.Text)
	}
	// Guards fire before intent handling; the counter topic must not be set.
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicMisc {
		t.Errorf("lastTopic = %v, want misc (guard short-circuit)", got)
	}
}

func TestTurn_Greet(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "yo")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != facts.Greetings[0] {
		t.Errorf("text = %q, want the first greeting (picker pinned to 0)", reply.Text)
	}
}

func TestTurn_FreeWithEntityNudges(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "kitsune")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !strings.Contains(reply.Text, "kitsune") || !strings.Contains(reply.Text, "counters") {
		t.Errorf("text = %q, want a counters/combos/usage nudge for kitsune", reply.Text)
	}
}

func TestTurn_FreeCyborgTailoredTip(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "cyborg v4")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != facts.CyborgFreeTip {
		t.Errorf("text = %q, want the tailored cyborg tip", reply.Text)
	}
	if got := e.sessions.Peek("s1").LastTopic; got != session.TopicUsage {
		t.Errorf("lastTopic = %v, want usage", got)
	}
}

func TestTurn_KBRetrievalOnCounterWithoutFact(t *testing.T) {
	e := newKBTestEngine(t)

	// "beat" triggers the counter intent; no canonical entity is detected, so
	// the engine falls back to KB retrieval and hits the dough counter block.
	reply, err := e.Turn(context.Background(), "s1", "how do i beat endlag heavy kits")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !strings.Contains(strings.ToLower(reply.Text), "dough") {
		t.Errorf("text = %q, want the dough KB block via retrieval", reply.Text)
	}
	if !strings.Contains(reply.Text, "Say **elaborate** for more.") {
		t.Errorf("text = %q, want the elaborate hint appended", reply.Text)
	}
}

func TestTurn_ClarifyingQuestionSuggestsEntity(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Turn(context.Background(), "s1", "how do i beat budha")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !strings.Contains(reply.Text, "Who you fighting?") {
		t.Fatalf("text = %q, want the clarifying question", reply.Text)
	}
	if !strings.Contains(reply.Text, "buddha") {
		t.Errorf("text = %q, want a 'did you mean buddha' suggestion", reply.Text)
	}
}

// ─── generative path ─────────────────────────────────────────────────────────

func TestTurn_GenerationFallback(t *testing.T) {
	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Focus on spacing drills.", FinishReason: "stop"},
	}
	e := newTestEngine(t, WithGeneration(p, GenerationFallback))

	reply, err := e.Turn(context.Background(), "s1", "what should i practice today")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !reply.Generated {
		t.Fatal("reply should be marked generated")
	}
	if reply.Text != "Focus on spacing drills." {
		t.Errorf("text = %q", reply.Text)
	}
	if len(p.CompleteCalls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(p.CompleteCalls))
	}
	if got := p.CompleteCalls[0].Req.SystemPrompt; !strings.Contains(got, "PvP coach") {
		t.Errorf("system prompt = %q, want the coach persona", got)
	}
}

func TestTurn_GenerationContinuationOnLength(t *testing.T) {
	p := &llmmock.Provider{
		CompleteResponses: []*llm.CompletionResponse{
			{Content: "Part one. ", FinishReason: "length"},
			{Content: "Part two.", FinishReason: "stop"},
		},
	}
	e := newTestEngine(t, WithGeneration(p, GenerationFallback))

	reply, err := e.Turn(context.Background(), "s1", "explain the whole neutral game plan for me please")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text != "Part one. Part two." {
		t.Errorf("text = %q, want concatenated continuation", reply.Text)
	}
	if len(p.CompleteCalls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(p.CompleteCalls))
	}
	// The continuation request carries the partial answer plus the directive.
	msgs := p.CompleteCalls[1].Req.Messages
	if len(msgs) != 3 {
		t.Fatalf("continuation messages = %d, want 3", len(msgs))
	}
	if msgs[2].Content != continueDirective {
		t.Errorf("last message = %q, want %q", msgs[2].Content, continueDirective)
	}
}

func TestTurn_GenerationContinuationCap(t *testing.T) {
	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "more ", FinishReason: "length"},
	}
	e := newTestEngine(t, WithGeneration(p, GenerationFallback), WithMaxContinuations(2))

	if _, err := e.Turn(context.Background(), "s1", "tell me everything about the meta right now"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	// Initial round plus at most 2 continuations.
	if len(p.CompleteCalls) != 3 {
		t.Fatalf("provider called %d times, want 3", len(p.CompleteCalls))
	}
}

func TestTurn_GenerationFailurePreservesState(t *testing.T) {
	p := &llmmock.Provider{CompleteErr: errors.New("backend down")}
	e := newTestEngine(t, WithGeneration(p, GenerationFallback))
	ctx := context.Background()

	// Establish some state first.
	if _, err := e.Turn(ctx, "s1", "ken trick"); err != nil {
		t.Fatalf("setup turn: %v", err)
	}
	before := e.sessions.Peek("s1")

	reply, err := e.Turn(ctx, "s1", "what should i practice today")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if reply.Text == "" {
		t.Fatal("failed generation must still produce a user-facing reply")
	}
	if reply.Generated {
		t.Error("reply must not be marked generated on failure")
	}
	if after := e.sessions.Peek("s1"); after != before {
		t.Errorf("session state changed on failed generation: %+v → %+v", before, after)
	}
}

func TestTurn_GenerationStrictRequiresRetrieval(t *testing.T) {
	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "generated", FinishReason: "stop"},
	}
	e := newTestEngine(t, WithGeneration(p, GenerationStrict))

	reply, err := e.Turn(context.Background(), "s1", "what should i practice today")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if len(p.CompleteCalls) != 0 {
		t.Fatalf("provider called %d times, want 0 in strict mode with empty retrieval", len(p.CompleteCalls))
	}
	if reply.Text != facts.FreePrompts[0] {
		t.Errorf("text = %q, want the canned free prompt", reply.Text)
	}
}

func TestTurn_GenerationOffIgnoresProvider(t *testing.T) {
	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "generated", FinishReason: "stop"},
	}
	e := newTestEngine(t, WithGeneration(p, GenerationOff))

	if _, err := e.Turn(context.Background(), "s1", "what should i practice today"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if len(p.CompleteCalls) != 0 {
		t.Fatalf("provider called %d times, want 0 when generation is off", len(p.CompleteCalls))
	}
}

func TestTurn_NeverEmptyReply(t *testing.T) {
	e := newTestEngine(t)
	inputs := []string{
		"counter dough", "portal combo", "best build", "yo",
		"what should i practice today", "elaborate", "deep mode on",
		"zzz qqq unknown words",
	}
	for _, in := range inputs {
		reply, err := e.Turn(context.Background(), "s1", in)
		if err != nil {
			t.Fatalf("Turn(%q): %v", in, err)
		}
		if strings.TrimSpace(reply.Text) == "" {
			t.Errorf("Turn(%q) produced an empty reply", in)
		}
		if len(reply.Chunks) == 0 {
			t.Errorf("Turn(%q) produced no chunks", in)
		}
	}
}

func TestTurn_SessionsAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Turn(ctx, "a", "deep mode on"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if _, err := e.Turn(ctx, "b", "ken trick"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !e.sessions.Peek("a").DeepMode {
		t.Error("session a lost deep mode")
	}
	if e.sessions.Peek("b").DeepMode {
		t.Error("session b should not be in deep mode")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, corpus.NewRetriever(nil, ""), session.NewStore()); err == nil {
		t.Error("expected error for nil lexicon")
	}
	if _, err := New(lexicon.Default(), nil, session.NewStore()); err == nil {
		t.Error("expected error for nil retriever")
	}
	if _, err := New(lexicon.Default(), corpus.NewRetriever(nil, ""), nil); err == nil {
		t.Error("expected error for nil session store")
	}
}
