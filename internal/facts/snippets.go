package facts

// Technique snippets in short and long form. The engine serves the short
// variant by default and the long variant on elaboration or in deep mode.

// KenTrickShort is the four-step Ken Tricking primer.
const KenTrickShort = "⚡ Ken Tricking:\n" +
	"1) Instinct OFF.\n" +
	"2) Toggle ON as multi-hit/stun starts.\n" +
	"3) Toggle OFF instantly to save dodges.\n" +
	"4) Punish endlag (e.g., GH Z → C → X)."

// KenTrickLong is the advanced Ken Tricking deep-dive.
const KenTrickLong = "⚡ Ken Tricking — Advanced\n" +
	"• Time toggles vs Dough V / Dragon C / Ice V / Rumble AoE.\n" +
	"• Single heavy hit: toggle ON right before contact; if late, reset.\n" +
	"• Punish: dash-cancel in → Trident X or GH Z → C → X.\n" +
	"• Anti-Ken: Cyborg V4 Aftershock breaks loops; bait toggles.\n" +
	"• Drills: 10 rounds survive Dough V/C; 10 vs Ice V→punish Z."

// PlaystyleShort summarises passive vs aggressive play.
const PlaystyleShort = "🔥 Passive vs Aggressive:\n" +
	"• Aggressive: rushdown, break Ken, punish endlag fast.\n" +
	"• Passive: bait, hold spacing, counter on whiff."

// PlaystyleLong is the playstyle deep-dive with drills.
const PlaystyleLong = "🧩 Passive vs Aggressive — Deep Dive\n" +
	"• Aggressive starters: Trident X / GH Z / Anchor Z.\n" +
	"• Passive tools: range pokes, air-camping vs ground fruits.\n" +
	"• Switch tempo after a big whiff; that wins high-bounty rounds.\n" +
	"• Drills: 10 aggro-only, 10 passive-only; review 1 mistake/round."

// PortalCombo is the fixed Portal route served verbatim on "portal combo".
const PortalCombo = "🌀 Portal combo: Portal Z → Shark Anchor Z → Sanguine Z → C → X\n" +
	"Tip: keep camera level after Anchor Z. Say **elaborate** for more routes."

// PortalCombosLong is the extended Portal route pack.
const PortalCombosLong = "🌀 Portal — Extended Routes\n" +
	"• Z → Anchor Z → Sanguine Z → C → X (mobile-friendly core).\n" +
	"• Z → Anchor Z → Anchor X → GH Z → GH C (ground punish alt).\n" +
	"• Use rifts to appear behind; don't chase. Keep camera level after Anchor Z.\n" +
	"Drill: 20 reps hitting Sanguine after Anchor without drops."

// GenericCombos is the fallback route set when neither a special case nor the
// KB produced anything.
const GenericCombos = "⚔️ Try these:\n" +
	"• Sand C → Sand V → Anchor Z → Anchor X → Sanguine Z → C → X\n" +
	"• Ice V → (unawakened) Ice C → Ice Z → GH X → GH Z → GH C\n" +
	"Say your fruit for tailored routes or say **elaborate**."

// GenericCombosLong is the extended fallback route pack.
const GenericCombosLong = "⚔️ Combo Pack — Extended\n" +
	"• Sand C → Sand V → Anchor Z → Anchor X → Sanguine Z → C → X\n" +
	"• Ice V → (unawakened) Ice C → Ice Z → GH X → GH Z → GH C\n" +
	"• DT X → Dough V → Dough X → Dough C → EClaw C → EClaw X\n" +
	"Notes: respect endlag; don't over-extend if finisher is down."

// CounterDeepNotes is appended to a canned counter fact on elaboration.
const CounterDeepNotes = "Deep notes:\n" +
	"• Track cooldowns & dodges.\n" +
	"• Punish after whiffs, not mid-armor.\n" +
	"• Control verticality against ground-focused kits."

// CyborgFreeTip is the tailored guidance for a bare "cyborg v4" mention.
const CyborgFreeTip = "Cyborg V4 tips — Save **Aftershock** to break pressure mid-string. " +
	"Don't waste it neutral. Pair with a fast starter (Trident X / GH Z) and punish " +
	"right as their endlag opens. If they mirror Cyborg, disengage during their " +
	"effect and re-engage after it ends."

// Greetings are the canned greeting variants; the engine picks one
// pseudo-randomly via its injected picker.
var Greetings = []string{
	"Yo! What do you wanna grind: combos, counters, Ken Tricking, or builds?",
	"Hey! Say your fruit or who you're fighting and I'll tailor it.",
	"Wsp! Want counter tips, combo routes, or playstyle drills?",
}

// FreePrompts are the canned nudges for free-form input with no entities and
// no KB hits.
var FreePrompts = []string{
	"Bet — ask me to **counter** someone, drop a **combo** request, or say **Ken Tricking** for defense tech.",
	"Say your **fruit** or your **opponent** and I'll tailor a plan.",
	"We can cook a build, routes, or matchup plan — your call.",
}
