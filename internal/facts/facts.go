// Package facts holds the canned coaching knowledge: per-entity counter and
// usage facts, build archetypes, technique snippets in short and long form,
// and the guard corrections that pre-empt intent handling entirely.
//
// Everything in this package is static data plus map lookups. The engine
// consults it before (guards) and alongside (facts) KB retrieval, so the
// coach still answers when no knowledge base is loaded.
package facts

import "strings"

// fruitCounters maps a canonical fruit name to its matchup fact.
var fruitCounters = map[string]string{
	"buddha":   "🙏 Vs Buddha — stay out of M1 range; poke from distance; use vertical movement; punish Z endlag; don't chase.",
	"dough":    "🍩 Vs Dough — fight airborne; many routes are ground-based. Cyborg V4 Aftershock can break strings; punish C/V endlag.",
	"ice":      "❄️ Vs Ice — avoid ground trades; stay in air; punish missed V/Z with a fast starter (Trident X / GH Z).",
	"portal":   "🌀 Vs Portal — don't chase teleports; hold your starter for Rift recovery; punish missed V trap.",
	"kitsune":  "🦊 Vs Kitsune — deny rushdowns with spacing; punish after X/air dashes; keep a quick stun ready.",
	"sand":     "🏜️ Vs Sand — sidestep C/V lines; punish after V endlag; don't stand still in sand trails.",
	"dragon":   "🐲 Vs Dragon — respect C wind-up; pre-position diagonally; punish after C or X whiff.",
	"gas":      "☁️ Vs Gas — avoid standing in gas zones; poke from range; punish when they re-enter.",
	"bomb":     "💣 Vs Bomb — don't sit in primed zones; bait C, punish the recovery.",
	"gravity":  "🪐 Vs Gravity — don't wait for meteor impact; dash pre-landing and punish Z endlag.",
	"blizzard": "🌨️ Vs Blizzard — don't tank the AoE; play edges and punish recovery.",
	"venom":    "☠️ Vs Venom — don't overstay in clouds; reset and punish post-form cooldown.",
	"dark":     "🌑 Vs Dark — don't get grabbed; keep lateral movement; punish missed pull.",
	"quake":    "🌊 Vs Quake — play above wave lines; punish quake gaps.",
	"rumble":   "⚡ Vs Rumble — avoid long stuns by spacing; punish after big AoE.",
}

// metaCounters covers races, styles, and weapons asked about as "vs X".
var metaCounters = map[string]string{
	"cyborg v4":          "🤖 Vs Cyborg V4 — don't commit during Aftershock; disengage during overheat; punish right after the effect ends or when they whiff a re-engage.",
	"angel v4":           "😇 Vs Angel V4 — deny their sustain by burst-punishing after heals; force cooldowns then go in.",
	"draco v4":           "🐉 Vs Draco V4 — respect roar/debuff; stay mobile; punish after roar window.",
	"ghoul v4":           "🧛 Vs Ghoul V4 — don't feed lifesteal; kite and burst in short windows.",
	"rabbit v4":          "🐇 Vs Rabbit V4 — don't try to race speed; bait the dash then punish recovery.",
	"godhuman":           "👐 Vs Godhuman — don't eat the Z opener; sidestep → punish; watch X armor frames.",
	"sanguine art":       "🩸 Vs Sanguine — avoid vertical juggles; punish after aerial strings.",
	"cursed dual katana": "🗡️ Vs CDK — don't get clipped by fast slashes; keep spacing; punish endlag after Z/X chains.",
	"spikey trident":     "🪝 Vs Spikey Trident — don't stand in pull line; jump/strafe; punish whiffed X.",
	"shark anchor":       "⚓ Vs Shark Anchor — avoid close AoE; punish after Z/X when they commit.",
}

// usageTips maps an entity to its "how to play" fact.
var usageTips = map[string]string{
	"portal":    "Portal usage — mobility > chase. Use Z to set up Anchor/Sanguine, V for traps, and rifts to appear behind for clean starters.",
	"dough":     "Dough usage — set ground strings with V/C/X, but protect your endlag; mix in air movement to avoid predictable routes.",
	"ice":       "Ice usage — use V as the safe trap, convert to Z; avoid ground mirror trades; keep vertical control.",
	"buddha":    "Buddha usage — it's beginner friendly for M1 pressure, but higher-level PvP will out-range you; learn to bait & punish.",
	"kitsune":   "Kitsune usage — leverage speed to overwhelm; keep a reliable starter ready and avoid over-committing.",
	"cyborg v4": "Cyborg V4 usage — Aftershock to break pressure; don't waste it; pair with a fast stun and capitalize during windows.",
}

// buildFacts holds the three build archetypes.
var buildFacts = map[string]string{
	"fruit main": "Fruit Main: Max Fruit + Melee + Defense. Styles: Godhuman or Sanguine. Swords: Trident/Anchor for starters. Accessories: mobility/dodges.",
	"sword main": "Sword Main: Max Sword + Melee + Defense. Fruit for stun (Portal/Ice/Rumble). CDK/Anchor/Trident core.",
	"gun main":   "Gun Main: Needs reliable stuns (Dark/Ice/Rumble). Weapons: Acidum Rifle/Kabucha/Serpent Bow. Play at range, punish on stun.",
}

// DefaultBuildLabel is the archetype returned when a build question gives the
// engine nothing more specific to go on.
const DefaultBuildLabel = "fruit main"

// CounterFor returns the canned counter fact for a canonical entity,
// consulting the fruit table first and the race/style/weapon meta table
// second.
func CounterFor(entity string) (string, bool) {
	if f, ok := fruitCounters[entity]; ok {
		return f, true
	}
	f, ok := metaCounters[entity]
	return f, ok
}

// UsageFor returns the canned usage fact for a canonical entity.
func UsageFor(entity string) (string, bool) {
	f, ok := usageTips[entity]
	return f, ok
}

// BuildFor returns the canned build fact for an archetype label
// ("fruit main", "sword main", "gun main").
func BuildFor(label string) (string, bool) {
	f, ok := buildFacts[strings.ToLower(label)]
	return f, ok
}

// DefaultBuild returns the fallback build fact.
func DefaultBuild() string {
	return buildFacts[DefaultBuildLabel]
}
