package lexicon

// defaultEntries is the built-in alias table covering the PvP-relevant
// fruits, styles, weapons, and races. Order matters: Detect reports
// canonicals in this order, and callers treat the first hit as the entity
// the player is asking about.
var defaultEntries = []Entry{
	// Fruits
	{Canonical: "buddha", Kind: KindFruit, Aliases: []string{"buddha"}},
	{Canonical: "dough", Kind: KindFruit, Aliases: []string{"dough", "doe", "doh"}},
	{Canonical: "ice", Kind: KindFruit, Aliases: []string{"ice"}},
	{Canonical: "portal", Kind: KindFruit, Aliases: []string{"portal"}},
	{Canonical: "kitsune", Kind: KindFruit, Aliases: []string{"kitsune", "fox"}},
	{Canonical: "sand", Kind: KindFruit, Aliases: []string{"sand"}},
	{Canonical: "dragon", Kind: KindFruit, Aliases: []string{"dragon"}},
	{Canonical: "gas", Kind: KindFruit, Aliases: []string{"gas"}},
	{Canonical: "bomb", Kind: KindFruit, Aliases: []string{"bomb"}},
	{Canonical: "gravity", Kind: KindFruit, Aliases: []string{"gravity", "grav"}},
	{Canonical: "blizzard", Kind: KindFruit, Aliases: []string{"blizzard"}},
	{Canonical: "venom", Kind: KindFruit, Aliases: []string{"venom"}},
	{Canonical: "dark", Kind: KindFruit, Aliases: []string{"dark"}},
	{Canonical: "quake", Kind: KindFruit, Aliases: []string{"quake"}},
	{Canonical: "rumble", Kind: KindFruit, Aliases: []string{"rumble"}},

	// Fighting styles
	{Canonical: "godhuman", Kind: KindStyle, Aliases: []string{"godhuman", "gh"}},
	{Canonical: "sanguine art", Kind: KindStyle, Aliases: []string{"sanguine", "sanguine art"}},
	{Canonical: "electric claw", Kind: KindStyle, Aliases: []string{"eclaw", "electric claw", "e-claw"}},
	{Canonical: "superhuman", Kind: KindStyle, Aliases: []string{"superhuman"}},

	// Swords
	{Canonical: "cursed dual katana", Kind: KindSword, Aliases: []string{"cdk", "cursed dual katana"}},
	{Canonical: "spikey trident", Kind: KindSword, Aliases: []string{"spikey trident", "trident"}},
	{Canonical: "shark anchor", Kind: KindSword, Aliases: []string{"shark anchor", "anchor"}},
	{Canonical: "dragon trident", Kind: KindSword, Aliases: []string{"dragon trident", "dt"}},
	{Canonical: "gravity cane", Kind: KindSword, Aliases: []string{"gravity cane"}},
	{Canonical: "yama", Kind: KindSword, Aliases: []string{"yama"}},

	// Guns
	{Canonical: "acidum rifle", Kind: KindGun, Aliases: []string{"acidum rifle", "acidum"}},
	{Canonical: "kabucha", Kind: KindGun, Aliases: []string{"kabucha"}},
	{Canonical: "serpent bow", Kind: KindGun, Aliases: []string{"serpent bow", "serpent"}},
	{Canonical: "venom bow", Kind: KindGun, Aliases: []string{"venom bow"}},
	// "skull guitar" is a common misname players use for soul guitar.
	{Canonical: "soul guitar", Kind: KindGun, Aliases: []string{"soul guitar", "skull guitar", "skull"}},

	// Races (V4 awakenings)
	{Canonical: "angel v4", Kind: KindRace, Aliases: []string{"angel v4", "angel"}},
	{Canonical: "cyborg v4", Kind: KindRace, Aliases: []string{"cyborg v4", "cyborg"}},
	{Canonical: "draco v4", Kind: KindRace, Aliases: []string{"draco v4", "draco"}},
	{Canonical: "ghoul v4", Kind: KindRace, Aliases: []string{"ghoul v4", "ghoul"}},
	{Canonical: "rabbit v4", Kind: KindRace, Aliases: []string{"rabbit v4", "rabbit", "mink"}},
}

// Default returns the built-in lexicon. It never fails; the embedded table is
// validated by tests.
func Default() *Lexicon {
	l, err := New(defaultEntries)
	if err != nil {
		panic("lexicon: invalid built-in table: " + err.Error())
	}
	return l
}
