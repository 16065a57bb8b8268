// Package intent classifies a raw chat message into exactly one coaching
// intent using an ordered rule table.
//
// Rule order is load-bearing: earlier rules win, so a message containing both
// a counter keyword and a combo keyword classifies as [KindCounter] because
// the counter rule precedes the combo rule. Reordering the table silently
// changes classification outcomes — treat it as behaviour, not style.
package intent

import (
	"regexp"
	"strings"
)

// Kind identifies the purpose of a user message.
type Kind int

const (
	// KindFree is the catch-all for messages no rule claimed.
	KindFree Kind = iota

	// KindToggle switches deep mode on or off.
	KindToggle

	// KindElaborate asks for the long-form variant of the previous topic.
	KindElaborate

	// KindCounter asks how to beat a specific opponent or kit.
	KindCounter

	// KindCombo asks for combo routes.
	KindCombo

	// KindUsage asks how to play a specific fruit, style, or weapon.
	KindUsage

	// KindBuild asks for stat distributions and gear.
	KindBuild

	// KindKenTrick asks about the instinct-toggle defensive technique.
	KindKenTrick

	// KindPlaystyle asks about passive vs aggressive play.
	KindPlaystyle

	// KindGreet is a greeting with no question attached.
	KindGreet
)

// String returns the lowercase name of the intent kind.
func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindElaborate:
		return "elaborate"
	case KindCounter:
		return "counter"
	case KindCombo:
		return "combo"
	case KindUsage:
		return "usage"
	case KindBuild:
		return "build"
	case KindKenTrick:
		return "kentrick"
	case KindPlaystyle:
		return "playstyle"
	case KindGreet:
		return "greet"
	default:
		return "free"
	}
}

// Intent is the classification result for one message. It carries no identity
// beyond the current turn.
type Intent struct {
	Kind Kind

	// ToggleOn is meaningful only when Kind is [KindToggle]: true for
	// "deep mode on", false for "deep mode off".
	ToggleOn bool
}

// The rule table. Each pattern is tested against the lowercased message in
// order; the first hit wins.
var (
	reToggleOn  = regexp.MustCompile(`^deep mode on\b`)
	reToggleOff = regexp.MustCompile(`^deep mode off\b`)
	reElaborate = regexp.MustCompile(`(elaborate|explain more|go deeper|more detail|in depth|details)\b`)
	reCounter   = regexp.MustCompile(`\b(counter|vs|beat|against)\b`)
	reCombo     = regexp.MustCompile(`\b(combo|route|string)\b`)
	reUsage     = regexp.MustCompile(`\bhow to use\b|\bhow do i use\b|\busage\b|\bplay with\b`)
	reBuild     = regexp.MustCompile(`\bbest build\b|\bbuild\b|\bstat\b|\bdistribution\b|\baccessor|\bgear\b`)
	reKenTrick  = regexp.MustCompile(`\bken.?trick|instinct trick|toggle instinct|ken\b`)
	reStyleWord = regexp.MustCompile(`\bpassive|aggressive\b`)
	reStyleCtx  = regexp.MustCompile(`\bplaystyle|style\b`)
	reGreet     = regexp.MustCompile(`\b(yo|hey|hello|hi|wsp|sup)\b`)
)

// Classify returns exactly one [Intent] for the given message.
func Classify(text string) Intent {
	s := strings.ToLower(text)

	switch {
	case reToggleOn.MatchString(s):
		return Intent{Kind: KindToggle, ToggleOn: true}
	case reToggleOff.MatchString(s):
		return Intent{Kind: KindToggle, ToggleOn: false}
	case reElaborate.MatchString(s):
		return Intent{Kind: KindElaborate}
	case reCounter.MatchString(s):
		return Intent{Kind: KindCounter}
	case reCombo.MatchString(s):
		return Intent{Kind: KindCombo}
	case reUsage.MatchString(s):
		return Intent{Kind: KindUsage}
	case reBuild.MatchString(s):
		return Intent{Kind: KindBuild}
	case reKenTrick.MatchString(s):
		return Intent{Kind: KindKenTrick}
	case reStyleWord.MatchString(s) && reStyleCtx.MatchString(s):
		return Intent{Kind: KindPlaystyle}
	case reGreet.MatchString(s):
		return Intent{Kind: KindGreet}
	default:
		return Intent{Kind: KindFree}
	}
}
