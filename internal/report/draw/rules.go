package draw

import (
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// SplitMarker is inserted in front of every line prefix that starts a new
// logical unit of a record.
const SplitMarker = "split_marker "

// Tags left behind by the marker rules at the start of result segments
const (
	FirstRoundTag = "DRA"
	FinalRoundTag = "DAFL"
)

// RuleStage orders the rules of a RuleTable
type RuleStage int

const (
	// StageCollapse rules fold multi-line label artifacts into single tokens
	StageCollapse RuleStage = iota
	// StageCodeMarker rules mark the start of an identifier pair
	StageCodeMarker
	// StageFirstRoundMarker rules mark the start of the first-round block
	StageFirstRoundMarker
	// StageFinalRoundMarker rules mark the start of the final-round block
	StageFinalRoundMarker
)

// Rule is one textual substitution applied during normalization
type Rule struct {
	Name        string
	Stage       RuleStage
	Pattern     *regexp.Regexp
	Replacement string
}

// RuleTable is an ordered, read-only list of substitution rules. Later rules
// rely on earlier collapses having run, so the order is part of the table.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable builds a table from rules in application order
func NewRuleTable(rules ...Rule) (RuleTable, error) {
	t := RuleTable{rules: append([]Rule(nil), rules...)}
	if err := t.Validate(); err != nil {
		return RuleTable{}, err
	}
	return t, nil
}

// Rules returns a copy of the rules in application order
func (t RuleTable) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Len returns the number of rules
func (t RuleTable) Len() int {
	return len(t.rules)
}

// Validate checks the ordering invariant: stages never go backwards, so every
// collapse rule runs before any marker is inserted and the first-round marker
// runs before the final-round marker.
func (t RuleTable) Validate() error {
	for i := 1; i < len(t.rules); i++ {
		prev, cur := t.rules[i-1], t.rules[i]
		if cur.Stage < prev.Stage {
			return fmt.Errorf("rule %q (stage %d) must not follow rule %q (stage %d)",
				cur.Name, cur.Stage, prev.Name, prev.Stage)
		}
	}
	for _, r := range t.rules {
		if r.Pattern == nil {
			return fmt.Errorf("rule %q has no pattern", r.Name)
		}
	}
	return nil
}

var defaultRules = RuleTable{rules: []Rule{
	{
		Name:        "drop_pref_points",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(`Pref \nPoints \n|Pref \nPoints |Pref Points`),
		Replacement: "",
	},
	{
		Name:        "none_drawn",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(`\nNone \nDrawn|None \nDrawn|None Drawn`),
		Replacement: "ND",
	},
	{
		Name:        "no_apps",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(`No Apps`),
		Replacement: "no-apps",
	},
	{
		Name:        "choice",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(`Choice `),
		Replacement: "Choice-",
	},
	{
		Name:        "leftover_choice",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(`Leftover \nChoice`),
		Replacement: "Leftover-Choice",
	},
	{
		Name:        "fraction",
		Stage:       StageCollapse,
		Pattern:     regexp.MustCompile(` of \n| of `),
		Replacement: "/",
	},
	{
		Name:        "code_ee",
		Stage:       StageCodeMarker,
		Pattern:     regexp.MustCompile(`\nEE`),
		Replacement: SplitMarker + "EE",
	},
	{
		Name:        "code_ef",
		Stage:       StageCodeMarker,
		Pattern:     regexp.MustCompile(`\nEF`),
		Replacement: SplitMarker + "EF",
	},
	{
		Name:        "code_em",
		Stage:       StageCodeMarker,
		Pattern:     regexp.MustCompile(`\nEM`),
		Replacement: SplitMarker + "EM",
	},
	{
		Name:        "code_ep",
		Stage:       StageCodeMarker,
		Pattern:     regexp.MustCompile(`\nEP`),
		Replacement: SplitMarker + "EP",
	},
	{
		Name:        "first_round",
		Stage:       StageFirstRoundMarker,
		Pattern:     regexp.MustCompile(`\nDrawn Out At| Drawn Out At`),
		Replacement: SplitMarker + FirstRoundTag,
	},
	{
		Name:        "final_round",
		Stage:       StageFinalRoundMarker,
		Pattern:     regexp.MustCompile(`\n# Drawn at Final Level| # Drawn at Final Level`),
		Replacement: SplitMarker + FinalRoundTag,
	},
}}

// DefaultRules returns the rule table for the draw-result report layout
func DefaultRules() RuleTable {
	return defaultRules
}

// Normalize applies the rules to the page text in order. The text is put in
// NFC form first so composed and decomposed glyphs from the extractor compare
// equal.
func Normalize(text string, rules RuleTable) string {
	out := norm.NFC.String(text)
	for _, r := range rules.rules {
		out = r.Pattern.ReplaceAllLiteralString(out, r.Replacement)
	}
	return out
}
