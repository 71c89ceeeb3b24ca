package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// AbbrevRules normalizes street-type and unit wording so cosmetic differences
// between feeds do not split one physical address into two identities.
type AbbrevRules struct {
	abbrevs []abbrevRule
	drops   *regexp.Regexp
}

type abbrevRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewAbbrevRules creates the default rule set for North American addresses.
func NewAbbrevRules() *AbbrevRules {
	rules := []struct{ pattern, replacement string }{
		{`\bstreet\b`, "st"},
		{`\broad\b`, "rd"},
		{`\bavenue\b`, "ave"},
		{`\bdrive\b`, "dr"},
		{`\bboulevard\b`, "blvd"},
		{`\bcrescent\b`, "cres"},
		{`\bcourt\b`, "crt"},
		{`\bplace\b`, "pl"},
		{`\blane\b`, "ln"},
		{`\bterrace\b`, "terr"},
		{`\bcircle\b`, "cir"},
		{`\btrail\b`, "trl"},
		{`\bparkway\b`, "pkwy"},
		{`\bhighway\b`, "hwy"},
		{`\bnorth\b`, "n"},
		{`\bsouth\b`, "s"},
		{`\beast\b`, "e"},
		{`\bwest\b`, "w"},
	}

	compiled := make([]abbrevRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, abbrevRule{
			pattern:     regexp.MustCompile(r.pattern),
			replacement: r.replacement,
		})
	}

	// Unit markers carry no identity; the unit number itself is kept so two
	// units in the same building stay distinct.
	drops := regexp.MustCompile(`\b(unit|suite|ste|apt|apartment)\b`)

	return &AbbrevRules{abbrevs: compiled, drops: drops}
}

// Apply rewrites street-type words to their abbreviations and removes unit
// marker words.
func (ar *AbbrevRules) Apply(text string) string {
	result := ar.drops.ReplaceAllString(text, " ")
	for _, rule := range ar.abbrevs {
		result = rule.pattern.ReplaceAllString(result, rule.replacement)
	}
	return result
}

var defaultRules = NewAbbrevRules()

// AddressKey normalizes an address into its identity key: lower-cased,
// trimmed, punctuation dropped, whitespace collapsed, street-type synonyms
// canonicalized. "123 Main Street" and "123 main st." map to the same key.
func AddressKey(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(strings.TrimSpace(raw))

	// Drop punctuation, preserving token boundaries.
	b := strings.Builder{}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	s = defaultRules.Apply(s)

	return strings.Join(strings.Fields(s), " ")
}

// DisplayAddress returns the address as stored on output rows: trimmed but
// otherwise in its original casing.
func DisplayAddress(raw string) string {
	return strings.TrimSpace(raw)
}

// IsBlank reports whether an address is effectively blank once normalized.
func IsBlank(raw string) bool {
	return AddressKey(raw) == ""
}
