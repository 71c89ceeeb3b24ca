package proptype

import "strings"

// Taxonomy is the canonical property type list. Every resolved type maps
// onto exactly one of these labels.
var Taxonomy = []string{
	"Townhouse",
	"Detached",
	"Condominium",
	"Semi Detached",
	"High Rise Apartment",
	"Low Rise Apartment",
	"Duplex",
	"Triplex",
	"Fourplex",
}

// manualTypes maps cleaned variants straight to a canonical label. An empty
// value means the variant is recognised but carries no usable type, so
// canonicalization reports unresolved without falling through to fuzzy
// matching.
var manualTypes = map[string]string{
	"rural resid":              "Detached",
	"rural residential":        "Detached",
	"single family":            "Detached",
	"single family residence":  "Detached",
	"overunder":                "Duplex",
	"4 plex":                   "Fourplex",
	"triplex":                  "Triplex",
	"duplex":                   "Duplex",
	"over under":               "Duplex",
	"condo apt":                "Condominium",
	"condo apartment":          "Condominium",
	"condo/apt unit":           "Condominium",
	"common element condo":     "Condominium",
	"row unit":                 "Townhouse",
	"row unit 2 storey":        "Townhouse",
	"row unit 3 storey":        "Townhouse",
	"stacked":                  "Townhouse",
	"mobiletrailer":            "Detached",
	"mobile home":              "Detached",
	"mobile":                   "Detached",
	"link":                     "Semi Detached",
	"farm":                     "Detached",
	"vacant land":              "",
	"residential land":         "",
	"residential":              "",
	"locker":                   "",
	"other":                    "",
}

// Canonicalizer resolves free-text property type strings against the
// canonical taxonomy, trying the manual table before fuzzy matching.
type Canonicalizer struct {
	manual    map[string]string
	taxonomy  []string
	lowered   []string
	scorer    Scorer
	threshold int
}

// NewCanonicalizer builds a canonicalizer over the default taxonomy and
// manual table. A threshold of 0 or below selects the default of 80.
func NewCanonicalizer(threshold int) *Canonicalizer {
	if threshold <= 0 {
		threshold = 80
	}
	lowered := make([]string, len(Taxonomy))
	for i, t := range Taxonomy {
		lowered[i] = strings.ToLower(t)
	}
	return &Canonicalizer{
		manual:    manualTypes,
		taxonomy:  Taxonomy,
		lowered:   lowered,
		scorer:    PartialRatio{},
		threshold: threshold,
	}
}

// clean prepares a raw type string for lookup: lowercase, trimmed, commas
// removed and hyphens folded to spaces.
func clean(raw string) string {
	val := strings.ToLower(strings.TrimSpace(raw))
	val = strings.ReplaceAll(val, ",", "")
	val = strings.ReplaceAll(val, "-", " ")
	return val
}

// Canonicalize maps a raw property type string to a canonical label. The
// second return is false when no type can be resolved, either because the
// input is blank, the manual table marks it as typeless, or no taxonomy
// entry scores at or above the threshold.
func (c *Canonicalizer) Canonicalize(raw string) (string, bool) {
	val := clean(raw)
	if val == "" {
		return "", false
	}

	if mapped, ok := c.manual[val]; ok {
		if mapped == "" {
			return "", false
		}
		return mapped, true
	}

	best, score := -1, -1
	for i, t := range c.lowered {
		if s := c.scorer.Score(val, t); s > score {
			best, score = i, s
		}
	}
	if best < 0 || score < c.threshold {
		return "", false
	}
	return c.taxonomy[best], true
}
