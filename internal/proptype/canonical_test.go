package proptype

import "testing"

func TestCanonicalize(t *testing.T) {
	c := NewCanonicalizer(0)

	tests := []struct {
		name     string
		input    string
		expected string
		resolved bool
	}{
		{"exact taxonomy", "Detached", "Detached", true},
		{"lowercase taxonomy", "townhouse", "Townhouse", true},
		{"manual rural", "Rural Resid", "Detached", true},
		{"manual hyphenated", "over-under", "Duplex", true},
		{"manual condo", "Condo Apt", "Condominium", true},
		{"manual link", "Link", "Semi Detached", true},
		{"comma stripped", "Row Unit, 2 Storey", "Townhouse", true},
		{"fuzzy tie keeps first max", "semi detached 2 storey", "Detached", true},
		{"fuzzy condo", "condominium unit", "Condominium", true},
		{"typeless residential", "Residential", "", false},
		{"typeless vacant land", "Vacant Land", "", false},
		{"typeless other", "Other", "", false},
		{"blank", "", "", false},
		{"whitespace", "   ", "", false},
		{"unresolvable", "zzzzzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Canonicalize(tt.input)
			if ok != tt.resolved {
				t.Fatalf("Canonicalize(%q) resolved = %v, expected %v", tt.input, ok, tt.resolved)
			}
			if got != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPartialRatio(t *testing.T) {
	s := PartialRatio{}

	tests := []struct {
		name string
		a, b string
		min  int
	}{
		{"identical", "detached", "detached", 100},
		{"substring", "semi detached", "detached", 100},
		{"close variant", "townhome", "townhouse", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.a, tt.b); got < tt.min {
				t.Errorf("Score(%q, %q) = %d, expected at least %d", tt.a, tt.b, got, tt.min)
			}
		})
	}
}

func TestPartialRatioUnrelated(t *testing.T) {
	s := PartialRatio{}
	if got := s.Score("zzzzzz", "detached"); got >= 80 {
		t.Errorf("Score for unrelated strings = %d, expected below 80", got)
	}
}
