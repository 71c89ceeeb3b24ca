// Package fieldparse converts raw vendor field values into canonical numeric
// values. Each parser takes one raw string (plus a reference date where dates
// matter) and returns a tagged Result; malformed input always degrades to an
// unparseable Result rather than an error.
package fieldparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	sqmToSqft  = 10.7639
	acreToSqft = 43560
)

var (
	reDigitRun = regexp.MustCompile(`\d{1,4}`)
	reDecimal  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reLotUnits = regexp.MustCompile(`(sf|sqft|sqm|acres?|\+/-|±|m|ft|')`)
	reFullBath = regexp.MustCompile(`(\d+)\s*F`)
	reHalfBath = regexp.MustCompile(`(\d+)\s*H`)
)

// dateLayouts covers the formats seen across vendor feeds. Slash dates are
// month-first, matching the upstream data entry convention.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2-Jan-2006",
}

// ParseDate parses a calendar date in any of the supported vendor formats.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseAge normalizes an age field like "new", "built in 1990" or "20 years
// old" into years. A 3-4 digit number between 999 and the reference year is
// treated as a construction year and converted to an age; anything else is
// taken as an age already expressed in years.
func ParseAge(raw, refDate string) Result {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unparseable(ReasonEmpty)
	}

	if strings.Contains(s, "new") {
		return Ok(0)
	}

	m := reDigitRun.FindString(s)
	if m == "" {
		return Unparseable(ReasonNoNumber)
	}
	n, _ := strconv.Atoi(m)

	ref, err := ParseDate(refDate)
	if err != nil {
		return Unparseable(ReasonBadReferenceDate)
	}
	year := ref.Year()

	if n >= 999 && n <= year {
		return Ok(float64(year - n))
	}
	return Ok(float64(n))
}

// ParseGLA extracts a gross living area and standardizes it to square feet.
// A "sqm" (or "sq m") unit token triggers metric conversion.
func ParseGLA(raw string) Result {
	s := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if s == "" {
		return Unparseable(ReasonEmpty)
	}

	m := reDecimal.FindString(s)
	if m == "" {
		return Unparseable(ReasonNoNumber)
	}
	number, _ := strconv.ParseFloat(m, 64)

	if hasMetricToken(s) {
		number *= sqmToSqft
	}

	return Ok(float64(round(number)))
}

func hasMetricToken(s string) bool {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if tok == "sqm" {
			return true
		}
		if tok == "sq" && i+1 < len(tokens) && tokens[i+1] == "m" {
			return true
		}
	}
	return false
}

// ParseLotSize parses a lot size and converts it to square feet. Values that
// describe no lot at all ("n/a", "condo", "common") or carry a bare unit with
// no number are rejected. Dimension-vs-area notation ("50 x 100 / 5000 sf")
// keeps only the substring after the last slash.
func ParseLotSize(raw string) Result {
	original := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if original == "" {
		return Unparseable(ReasonEmpty)
	}

	if strings.Contains(original, "n/a") || strings.Contains(original, "condo") ||
		strings.Contains(original, "common") || original == "sqft" || original == "sqm" {
		return Unparseable(ReasonExcludedToken)
	}

	s := original
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = strings.TrimSpace(s[idx+1:])
	}

	// Strip unit markers before numeric extraction so a stray token is not
	// misread as part of the number.
	s = strings.TrimSpace(reLotUnits.ReplaceAllString(s, ""))

	m := reDecimal.FindString(s)
	if m == "" {
		return Unparseable(ReasonNoNumber)
	}
	number, _ := strconv.ParseFloat(m, 64)

	if strings.Contains(original, "sqm") {
		number *= sqmToSqft
	} else if strings.Contains(original, "acre") || strings.Contains(original, "ac") {
		number *= acreToSqft
	}

	return Ok(float64(round(number)))
}

// ParseRoomCount parses a room count, supporting the "A+B" shorthand for main
// plus additional (e.g. basement) rooms. More than two "+"-joined terms is
// undefined in the source data and rejected rather than guessed at.
func ParseRoomCount(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unparseable(ReasonEmpty)
	}

	if strings.Contains(s, "+") {
		parts := strings.Split(s, "+")
		if len(parts) != 2 {
			return Unparseable(ReasonMalformed)
		}
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errA != nil || errB != nil {
			return Unparseable(ReasonMalformed)
		}
		return Ok(float64(a + b))
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Unparseable(ReasonMalformed)
	}
	return Ok(float64(n))
}

// ParseBathString parses a combined bathroom encoding: "3F 1H", "3:1" or a
// bare full count. On failure the score is unparseable but the counts are
// still zero-valued, because downstream diff features assume the counts are
// present even when the composite score is unknown.
func ParseBathString(raw string) (score Result, full, half int) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Unparseable(ReasonEmpty), 0, 0
	}

	fm := reFullBath.FindStringSubmatch(s)
	hm := reHalfBath.FindStringSubmatch(s)

	switch {
	case fm != nil || hm != nil:
		if fm != nil {
			full, _ = strconv.Atoi(fm[1])
		}
		if hm != nil {
			half, _ = strconv.Atoi(hm[1])
		}
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		var errF, errH error
		full, errF = strconv.Atoi(strings.TrimSpace(parts[0]))
		half, errH = strconv.Atoi(strings.TrimSpace(parts[1]))
		if errF != nil || errH != nil {
			return Unparseable(ReasonMalformed), 0, 0
		}
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return Unparseable(ReasonMalformed), 0, 0
		}
		full = n
	}

	return Ok(float64(full) + 0.5*float64(half)), full, half
}

// ParseBathCounts computes a bath score from separate full/half counts, as
// supplied by candidate-pool records. Empty counts default to zero; a count
// that fails to parse invalidates the score but still yields zero counts.
func ParseBathCounts(fullRaw, halfRaw string) (score Result, full, half int) {
	var err error
	full, err = parseCount(fullRaw)
	if err != nil {
		return Unparseable(ReasonNotNumeric), 0, 0
	}
	half, err = parseCount(halfRaw)
	if err != nil {
		return Unparseable(ReasonNotNumeric), 0, 0
	}
	return Ok(float64(full) + 0.5*float64(half)), full, half
}

// parseCount parses a bath count that may arrive as "2", "2.0" or empty.
func parseCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ParseDistanceKM strips a trailing "km" unit and parses a float distance.
func ParseDistanceKM(raw string) Result {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unparseable(ReasonEmpty)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "km", ""))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unparseable(ReasonNotNumeric)
	}
	return Ok(f)
}

// ParseMoney strips thousands separators and parses an integer amount.
func ParseMoney(raw string) Result {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return Unparseable(ReasonEmpty)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Unparseable(ReasonNotNumeric)
	}
	return Ok(float64(n))
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
