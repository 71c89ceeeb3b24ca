package fieldparse

import "testing"

func TestParseAge(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		refDate  string
		expected float64
		valid    bool
		reason   Reason
	}{
		{"new", "new", "2024-06-01", 0, true, 0},
		{"newer construction", "Newer", "2024-06-01", 0, true, 0},
		{"plain age", "20", "2024-06-01", 20, true, 0},
		{"year built", "1990", "2024-06-01", 34, true, 0},
		{"year boundary", "999", "2024-06-01", 1025, true, 0},
		{"below year boundary", "998", "2024-06-01", 998, true, 0},
		{"age in prose", "built in 1990", "2024-06-01", 34, true, 0},
		{"empty", "", "2024-06-01", 0, false, ReasonEmpty},
		{"no digits", "old", "2024-06-01", 0, false, ReasonNoNumber},
		{"bad reference date", "15", "unknown", 0, false, ReasonBadReferenceDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAge(tt.raw, tt.refDate)
			if got.Valid != tt.valid {
				t.Fatalf("ParseAge(%q, %q).Valid = %v, expected %v", tt.raw, tt.refDate, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseAge(%q, %q) = %v, expected %v", tt.raw, tt.refDate, got.Value, tt.expected)
			}
			if !tt.valid && got.Reason != tt.reason {
				t.Errorf("ParseAge(%q, %q).Reason = %v, expected %v", tt.raw, tt.refDate, got.Reason, tt.reason)
			}
		})
	}
}

func TestParseGLA(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		valid    bool
	}{
		{"plain sqft", "1500 sqft", 1500, true},
		{"bare number", "1500", 1500, true},
		{"thousands separator", "1,500 SqFt", 1500, true},
		{"metric", "150 sqm", 1615, true},
		{"metric two tokens", "150 sq m", 1615, true},
		{"decimal", "1500.4", 1500, true},
		{"empty", "", 0, false},
		{"no number", "unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGLA(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseGLA(%q).Valid = %v, expected %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseGLA(%q) = %v, expected %v", tt.raw, got.Value, tt.expected)
			}
		})
	}
}

func TestParseLotSize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		valid    bool
		reason   Reason
	}{
		{"plain sf", "5000 sf", 5000, true, 0},
		{"thousands separator", "5,000 sqft", 5000, true, 0},
		{"acres", "0.5 acres", 21780, true, 0},
		{"acre abbreviation", "0.25 ac", 10890, true, 0},
		{"metric", "465 sqm", 5005, true, 0},
		{"dimensions then area", "50 x 100 / 5000 sf", 5000, true, 0},
		{"tolerance marker", "5000 sf +/-", 5000, true, 0},
		{"not applicable", "n/a", 0, false, ReasonExcludedToken},
		{"condo", "Condo", 0, false, ReasonExcludedToken},
		{"common element", "common element", 0, false, ReasonExcludedToken},
		{"bare unit", "sqft", 0, false, ReasonExcludedToken},
		{"empty", "", 0, false, ReasonEmpty},
		{"no number", "irregular", 0, false, ReasonNoNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLotSize(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseLotSize(%q).Valid = %v, expected %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseLotSize(%q) = %v, expected %v", tt.raw, got.Value, tt.expected)
			}
			if !tt.valid && got.Reason != tt.reason {
				t.Errorf("ParseLotSize(%q).Reason = %v, expected %v", tt.raw, got.Reason, tt.reason)
			}
		})
	}
}

func TestParseRoomCount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		valid    bool
	}{
		{"plain", "7", 7, true},
		{"plus shorthand", "6+2", 8, true},
		{"plus with spaces", "6 + 2", 8, true},
		{"three terms rejected", "6+2+1", 0, false},
		{"non numeric", "six", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRoomCount(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseRoomCount(%q).Valid = %v, expected %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseRoomCount(%q) = %v, expected %v", tt.raw, got.Value, tt.expected)
			}
		})
	}
}

func TestParseBathString(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		score    float64
		full     int
		half     int
		valid    bool
	}{
		{"full and half markers", "3F 1H", 3.5, 3, 1, true},
		{"lowercase markers", "2f 1h", 2.5, 2, 1, true},
		{"colon format", "3:1", 3.5, 3, 1, true},
		{"full only marker", "2F", 2, 2, 0, true},
		{"half only marker", "1H", 0.5, 0, 1, true},
		{"bare count", "2", 2, 2, 0, true},
		{"malformed colon", "a:b", 0, 0, 0, false},
		{"garbage", "none", 0, 0, 0, false},
		{"empty", "", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, full, half := ParseBathString(tt.raw)
			if score.Valid != tt.valid {
				t.Fatalf("ParseBathString(%q).Valid = %v, expected %v", tt.raw, score.Valid, tt.valid)
			}
			if tt.valid && score.Value != tt.score {
				t.Errorf("ParseBathString(%q) score = %v, expected %v", tt.raw, score.Value, tt.score)
			}
			if full != tt.full || half != tt.half {
				t.Errorf("ParseBathString(%q) counts = (%d, %d), expected (%d, %d)",
					tt.raw, full, half, tt.full, tt.half)
			}
		})
	}
}

func TestParseBathCounts(t *testing.T) {
	tests := []struct {
		name    string
		fullRaw string
		halfRaw string
		score   float64
		full    int
		half    int
		valid   bool
	}{
		{"both counts", "2", "1", 2.5, 2, 1, true},
		{"decimal count", "2.0", "1", 2.5, 2, 1, true},
		{"empty half defaults", "2", "", 2, 2, 0, true},
		{"both empty", "", "", 0, 0, 0, true},
		{"bad full count", "x", "1", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, full, half := ParseBathCounts(tt.fullRaw, tt.halfRaw)
			if score.Valid != tt.valid {
				t.Fatalf("ParseBathCounts(%q, %q).Valid = %v, expected %v",
					tt.fullRaw, tt.halfRaw, score.Valid, tt.valid)
			}
			if tt.valid && score.Value != tt.score {
				t.Errorf("score = %v, expected %v", score.Value, tt.score)
			}
			if full != tt.full || half != tt.half {
				t.Errorf("counts = (%d, %d), expected (%d, %d)", full, half, tt.full, tt.half)
			}
		})
	}
}

func TestParseDistanceKM(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		valid    bool
	}{
		{"with unit", "0.85 KM", 0.85, true},
		{"bare number", "1.2", 1.2, true},
		{"non numeric", "far", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDistanceKM(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseDistanceKM(%q).Valid = %v, expected %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseDistanceKM(%q) = %v, expected %v", tt.raw, got.Value, tt.expected)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		valid    bool
	}{
		{"thousands separator", "450,000", 450000, true},
		{"bare number", "325000", 325000, true},
		{"non numeric", "TBD", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMoney(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseMoney(%q).Valid = %v, expected %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && got.Value != tt.expected {
				t.Errorf("ParseMoney(%q) = %v, expected %v", tt.raw, got.Value, tt.expected)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		year  int
		month int
		day   int
	}{
		{"iso", "2024-06-01", 2024, 6, 1},
		{"slash month first", "6/1/2024", 2024, 6, 1},
		{"written month", "Jun 1, 2024", 2024, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.raw, err)
			}
			if got.Year() != tt.year || int(got.Month()) != tt.month || got.Day() != tt.day {
				t.Errorf("ParseDate(%q) = %v", tt.raw, got)
			}
		})
	}

	if _, err := ParseDate("not a date"); err == nil {
		t.Errorf("ParseDate accepted garbage")
	}
}
