package appraisal

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		raw      string
		isNumber bool
	}{
		{"string", `"1,500 sqft"`, "1,500 sqft", false},
		{"number literal", `1500`, "1500", true},
		{"float literal", `0.85`, "0.85", true},
		{"null", `null`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if v.Raw() != tt.raw {
				t.Errorf("Raw() = %q, expected %q", v.Raw(), tt.raw)
			}
			if v.IsNumber() != tt.isNumber {
				t.Errorf("IsNumber() = %v", v.IsNumber())
			}
		})
	}
}

func TestValueMarshal(t *testing.T) {
	tests := []struct {
		name     string
		build    func() Value
		expected string
	}{
		{"raw string echoes", func() Value { return String("1,500 sqft") }, `"1,500 sqft"`},
		{"empty raw as null", func() Value { return String("") }, `null`},
		{"canonical int", func() Value {
			v := String("1,500 sqft")
			v.SetInt(1500)
			return v
		}, `1500`},
		{"canonical float", func() Value {
			v := String("0.5 acres")
			v.SetFloat(21780)
			return v
		}, `21780`},
		{"fractional float", func() Value {
			v := Value{}
			v.SetFloat(2.5)
			return v
		}, `2.5`},
		{"cleared as null", func() Value {
			v := String("n/a")
			v.Clear()
			return v
		}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.build())
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("marshal = %s, expected %s", data, tt.expected)
			}
		})
	}
}

func TestValueRoundTrip(t *testing.T) {
	// a normalized number must re-read as the same number's text form
	v := String("140 sqm")
	v.SetInt(1507)

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Value
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Raw() != "1507" {
		t.Errorf("round trip raw = %q, expected 1507", back.Raw())
	}
	if !back.IsNumber() || back.Int() != 1507 {
		t.Errorf("round trip number = %v/%d, expected 1507", back.IsNumber(), back.Int())
	}
}

func TestValueReloadKeepsNumberState(t *testing.T) {
	tests := []struct {
		name  string
		build func() Value
		isInt bool
		num   float64
	}{
		{"int", func() Value {
			v := String("1,500 sqft")
			v.SetInt(1500)
			return v
		}, true, 1500},
		{"float", func() Value {
			v := String("0.85 km")
			v.SetFloat(0.85)
			return v
		}, false, 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.build())
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			var back Value
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if !back.IsNumber() {
				t.Fatalf("IsNumber() = false after reload")
			}
			if back.Float() != tt.num {
				t.Errorf("Float() = %v, expected %v", back.Float(), tt.num)
			}
			if tt.isInt && back.Raw() != "1500" {
				t.Errorf("Raw() = %q, expected 1500", back.Raw())
			}
		})
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	doc := `{"appraisals":[{"orderID":"ORD-1","subject":{"address":"1 Main St","gla":"1,500 sqft","vendor_extra":"kept out"},"comps":[],"properties":[]}]}`

	var ds Dataset
	if err := json.Unmarshal([]byte(doc), &ds); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(ds.Appraisals) != 1 {
		t.Fatalf("appraisal count = %d", len(ds.Appraisals))
	}

	a := ds.Appraisals[0]
	if a.ID() != "ORD-1" {
		t.Errorf("ID() = %q", a.ID())
	}
	if a.Subject.GLA.Raw() != "1,500 sqft" {
		t.Errorf("gla raw = %q", a.Subject.GLA.Raw())
	}
	if a.Comps == nil || len(a.Comps) != 0 {
		t.Errorf("comps = %v", a.Comps)
	}
}

func TestAppraisalIDUnknown(t *testing.T) {
	a := &Appraisal{}
	if a.ID() != "UNKNOWN" {
		t.Errorf("ID() = %q, expected UNKNOWN", a.ID())
	}
}
