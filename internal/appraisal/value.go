package appraisal

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value carries one vendor field through the pipeline. Vendor feeds are
// inconsistent about scalar types (the same field arrives as "1,500 sqft",
// 1500 or null depending on the source), so Value accepts any JSON scalar and
// keeps the original text for the parsers. Once a normalization pass assigns
// a canonical number, Value marshals as that number (or null when the field
// was unparseable), which is what makes re-reading a normalized document
// idempotent: the canonical number round-trips as its own text form.
type Value struct {
	raw    string
	quoted bool
	num    float64
	isInt  bool
	state  valueState
}

type valueState uint8

const (
	stateRaw valueState = iota
	stateNumber
	stateAbsent
)

// String builds a Value holding raw text, as if unmarshalled from a JSON
// string. Mostly useful in tests and when synthesizing records.
func String(s string) Value {
	return Value{raw: s, quoted: true}
}

// Number builds a Value already carrying a canonical float.
func Number(f float64) Value {
	v := Value{}
	v.SetFloat(f)
	return v
}

// Raw returns the original text form of the field. For a Value that has been
// assigned a canonical number, this is the number's text form.
func (v Value) Raw() string {
	switch v.state {
	case stateNumber:
		return v.numText()
	case stateAbsent:
		return ""
	default:
		return v.raw
	}
}

// IsNumber reports whether a normalization pass has assigned a canonical
// numeric value.
func (v Value) IsNumber() bool {
	return v.state == stateNumber
}

// Float returns the canonical numeric value, or 0 when none is set.
func (v Value) Float() float64 {
	if v.state != stateNumber {
		return 0
	}
	return v.num
}

// Int returns the canonical value rounded to the nearest integer.
func (v Value) Int() int {
	if v.state != stateNumber {
		return 0
	}
	if v.isInt {
		return int(v.num)
	}
	return int(v.num + 0.5)
}

// SetInt assigns a canonical integer value.
func (v *Value) SetInt(n int) {
	v.num = float64(n)
	v.isInt = true
	v.state = stateNumber
}

// SetFloat assigns a canonical float value.
func (v *Value) SetFloat(f float64) {
	v.num = f
	v.isInt = false
	v.state = stateNumber
}

// Clear marks the field as unparseable; it marshals as null from here on.
func (v *Value) Clear() {
	v.num = 0
	v.isInt = false
	v.state = stateAbsent
}

func (v Value) numText() string {
	if v.isInt {
		return strconv.FormatInt(int64(v.num), 10)
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// UnmarshalJSON accepts any JSON scalar. A bare numeric literal is recorded
// as a canonical number, so a normalized document reloads with its numbers
// intact; strings keep their text form for the parsers.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v.raw = str
		v.quoted = true
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		v.SetInt(int(n))
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v.SetFloat(f)
		return nil
	}
	v.raw = s
	return nil
}

// MarshalJSON writes the canonical number when one has been assigned, null
// when the field was cleared, and otherwise echoes the original scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.state {
	case stateNumber:
		return []byte(v.numText()), nil
	case stateAbsent:
		return []byte("null"), nil
	default:
		if v.raw == "" {
			return []byte("null"), nil
		}
		if v.quoted {
			return json.Marshal(v.raw)
		}
		return []byte(v.raw), nil
	}
}
