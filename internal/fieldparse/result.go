package fieldparse

// Reason classifies why a field value was rejected. Downstream consumers only
// ever see "absent", but tests and diagnostics can tell the causes apart.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmpty
	ReasonNoNumber
	ReasonNotNumeric
	ReasonBadReferenceDate
	ReasonExcludedToken
	ReasonMalformed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmpty:
		return "empty"
	case ReasonNoNumber:
		return "no_number"
	case ReasonNotNumeric:
		return "not_numeric"
	case ReasonBadReferenceDate:
		return "bad_reference_date"
	case ReasonExcludedToken:
		return "excluded_token"
	case ReasonMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the outcome of parsing one raw field value. Parsers never return
// errors: bad input degrades to an invalid Result, not a pipeline failure.
type Result struct {
	Value  float64
	Valid  bool
	Reason Reason
}

// Ok wraps a successfully parsed value.
func Ok(v float64) Result {
	return Result{Value: v, Valid: true}
}

// Unparseable marks a failed parse with its cause.
func Unparseable(r Reason) Result {
	return Result{Reason: r}
}

// Int returns the parsed value rounded to the nearest integer.
func (r Result) Int() int {
	if r.Value < 0 {
		return int(r.Value - 0.5)
	}
	return int(r.Value + 0.5)
}
