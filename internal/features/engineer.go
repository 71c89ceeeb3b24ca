package features

import (
	"time"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/debug"
	"github.com/appraisal-comps/internal/fieldparse"
	"github.com/appraisal-comps/internal/proptype"
)

// Engineer computes subject-vs-candidate comparison features and writes them
// onto the comp/property records in place. The subject record is never
// modified. The canonicalizer is read-only after construction, so a single
// Engineer may be shared across parallel workers.
type Engineer struct {
	types      *proptype.Canonicalizer
	recentDays int
}

// NewEngineer builds an engineer over the given type canonicalizer.
// recentDays of 0 or below selects the default 90-day recency window.
func NewEngineer(types *proptype.Canonicalizer, recentDays int) *Engineer {
	if recentDays <= 0 {
		recentDays = 90
	}
	return &Engineer{types: types, recentDays: recentDays}
}

// EngineerAppraisal runs every feature pass over one appraisal's comps and
// properties.
func (e *Engineer) EngineerAppraisal(localDebug bool, a *appraisal.Appraisal) {
	debug.Output(localDebug, "Engineering features for appraisal %s (%d comps, %d properties)",
		a.ID(), len(a.Comps), len(a.Properties))

	e.soldRecently(a)
	e.samePropertyType(a)
	e.diffFeatures(a)
}

// soldRecently flags candidates whose sale/close date falls within the
// recency window of the subject's effective date. The day count is signed:
// a sale after the effective date produces a negative count, which still
// passes the <= window test. Candidates with unparseable dates get no flag.
func (e *Engineer) soldRecently(a *appraisal.Appraisal) {
	effective, err := fieldparse.ParseDate(a.Subject.EffectiveDate.Raw())
	if err != nil {
		return
	}

	for _, c := range a.Comps {
		c.SoldRecently = e.recencyFlag(effective, c.SaleDate.Raw())
	}
	for _, p := range a.Properties {
		p.SoldRecently = e.recencyFlag(effective, p.CloseDate.Raw())
	}
}

func (e *Engineer) recencyFlag(effective time.Time, saleRaw string) *int {
	sale, err := fieldparse.ParseDate(saleRaw)
	if err != nil {
		return nil
	}
	days := int(effective.Sub(sale).Hours() / 24)
	if days <= e.recentDays {
		return intPtr(1)
	}
	return intPtr(0)
}

// samePropertyType compares each candidate's canonicalized type against the
// subject's. When the subject's own type cannot be resolved the feature is
// omitted entirely rather than set to 0.
func (e *Engineer) samePropertyType(a *appraisal.Appraisal) {
	subjectType, ok := e.types.Canonicalize(a.Subject.StructureType.Raw())
	if !ok {
		return
	}

	for _, c := range a.Comps {
		compType, _ := e.types.Canonicalize(c.PropType.Raw())
		c.SamePropertyType = boolFlag(compType == subjectType)
	}
	for _, p := range a.Properties {
		propType, _ := e.types.Canonicalize(p.PropertySubType.Raw())
		p.SamePropertyType = boolFlag(propType == subjectType)
	}
}

// diffFeatures computes subject minus candidate for each numeric field pair.
// A diff is written only when both operands are present and non-zero; a
// present-but-zero value counts as missing, matching the parsers' convention
// that falsy means absent.
func (e *Engineer) diffFeatures(a *appraisal.Appraisal) {
	s := &a.Subject

	for _, c := range a.Comps {
		c.EffectiveAgeDiff = intDiff(s.EffectiveAge, c.Age)
		c.SubjectAgeDiff = intDiff(s.SubjectAge, c.Age)
		c.LotSizeDiffSF = floatDiff(s.LotSizeSF, c.LotSizeSF)
		c.GLADiff = intDiff(s.GLA, c.GLA)
		c.RoomCountDiff = intDiff(s.RoomCount, c.RoomCount)
		c.BedroomsDiff = intDiff(s.NumBeds, c.NumBeds)
		c.BathScoreDiff = floatDiff(s.BathScore, c.BathScore)
		c.FullBathsDiff = intDiff(s.NumFullBaths, c.NumFullBaths)
		c.HalfBathsDiff = intDiff(s.NumHalfBaths, c.NumHalfBaths)
	}
	for _, p := range a.Properties {
		p.EffectiveAgeDiff = intDiff(s.EffectiveAge, p.Age)
		p.SubjectAgeDiff = intDiff(s.SubjectAge, p.Age)
		p.LotSizeDiffSF = floatDiff(s.LotSizeSF, p.LotSizeSF)
		p.GLADiff = intDiff(s.GLA, p.GLA)
		p.RoomCountDiff = intDiff(s.RoomCount, p.RoomCount)
		p.BedroomsDiff = intDiff(s.NumBeds, p.NumBeds)
		p.BathScoreDiff = floatDiff(s.BathScore, p.BathScore)
		p.FullBathsDiff = intDiff(s.NumFullBaths, p.NumFullBaths)
		p.HalfBathsDiff = intDiff(s.NumHalfBaths, p.NumHalfBaths)
	}
}

func truthy(v appraisal.Value) bool {
	return v.IsNumber() && v.Float() != 0
}

func intDiff(subject, candidate appraisal.Value) *int {
	if !truthy(subject) || !truthy(candidate) {
		return nil
	}
	return intPtr(subject.Int() - candidate.Int())
}

func floatDiff(subject, candidate appraisal.Value) *float64 {
	if !truthy(subject) || !truthy(candidate) {
		return nil
	}
	d := subject.Float() - candidate.Float()
	return &d
}

func intPtr(n int) *int {
	return &n
}

func boolFlag(b bool) *int {
	if b {
		return intPtr(1)
	}
	return intPtr(0)
}
