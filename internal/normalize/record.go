// Package normalize converts raw appraisal records into their canonical form:
// address identity keys for deduplication and numeric field values produced
// by the field parsers. The field-to-parser mapping differs per entity (a
// subject's age lives in subject_age, a comp's in age, a property's in
// year_built) and is a fixed table encoded below, not inferred.
package normalize

import (
	"fmt"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/debug"
	"github.com/appraisal-comps/internal/fieldparse"
)

// Conditions accumulates the distinct condition strings seen during one
// normalization run. It is threaded through the pass and returned with the
// run report; repeated or parallel runs never share one through package
// state.
type Conditions struct {
	Subject []string
	Comp    []string

	seenSubject map[string]bool
	seenComp    map[string]bool
}

// NewConditions creates an empty accumulator.
func NewConditions() *Conditions {
	return &Conditions{
		seenSubject: make(map[string]bool),
		seenComp:    make(map[string]bool),
	}
}

// AddSubject records a subject condition value if not seen before.
func (c *Conditions) AddSubject(val string) {
	if !c.seenSubject[val] {
		c.seenSubject[val] = true
		c.Subject = append(c.Subject, val)
	}
}

// AddComp records a comp condition value if not seen before.
func (c *Conditions) AddComp(val string) {
	if !c.seenComp[val] {
		c.seenComp[val] = true
		c.Comp = append(c.Comp, val)
	}
}

// Merge folds another accumulator into this one, preserving first-seen order
// within each source. Used when appraisals are normalized by parallel workers.
func (c *Conditions) Merge(other *Conditions) {
	for _, v := range other.Subject {
		c.AddSubject(v)
	}
	for _, v := range other.Comp {
		c.AddComp(v)
	}
}

// Normalizer applies the field parsers across every entity of an appraisal,
// writing canonical values back in place. Normalization is idempotent: the
// parsers accept already-canonical numeric text and pass it through.
type Normalizer struct{}

// NewNormalizer creates a record normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeAppraisal normalizes one appraisal in place. A structurally
// malformed subject is an appraisal-level failure returned as an error; the
// caller continues with the rest of the batch. Empty or missing comp and
// property collections are tolerated.
func (n *Normalizer) NormalizeAppraisal(localDebug bool, a *appraisal.Appraisal, conds *Conditions) error {
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	if a.Subject.Address == "" {
		return fmt.Errorf("appraisal %s: subject has no address", a.ID())
	}

	debug.Output(localDebug, "Normalizing appraisal %s: %d comps, %d properties",
		a.ID(), len(a.Comps), len(a.Properties))

	n.normalizeSubject(&a.Subject, conds)

	for _, comp := range a.Comps {
		n.normalizeComp(comp, conds)
	}
	for _, prop := range a.Properties {
		n.normalizeProperty(prop)
	}

	return nil
}

func (n *Normalizer) normalizeSubject(s *appraisal.Subject, conds *Conditions) {
	effDate := s.EffectiveDate.Raw()

	applyResult(&s.SubjectAge, fieldparse.ParseAge(s.SubjectAge.Raw(), effDate), asInt)
	applyResult(&s.EffectiveAge, fieldparse.ParseAge(s.EffectiveAge.Raw(), effDate), asInt)
	applyResult(&s.GLA, fieldparse.ParseGLA(s.GLA.Raw()), asInt)
	applyResult(&s.LotSizeSF, fieldparse.ParseLotSize(s.LotSizeSF.Raw()), asFloat)
	applyResult(&s.RoomCount, fieldparse.ParseRoomCount(s.RoomCount.Raw()), asInt)
	applyResult(&s.NumBeds, fieldparse.ParseRoomCount(s.NumBeds.Raw()), asInt)

	score, full, half := fieldparse.ParseBathString(s.NumBaths.Raw())
	applyResult(&s.BathScore, score, asFloat)
	s.NumFullBaths.SetInt(full)
	s.NumHalfBaths.SetInt(half)

	if conds != nil {
		conds.AddSubject(s.Condition.Raw())
	}
}

func (n *Normalizer) normalizeComp(c *appraisal.Comp, conds *Conditions) {
	applyResult(&c.Age, fieldparse.ParseAge(c.Age.Raw(), c.SaleDate.Raw()), asInt)
	applyResult(&c.GLA, fieldparse.ParseGLA(c.GLA.Raw()), asInt)
	applyResult(&c.LotSizeSF, fieldparse.ParseLotSize(c.LotSize.Raw()), asFloat)
	applyResult(&c.RoomCount, fieldparse.ParseRoomCount(c.RoomCount.Raw()), asInt)
	applyResult(&c.NumBeds, fieldparse.ParseRoomCount(c.BedCount.Raw()), asInt)

	score, full, half := fieldparse.ParseBathString(c.BathCount.Raw())
	applyResult(&c.BathScore, score, asFloat)
	c.NumFullBaths.SetInt(full)
	c.NumHalfBaths.SetInt(half)

	applyResult(&c.SalePrice, fieldparse.ParseMoney(c.SalePrice.Raw()), asInt)
	applyResult(&c.DistanceToSubjectKM, fieldparse.ParseDistanceKM(c.DistanceToSubject.Raw()), asFloat)

	if conds != nil {
		conds.AddComp(c.Condition.Raw())
	}
}

func (n *Normalizer) normalizeProperty(p *appraisal.Property) {
	applyResult(&p.Age, fieldparse.ParseAge(p.YearBuilt.Raw(), p.CloseDate.Raw()), asInt)
	applyResult(&p.GLA, fieldparse.ParseGLA(p.GLA.Raw()), asInt)
	applyResult(&p.LotSizeSF, fieldparse.ParseLotSize(p.LotSizeSF.Raw()), asFloat)
	applyResult(&p.RoomCount, fieldparse.ParseRoomCount(p.RoomCount.Raw()), asInt)
	applyResult(&p.NumBeds, fieldparse.ParseRoomCount(p.Bedrooms.Raw()), asInt)

	score, full, half := fieldparse.ParseBathCounts(p.FullBaths.Raw(), p.HalfBaths.Raw())
	applyResult(&p.BathScore, score, asFloat)
	p.NumFullBaths.SetInt(full)
	p.NumHalfBaths.SetInt(half)

	applyResult(&p.SalePrice, fieldparse.ParseMoney(p.ClosePrice.Raw()), asInt)
}

type numKind int

const (
	asInt numKind = iota
	asFloat
)

func applyResult(v *appraisal.Value, r fieldparse.Result, kind numKind) {
	if !r.Valid {
		v.Clear()
		return
	}
	if kind == asInt {
		v.SetInt(r.Int())
		return
	}
	v.SetFloat(r.Value)
}
