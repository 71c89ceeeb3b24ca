package dataset

import (
	"log"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/debug"
	"github.com/appraisal-comps/internal/normalize"
)

// Assembler flattens engineered appraisals into labeled training rows. Comps
// carry label 1; properties carry 1 only when their normalized address
// matches a comp's. Dedup is per appraisal, keyed on the normalized address,
// comps taking precedence over pool entries.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// AssembleAppraisal produces one row per unique normalized candidate address
// for a single appraisal. Candidates with blank addresses are skipped with a
// warning; the rest of the appraisal proceeds.
func (as *Assembler) AssembleAppraisal(localDebug bool, a *appraisal.Appraisal) []TrainingRow {
	orderID := a.ID()
	subjectAddr := normalize.DisplayAddress(a.Subject.Address)

	compKeys := make(map[string]bool)
	for _, c := range a.Comps {
		if key := normalize.AddressKey(c.Address); key != "" {
			compKeys[key] = true
		}
	}

	seen := make(map[string]bool)
	rows := make([]TrainingRow, 0, len(a.Comps)+len(a.Properties))

	for _, c := range a.Comps {
		key := normalize.AddressKey(c.Address)
		if key == "" {
			log.Printf("Skipping comp with no address in order %s", orderID)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, compRow(orderID, subjectAddr, c))
	}

	for _, p := range a.Properties {
		key := normalize.AddressKey(p.Address)
		if key == "" {
			log.Printf("Skipping property with no address in order %s", orderID)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, propertyRow(orderID, subjectAddr, p, compKeys[key]))
	}

	debug.Output(localDebug, "Assembled %d rows for appraisal %s", len(rows), orderID)
	return rows
}

// Assemble flattens a whole dataset. Row identity is (orderID, normalized
// address), so per-appraisal results may be concatenated in any order.
func (as *Assembler) Assemble(localDebug bool, ds *appraisal.Dataset) []TrainingRow {
	var rows []TrainingRow
	for _, a := range ds.Appraisals {
		rows = append(rows, as.AssembleAppraisal(localDebug, a)...)
	}
	return rows
}

func compRow(orderID, subjectAddr string, c *appraisal.Comp) TrainingRow {
	row := TrainingRow{
		OrderID:          orderID,
		CandidateAddress: normalize.DisplayAddress(c.Address),
		IsComp:           1,
		SubjectAddress:   subjectAddr,
	}
	fillDiffs(&row, &c.Engineered)
	if c.DistanceToSubjectKM.IsNumber() {
		km := c.DistanceToSubjectKM.Float()
		row.DistanceKM = &km
	}
	return row
}

func propertyRow(orderID, subjectAddr string, p *appraisal.Property, isComp bool) TrainingRow {
	label := 0
	if isComp {
		label = 1
	}
	row := TrainingRow{
		OrderID:          orderID,
		CandidateAddress: normalize.DisplayAddress(p.Address),
		IsComp:           label,
		SubjectAddress:   subjectAddr,
	}
	fillDiffs(&row, &p.Engineered)
	return row
}

func fillDiffs(row *TrainingRow, e *appraisal.Engineered) {
	row.BathScoreDiff = e.BathScoreDiff
	row.FullBathsDiff = e.FullBathsDiff
	row.HalfBathsDiff = e.HalfBathsDiff
	row.RoomCountDiff = e.RoomCountDiff
	row.BedroomsDiff = e.BedroomsDiff
	row.EffectiveAgeDiff = e.EffectiveAgeDiff
	row.SubjectAgeDiff = e.SubjectAgeDiff
	row.LotSizeSFDiff = e.LotSizeDiffSF
	row.GLADiff = e.GLADiff
	row.SamePropertyType = e.SamePropertyType
	row.SoldRecently = e.SoldRecently
}
