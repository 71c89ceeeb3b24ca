package dataset

import (
	"math"
	"strconv"
)

// TrainingRow is one labeled subject-vs-candidate comparison. Diff fields
// are pointers: nil means the comparison was impossible, which serializes as
// an empty CSV cell rather than a misleading zero. Absolute-value columns
// are derived from the raw diffs at write time.
type TrainingRow struct {
	OrderID          string
	CandidateAddress string
	IsComp           int
	SubjectAddress   string

	BathScoreDiff    *float64
	FullBathsDiff    *int
	HalfBathsDiff    *int
	RoomCountDiff    *int
	BedroomsDiff     *int
	EffectiveAgeDiff *int
	SubjectAgeDiff   *int
	LotSizeSFDiff    *float64
	GLADiff          *int

	SamePropertyType *int
	SoldRecently     *int
	DistanceKM       *float64
}

// FeedbackRecord is one human judgment on a previously ranked candidate.
// Only orderID, candidate_address and user_feedback drive reconciliation;
// the remaining fields preserve review context in the append-only log.
type FeedbackRecord struct {
	OrderID          string  `json:"orderID"`
	CandidateAddress string  `json:"candidate_address"`
	SubjectAddress   string  `json:"subject_address"`
	Rank             int     `json:"rank"`
	Score            float64 `json:"score"`
	IsComp           int     `json:"is_comp"`
	UserFeedback     int     `json:"user_feedback"`
}

// Columns is the training CSV header, in the order rows are written.
var Columns = []string{
	"orderID",
	"candidate_address",
	"is_comp",
	"subject_address",
	"bath_score_diff",
	"full_baths_diff",
	"half_baths_diff",
	"room_count_diff",
	"bedrooms_diff",
	"effective_age_diff",
	"subject_age_diff",
	"lot_size_sf_diff",
	"gla_diff",
	"abs_bath_score_diff",
	"abs_full_bath_diff",
	"abs_half_bath_diff",
	"abs_room_count_diff",
	"abs_bedrooms_diff",
	"abs_effective_age_diff",
	"abs_subject_age_diff",
	"abs_lot_size_sf_diff",
	"abs_gla_diff",
	"same_property_type",
	"sold_recently",
	"distance_to_subject_km",
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func absIntCell(p *int) string {
	if p == nil {
		return ""
	}
	n := *p
	if n < 0 {
		n = -n
	}
	return strconv.Itoa(n)
}

func absFloatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(math.Abs(*p), 'f', -1, 64)
}

// record lays a row out in Columns order.
func (r *TrainingRow) record() []string {
	return []string{
		r.OrderID,
		r.CandidateAddress,
		strconv.Itoa(r.IsComp),
		r.SubjectAddress,
		floatCell(r.BathScoreDiff),
		intCell(r.FullBathsDiff),
		intCell(r.HalfBathsDiff),
		intCell(r.RoomCountDiff),
		intCell(r.BedroomsDiff),
		intCell(r.EffectiveAgeDiff),
		intCell(r.SubjectAgeDiff),
		floatCell(r.LotSizeSFDiff),
		intCell(r.GLADiff),
		absFloatCell(r.BathScoreDiff),
		absIntCell(r.FullBathsDiff),
		absIntCell(r.HalfBathsDiff),
		absIntCell(r.RoomCountDiff),
		absIntCell(r.BedroomsDiff),
		absIntCell(r.EffectiveAgeDiff),
		absIntCell(r.SubjectAgeDiff),
		absFloatCell(r.LotSizeSFDiff),
		absIntCell(r.GLADiff),
		intCell(r.SamePropertyType),
		intCell(r.SoldRecently),
		floatCell(r.DistanceKM),
	}
}
