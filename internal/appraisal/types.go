package appraisal

// Dataset is the top-level appraisal document: a sequence of independent
// appraisals, each processed end-to-end on its own.
type Dataset struct {
	Appraisals []*Appraisal `json:"appraisals"`
}

// Appraisal is one unit of work: a subject property, the comparables the
// appraiser actually selected (ground truth), and the full candidate pool.
type Appraisal struct {
	OrderID    Value       `json:"orderID"`
	Subject    Subject     `json:"subject"`
	Comps      []*Comp     `json:"comps"`
	Properties []*Property `json:"properties"`
}

// Subject is the property being appraised. Raw vendor fields are normalized
// in place; fields with no canonical counterpart pass through untouched.
type Subject struct {
	Address       string `json:"address"`
	EffectiveDate Value  `json:"effective_date"`
	SubjectAge    Value  `json:"subject_age"`
	EffectiveAge  Value  `json:"effective_age"`
	GLA           Value  `json:"gla"`
	LotSizeSF     Value  `json:"lot_size_sf"`
	RoomCount     Value  `json:"room_count"`
	NumBeds       Value  `json:"num_beds"`
	NumBaths      Value  `json:"num_baths"`
	BathScore     Value  `json:"bath_score"`
	NumFullBaths  Value  `json:"num_full_baths"`
	NumHalfBaths  Value  `json:"num_half_baths"`
	Condition     Value  `json:"condition"`
	StructureType Value  `json:"structure_type"`
	PropertyType  Value  `json:"property_type"`
}

// Comp is a comparable the appraiser selected. Its raw field names differ
// from Property's (sale_date/sale_price vs close_date/close_price, bed_count
// vs bedrooms); the normalizer maps both onto the same canonical fields.
type Comp struct {
	Address             string `json:"address"`
	SaleDate            Value  `json:"sale_date"`
	SalePrice           Value  `json:"sale_price"`
	DistanceToSubject   Value  `json:"distance_to_subject"`
	DistanceToSubjectKM Value  `json:"distance_to_subject_km"`
	Age                 Value  `json:"age"`
	GLA                 Value  `json:"gla"`
	LotSize             Value  `json:"lot_size"`
	LotSizeSF           Value  `json:"lot_size_sf"`
	RoomCount           Value  `json:"room_count"`
	BedCount            Value  `json:"bed_count"`
	NumBeds             Value  `json:"num_beds"`
	BathCount           Value  `json:"bath_count"`
	BathScore           Value  `json:"bath_score"`
	NumFullBaths        Value  `json:"num_full_baths"`
	NumHalfBaths        Value  `json:"num_half_baths"`
	Condition           Value  `json:"condition"`
	PropType            Value  `json:"prop_type"`

	Engineered
}

// Property is one member of the candidate pool the model must rank.
type Property struct {
	Address         string `json:"address"`
	CloseDate       Value  `json:"close_date"`
	ClosePrice      Value  `json:"close_price"`
	SalePrice       Value  `json:"sale_price"`
	YearBuilt       Value  `json:"year_built"`
	Age             Value  `json:"age"`
	GLA             Value  `json:"gla"`
	LotSizeSF       Value  `json:"lot_size_sf"`
	RoomCount       Value  `json:"room_count"`
	Bedrooms        Value  `json:"bedrooms"`
	NumBeds         Value  `json:"num_beds"`
	FullBaths       Value  `json:"full_baths"`
	HalfBaths       Value  `json:"half_baths"`
	BathScore       Value  `json:"bath_score"`
	NumFullBaths    Value  `json:"num_full_baths"`
	NumHalfBaths    Value  `json:"num_half_baths"`
	PropertySubType Value  `json:"property_sub_type"`

	Engineered
}

// Engineered holds the subject-vs-candidate comparison features written by
// the feature pass. Diff fields are pointers so "unknown" (nil, omitted) is
// distinguishable from "no difference" (present zero). same_property_type is
// omitted entirely when the subject's own type is unresolved.
type Engineered struct {
	SoldRecently     *int     `json:"sold_recently,omitempty"`
	SamePropertyType *int     `json:"same_property_type,omitempty"`
	EffectiveAgeDiff *int     `json:"effective_age_diff,omitempty"`
	SubjectAgeDiff   *int     `json:"subject_age_diff,omitempty"`
	LotSizeDiffSF    *float64 `json:"lot_size_diff_sf,omitempty"`
	GLADiff          *int     `json:"gla_diff,omitempty"`
	RoomCountDiff    *int     `json:"room_count_diff,omitempty"`
	BedroomsDiff     *int     `json:"bedrooms_diff,omitempty"`
	BathScoreDiff    *float64 `json:"bath_score_diff,omitempty"`
	FullBathsDiff    *int     `json:"full_baths_diff,omitempty"`
	HalfBathsDiff    *int     `json:"half_baths_diff,omitempty"`
}

// ID returns the appraisal's order identifier, or "UNKNOWN" when the source
// record carried none.
func (a *Appraisal) ID() string {
	if id := a.OrderID.Raw(); id != "" {
		return id
	}
	return "UNKNOWN"
}
