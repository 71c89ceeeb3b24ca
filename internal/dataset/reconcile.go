package dataset

// ReconcileStats reports what reconciliation did to the row set.
type ReconcileStats struct {
	Total     int
	Matched   int
	Flipped   int
	Confirmed int
	Dropped   int
}

// Reconcile folds human feedback into heuristic training rows. Join key is
// (orderID, normalized candidate address). A matched row takes the human
// label. Rows where both the human and the heuristic say 0 are dropped
// outright: they were never a comp and the human agrees, so they carry no
// signal. A human 0 against a heuristic 1 is a real correction and the row
// is kept with the label flipped. Unmatched rows pass through unchanged.
func Reconcile(rows []TrainingRow, feedback []FeedbackRecord) ([]TrainingRow, ReconcileStats) {
	stats := ReconcileStats{Total: len(rows)}
	if len(feedback) == 0 {
		return rows, stats
	}

	judgments := make(map[string]int, len(feedback))
	for _, rec := range feedback {
		judgments[feedbackKey(rec.OrderID, rec.CandidateAddress)] = rec.UserFeedback
	}

	out := make([]TrainingRow, 0, len(rows))
	for _, row := range rows {
		verdict, ok := judgments[feedbackKey(row.OrderID, row.CandidateAddress)]
		if !ok {
			out = append(out, row)
			continue
		}
		stats.Matched++

		if verdict == 0 && row.IsComp == 0 {
			stats.Dropped++
			continue
		}
		if verdict != row.IsComp {
			stats.Flipped++
		} else {
			stats.Confirmed++
		}
		row.IsComp = verdict
		out = append(out, row)
	}
	return out, stats
}
