package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/appraisal-comps/internal/normalize"
)

// FeedbackColumns is the feedback log header, in write order.
var FeedbackColumns = []string{
	"orderID",
	"rank",
	"candidate_address",
	"subject_address",
	"score",
	"is_comp",
	"user_feedback",
}

// ReadFeedbackLog loads the append-only feedback log. A missing file is not
// an error: reviews may never have happened, in which case reconciliation is
// a pass-through. Duplicate judgments on the same (orderID, address) pair are
// collapsed keeping the most recent one.
func ReadFeedbackLog(path string) ([]FeedbackRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open feedback log %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback log %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	columnMap := make(map[string]int)
	for i, col := range records[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var recs []FeedbackRecord
	latest := make(map[string]int)
	for _, record := range records[1:] {
		rec := FeedbackRecord{
			OrderID:          cell(record, columnMap, "orderid"),
			CandidateAddress: cell(record, columnMap, "candidate_address"),
			SubjectAddress:   cell(record, columnMap, "subject_address"),
		}
		rec.Rank, _ = strconv.Atoi(cell(record, columnMap, "rank"))
		rec.Score, _ = strconv.ParseFloat(cell(record, columnMap, "score"), 64)
		rec.IsComp, _ = strconv.Atoi(cell(record, columnMap, "is_comp"))
		rec.UserFeedback, _ = strconv.Atoi(cell(record, columnMap, "user_feedback"))

		key := feedbackKey(rec.OrderID, rec.CandidateAddress)
		if idx, ok := latest[key]; ok {
			recs[idx] = rec
			continue
		}
		latest[key] = len(recs)
		recs = append(recs, rec)
	}
	return recs, nil
}

// AppendFeedback adds one judgment to the log, creating it with a header
// when absent.
func AppendFeedback(path string, rec FeedbackRecord) error {
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open feedback log %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if newFile {
		if err := writer.Write(FeedbackColumns); err != nil {
			return fmt.Errorf("failed to write feedback header: %w", err)
		}
	}
	record := []string{
		rec.OrderID,
		strconv.Itoa(rec.Rank),
		rec.CandidateAddress,
		rec.SubjectAddress,
		strconv.FormatFloat(rec.Score, 'f', -1, 64),
		strconv.Itoa(rec.IsComp),
		strconv.Itoa(rec.UserFeedback),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write feedback record: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func feedbackKey(orderID, address string) string {
	return orderID + "|" + normalize.AddressKey(address)
}
