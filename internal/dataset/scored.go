package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ScoredRow is a training row that has been through the external ranker,
// which adds rank and score columns. The feedback log extends this shape
// with the human judgment.
type ScoredRow struct {
	TrainingRow
	Rank  int
	Score float64
}

// ReadScoredCSV reads a ranker output file. It tolerates any superset of the
// training columns as long as orderID, candidate_address, rank and score are
// present.
func ReadScoredCSV(path string) ([]ScoredRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scored file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read scored file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	columnMap := make(map[string]int)
	for i, col := range records[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"orderid", "candidate_address", "rank", "score"} {
		if _, ok := columnMap[required]; !ok {
			return nil, fmt.Errorf("scored file %s missing column %s", path, required)
		}
	}

	rows := make([]ScoredRow, 0, len(records)-1)
	for _, record := range records[1:] {
		var row ScoredRow
		row.OrderID = cell(record, columnMap, "orderid")
		row.CandidateAddress = cell(record, columnMap, "candidate_address")
		row.SubjectAddress = cell(record, columnMap, "subject_address")
		row.IsComp, _ = strconv.Atoi(cell(record, columnMap, "is_comp"))
		row.Rank, _ = strconv.Atoi(cell(record, columnMap, "rank"))
		row.Score, _ = strconv.ParseFloat(cell(record, columnMap, "score"), 64)
		row.DistanceKM = parseFloatCell(cell(record, columnMap, "distance_to_subject_km"))
		rows = append(rows, row)
	}
	return rows, nil
}
