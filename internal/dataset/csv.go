package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteTrainingCSV writes rows with the stable Columns header.
func WriteTrainingCSV(path string, rows []TrainingRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create training file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range rows {
		if err := writer.Write(rows[i].record()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return writer.Error()
}

// ReadTrainingCSV reads a training file back into rows, resolving columns by
// header name so column order and extra columns do not matter. Absolute
// columns are not read; they are rederived from the raw diffs on write.
func ReadTrainingCSV(path string) ([]TrainingRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read training file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columnMap := make(map[string]int)
	for i, col := range records[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	rows := make([]TrainingRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := TrainingRow{
			OrderID:          cell(record, columnMap, "orderid"),
			CandidateAddress: cell(record, columnMap, "candidate_address"),
			SubjectAddress:   cell(record, columnMap, "subject_address"),
		}
		row.IsComp, _ = strconv.Atoi(cell(record, columnMap, "is_comp"))

		row.BathScoreDiff = parseFloatCell(cell(record, columnMap, "bath_score_diff"))
		row.FullBathsDiff = parseIntCell(cell(record, columnMap, "full_baths_diff"))
		row.HalfBathsDiff = parseIntCell(cell(record, columnMap, "half_baths_diff"))
		row.RoomCountDiff = parseIntCell(cell(record, columnMap, "room_count_diff"))
		row.BedroomsDiff = parseIntCell(cell(record, columnMap, "bedrooms_diff"))
		row.EffectiveAgeDiff = parseIntCell(cell(record, columnMap, "effective_age_diff"))
		row.SubjectAgeDiff = parseIntCell(cell(record, columnMap, "subject_age_diff"))
		row.LotSizeSFDiff = parseFloatCell(cell(record, columnMap, "lot_size_sf_diff"))
		row.GLADiff = parseIntCell(cell(record, columnMap, "gla_diff"))
		row.SamePropertyType = parseIntCell(cell(record, columnMap, "same_property_type"))
		row.SoldRecently = parseIntCell(cell(record, columnMap, "sold_recently"))
		row.DistanceKM = parseFloatCell(cell(record, columnMap, "distance_to_subject_km"))

		rows = append(rows, row)
	}
	return rows, nil
}

func cell(record []string, columnMap map[string]int, name string) string {
	idx, ok := columnMap[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseIntCell(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		n = int(f)
	}
	return &n
}

func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
