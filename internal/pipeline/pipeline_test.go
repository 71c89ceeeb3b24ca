package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/dataset"
)

const testInput = `{
  "appraisals": [
    {
      "orderID": "ORD-1",
      "subject": {
        "address": "500 Oak Drive",
        "effective_date": "2024-06-01",
        "subject_age": "1990",
        "effective_age": "10",
        "gla": "1,500 sqft",
        "lot_size_sf": "0.5 acres",
        "room_count": "6+2",
        "num_beds": "3",
        "num_baths": "2:1",
        "condition": "Average",
        "structure_type": "Detached"
      },
      "comps": [
        {
          "address": "10 Birch Street",
          "sale_date": "2024-04-15",
          "sale_price": "450,000",
          "distance_to_subject": "0.85 KM",
          "age": "2004",
          "gla": "140 sqm",
          "lot_size": "45 x 110 / 4950 sf",
          "room_count": "7",
          "bed_count": "3",
          "bath_count": "2F 1H",
          "condition": "Good",
          "prop_type": "Detached"
        }
      ],
      "properties": [
        {
          "address": "10 birch st.",
          "close_date": "2024-04-15",
          "close_price": "450,000",
          "year_built": "2004",
          "gla": "1507",
          "lot_size_sf": "4950",
          "room_count": "7",
          "bedrooms": "3",
          "full_baths": "2",
          "half_baths": "1",
          "property_sub_type": "Detached"
        },
        {
          "address": "22 Cedar Avenue",
          "close_date": "2023-09-01",
          "close_price": "325,000",
          "year_built": "1999",
          "gla": "1400",
          "lot_size_sf": "4,400 sf",
          "room_count": "6",
          "bedrooms": "3",
          "full_baths": "2",
          "half_baths": "0",
          "property_sub_type": "Condo Apt"
        }
      ]
    },
    {
      "orderID": "ORD-2",
      "subject": {"address": ""},
      "comps": [],
      "properties": []
    }
  ]
}`

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "appraisals.json")
	if err := os.WriteFile(inputPath, []byte(testInput), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	return Config{
		InputPath:      inputPath,
		CleanedPath:    filepath.Join(dir, "cleaned.json"),
		EngineeredPath: filepath.Join(dir, "engineered.json"),
		TrainingCSV:    filepath.Join(dir, "training.csv"),
		ReconciledCSV:  filepath.Join(dir, "training_with_feedback.csv"),
		FeedbackCSV:    filepath.Join(dir, "feedback_log.csv"),
		GeocodeCache:   filepath.Join(dir, "geocoded.json"),
		Workers:        2,
		FuzzyThreshold: 80,
		RecentSaleDays: 90,
	}
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t)
	report, err := New(cfg, false).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Clean.Appraisals != 2 {
		t.Errorf("appraisals = %d, expected 2", report.Clean.Appraisals)
	}
	if report.Clean.Failed != 1 {
		t.Errorf("failed appraisals = %d, expected 1 for the blank subject", report.Clean.Failed)
	}
	if len(report.Clean.Conditions.Subject) != 1 || len(report.Clean.Conditions.Comp) != 1 {
		t.Errorf("conditions = %v / %v",
			report.Clean.Conditions.Subject, report.Clean.Conditions.Comp)
	}
	if report.GeocodeMissing != 3 {
		t.Errorf("geocode missing = %d, expected 3 distinct addresses", report.GeocodeMissing)
	}

	// 1 comp + 2 properties, one property collapsing onto the comp address
	if report.Dataset.Rows != 2 {
		t.Errorf("training rows = %d, expected 2", report.Dataset.Rows)
	}
	if report.Dataset.Positives != 1 {
		t.Errorf("positives = %d, expected 1", report.Dataset.Positives)
	}

	rows, err := dataset.ReadTrainingCSV(cfg.TrainingCSV)
	if err != nil {
		t.Fatalf("reading training csv failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv rows = %d", len(rows))
	}
	comp := rows[0]
	if comp.CandidateAddress != "10 Birch Street" || comp.IsComp != 1 {
		t.Errorf("comp row = %+v", comp)
	}
	if comp.SoldRecently == nil || *comp.SoldRecently != 1 {
		t.Errorf("sold_recently = %v, expected 1", comp.SoldRecently)
	}
	if comp.SamePropertyType == nil || *comp.SamePropertyType != 1 {
		t.Errorf("same_property_type = %v, expected 1", comp.SamePropertyType)
	}
	if comp.GLADiff == nil || *comp.GLADiff != -7 {
		t.Errorf("gla_diff = %v, expected -7", comp.GLADiff)
	}
	if comp.DistanceKM == nil || *comp.DistanceKM != 0.85 {
		t.Errorf("distance km = %v, expected 0.85", comp.DistanceKM)
	}

	pool := rows[1]
	if pool.CandidateAddress != "22 Cedar Avenue" || pool.IsComp != 0 {
		t.Errorf("pool row = %+v", pool)
	}
	if pool.SoldRecently == nil || *pool.SoldRecently != 0 {
		t.Errorf("pool sold_recently = %v, expected 0", pool.SoldRecently)
	}
	if pool.SamePropertyType == nil || *pool.SamePropertyType != 0 {
		t.Errorf("pool same_property_type = %v, expected 0", pool.SamePropertyType)
	}

	// no feedback log: reconciled output equals the training output
	reconciled, err := dataset.ReadTrainingCSV(cfg.ReconciledCSV)
	if err != nil {
		t.Fatalf("reading reconciled csv failed: %v", err)
	}
	if len(reconciled) != 2 {
		t.Errorf("reconciled rows = %d, expected pass-through", len(reconciled))
	}

	// cleaned document survives a reload with canonical numbers in place
	ds, err := appraisal.LoadDataset(cfg.CleanedPath)
	if err != nil {
		t.Fatalf("reloading cleaned document failed: %v", err)
	}
	if got := ds.Appraisals[0].Comps[0].GLA.Raw(); got != "1507" {
		t.Errorf("cleaned comp gla = %q, expected 1507", got)
	}
	if got := ds.Appraisals[0].Subject.LotSizeSF.Raw(); got != "21780" {
		t.Errorf("cleaned subject lot = %q, expected 21780", got)
	}
}

func TestPipelineReconcileWithFeedback(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, false)

	if _, err := p.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	err := dataset.AppendFeedback(cfg.FeedbackCSV, dataset.FeedbackRecord{
		OrderID:          "ORD-1",
		CandidateAddress: "10 birch st",
		UserFeedback:     0,
	})
	if err != nil {
		t.Fatalf("append feedback failed: %v", err)
	}

	stats, err := p.Reconcile()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if stats.Matched != 1 || stats.Flipped != 1 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	rows, err := dataset.ReadTrainingCSV(cfg.ReconciledCSV)
	if err != nil {
		t.Fatalf("reading reconciled csv failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("reconciled rows = %d", len(rows))
	}
	if rows[0].CandidateAddress != "10 Birch Street" || rows[0].IsComp != 0 {
		t.Errorf("corrected row = %+v, expected label flipped to 0", rows[0])
	}
}

func TestPipelineGeocodeStatus(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, false)

	if _, err := p.Clean(); err != nil {
		t.Fatalf("clean failed: %v", err)
	}

	cache := `{"500 oak dr": {"lat": 43.6, "lon": -79.4}, "10 birch st": null, "22 cedar ave": {"lat": 43.7, "lon": -79.3}}`
	if err := os.WriteFile(cfg.GeocodeCache, []byte(cache), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	missing, err := p.GeocodeStatus()
	if err != nil {
		t.Fatalf("geocode status failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, expected full coverage", missing)
	}
}
