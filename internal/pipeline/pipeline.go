package pipeline

import (
	"fmt"
	"log"
	"sync"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/config"
	"github.com/appraisal-comps/internal/dataset"
	"github.com/appraisal-comps/internal/debug"
	"github.com/appraisal-comps/internal/features"
	"github.com/appraisal-comps/internal/geocode"
	"github.com/appraisal-comps/internal/normalize"
	"github.com/appraisal-comps/internal/proptype"
)

// Config holds the file paths and tunables for a pipeline run.
type Config struct {
	InputPath      string
	CleanedPath    string
	EngineeredPath string
	TrainingCSV    string
	ReconciledCSV  string
	FeedbackCSV    string
	GeocodeCache   string

	Workers        int
	FuzzyThreshold int
	RecentSaleDays int
}

// FromEnv builds a config from environment variables with the standard
// defaults.
func FromEnv() Config {
	return Config{
		InputPath:      config.GetEnv("PIPELINE_INPUT", "data/appraisals_dataset.json"),
		CleanedPath:    config.GetEnv("PIPELINE_CLEANED", "data/cleaned/cleaned_appraisals_dataset.json"),
		EngineeredPath: config.GetEnv("PIPELINE_ENGINEERED", "data/engineered/feature_engineered_appraisals_dataset.json"),
		TrainingCSV:    config.GetEnv("PIPELINE_TRAINING_CSV", "data/training/training_data.csv"),
		ReconciledCSV:  config.GetEnv("PIPELINE_RECONCILED_CSV", "data/training/training_data_with_feedback.csv"),
		FeedbackCSV:    config.GetEnv("PIPELINE_FEEDBACK_CSV", "feedback/feedback_log.csv"),
		GeocodeCache:   config.GetEnv("GEOCODE_CACHE", "data/geocoded-data/geocoded_addresses.json"),
		Workers:        config.GetEnvInt("PIPELINE_WORKERS", 4),
		FuzzyThreshold: config.GetEnvInt("FUZZY_THRESHOLD", 80),
		RecentSaleDays: config.GetEnvInt("RECENT_SALE_DAYS", 90),
	}
}

// Pipeline sequences the processing stages. Each stage reads its input file
// and writes its output file, so stages can be rerun independently.
type Pipeline struct {
	cfg        Config
	localDebug bool
}

func New(cfg Config, localDebug bool) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{cfg: cfg, localDebug: localDebug}
}

// CleanReport summarizes one normalization run.
type CleanReport struct {
	Appraisals int
	Failed     int
	Errors     []error
	Conditions *normalize.Conditions
}

// Clean normalizes every appraisal in the input document, in parallel, and
// writes the cleaned document. An appraisal that fails structurally is
// reported and left as-is; the batch continues.
func (p *Pipeline) Clean() (*CleanReport, error) {
	defer debug.Timing(p.localDebug, "clean stage")()

	ds, err := appraisal.LoadDataset(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}

	report := p.normalizeAll(ds)

	if err := appraisal.SaveDataset(p.cfg.CleanedPath, ds); err != nil {
		return nil, err
	}
	return report, nil
}

type cleanResult struct {
	err   error
	conds *normalize.Conditions
}

func (p *Pipeline) normalizeAll(ds *appraisal.Dataset) *CleanReport {
	normalizer := normalize.NewNormalizer()

	workChan := make(chan *appraisal.Appraisal, len(ds.Appraisals))
	resultChan := make(chan cleanResult, len(ds.Appraisals))

	for _, a := range ds.Appraisals {
		workChan <- a
	}
	close(workChan)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range workChan {
				conds := normalize.NewConditions()
				err := normalizer.NormalizeAppraisal(p.localDebug, a, conds)
				if err != nil {
					err = fmt.Errorf("appraisal %s: %w", a.ID(), err)
				}
				resultChan <- cleanResult{err: err, conds: conds}
			}
		}()
	}
	wg.Wait()
	close(resultChan)

	report := &CleanReport{
		Appraisals: len(ds.Appraisals),
		Conditions: normalize.NewConditions(),
	}
	for res := range resultChan {
		report.Conditions.Merge(res.conds)
		if res.err != nil {
			report.Failed++
			report.Errors = append(report.Errors, res.err)
			log.Printf("Warning: %v", res.err)
		}
	}
	return report
}

// EngineerFeatures runs the feature pass over the cleaned document and
// writes the engineered document.
func (p *Pipeline) EngineerFeatures() (int, error) {
	defer debug.Timing(p.localDebug, "features stage")()

	ds, err := appraisal.LoadDataset(p.cfg.CleanedPath)
	if err != nil {
		return 0, err
	}

	engineer := features.NewEngineer(
		proptype.NewCanonicalizer(p.cfg.FuzzyThreshold), p.cfg.RecentSaleDays)

	workChan := make(chan *appraisal.Appraisal, len(ds.Appraisals))
	for _, a := range ds.Appraisals {
		workChan <- a
	}
	close(workChan)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range workChan {
				engineer.EngineerAppraisal(p.localDebug, a)
			}
		}()
	}
	wg.Wait()

	if err := appraisal.SaveDataset(p.cfg.EngineeredPath, ds); err != nil {
		return 0, err
	}
	return len(ds.Appraisals), nil
}

// DatasetReport summarizes one assembly run.
type DatasetReport struct {
	Appraisals int
	Rows       int
	Positives  int
}

// BuildDataset flattens the engineered document into the training CSV.
func (p *Pipeline) BuildDataset() (*DatasetReport, error) {
	defer debug.Timing(p.localDebug, "dataset stage")()

	ds, err := appraisal.LoadDataset(p.cfg.EngineeredPath)
	if err != nil {
		return nil, err
	}

	rows := dataset.NewAssembler().Assemble(p.localDebug, ds)
	if err := dataset.WriteTrainingCSV(p.cfg.TrainingCSV, rows); err != nil {
		return nil, err
	}

	report := &DatasetReport{Appraisals: len(ds.Appraisals), Rows: len(rows)}
	for i := range rows {
		if rows[i].IsComp == 1 {
			report.Positives++
		}
	}
	return report, nil
}

// Reconcile folds the feedback log into the training CSV and writes the
// reconciled CSV. With no feedback the output is a copy of the input, so
// downstream consumers always read the same path.
func (p *Pipeline) Reconcile() (*dataset.ReconcileStats, error) {
	defer debug.Timing(p.localDebug, "reconcile stage")()

	rows, err := dataset.ReadTrainingCSV(p.cfg.TrainingCSV)
	if err != nil {
		return nil, err
	}
	feedback, err := dataset.ReadFeedbackLog(p.cfg.FeedbackCSV)
	if err != nil {
		return nil, err
	}

	reconciled, stats := dataset.Reconcile(rows, feedback)
	if err := dataset.WriteTrainingCSV(p.cfg.ReconciledCSV, reconciled); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GeocodeStatus reports which normalized addresses in the cleaned document
// still need geocoding.
func (p *Pipeline) GeocodeStatus() ([]string, error) {
	ds, err := appraisal.LoadDataset(p.cfg.CleanedPath)
	if err != nil {
		return nil, err
	}
	cache, err := geocode.LoadCache(p.cfg.GeocodeCache)
	if err != nil {
		return nil, err
	}
	return cache.Missing(ds), nil
}

// RunReport aggregates the stage reports for a full run.
type RunReport struct {
	Clean          *CleanReport
	Engineered     int
	Dataset        *DatasetReport
	Reconcile      *dataset.ReconcileStats
	GeocodeMissing int
}

// Run executes the full pipeline: clean, geocode gate check, features,
// dataset, reconcile.
func (p *Pipeline) Run() (*RunReport, error) {
	report := &RunReport{}

	clean, err := p.Clean()
	if err != nil {
		return nil, err
	}
	report.Clean = clean

	missing, err := p.GeocodeStatus()
	if err != nil {
		return nil, err
	}
	report.GeocodeMissing = len(missing)
	if len(missing) > 0 {
		log.Printf("%d addresses need geocoding before distances are usable", len(missing))
	}

	engineered, err := p.EngineerFeatures()
	if err != nil {
		return nil, err
	}
	report.Engineered = engineered

	ds, err := p.BuildDataset()
	if err != nil {
		return nil, err
	}
	report.Dataset = ds

	stats, err := p.Reconcile()
	if err != nil {
		return nil, err
	}
	report.Reconcile = stats

	return report, nil
}

// PrintSummary writes the run report in the standard summary format.
func (r *RunReport) PrintSummary() {
	fmt.Printf("\n=== PIPELINE SUMMARY ===\n")
	if r.Clean != nil {
		fmt.Printf("Appraisals processed: %d\n", r.Clean.Appraisals)
		fmt.Printf("Appraisals failed: %d\n", r.Clean.Failed)
		fmt.Printf("Distinct subject conditions: %d\n", len(r.Clean.Conditions.Subject))
		fmt.Printf("Distinct comp conditions: %d\n", len(r.Clean.Conditions.Comp))
	}
	fmt.Printf("Addresses awaiting geocoding: %d\n", r.GeocodeMissing)
	if r.Dataset != nil {
		fmt.Printf("Training rows: %d (%d positive, %d negative)\n",
			r.Dataset.Rows, r.Dataset.Positives, r.Dataset.Rows-r.Dataset.Positives)
	}
	if r.Reconcile != nil {
		fmt.Printf("Feedback matches: %d (%d flipped, %d confirmed, %d dropped)\n",
			r.Reconcile.Matched, r.Reconcile.Flipped, r.Reconcile.Confirmed, r.Reconcile.Dropped)
	}
}
