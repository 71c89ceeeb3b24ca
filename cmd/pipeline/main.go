package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/appraisal-comps/internal/config"
	"github.com/appraisal-comps/internal/dataset"
	"github.com/appraisal-comps/internal/db"
	"github.com/appraisal-comps/internal/geocode"
	"github.com/appraisal-comps/internal/pipeline"
	"github.com/appraisal-comps/internal/store"
)

var localDebug bool

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Appraisal comparable training pipeline",
		Long:  `Cleans appraisal documents, engineers comparison features, assembles the training dataset and reconciles human feedback`,
	}
	rootCmd.PersistentFlags().BoolVar(&localDebug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(createCleanCmd())
	rootCmd.AddCommand(createFeaturesCmd())
	rootCmd.AddCommand(createDatasetCmd())
	rootCmd.AddCommand(createReconcileCmd())
	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createGeocodeStatusCmd())
	rootCmd.AddCommand(createDBCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.FromEnv(), localDebug)
}

func createCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Normalize raw appraisal fields in place",
		Run: func(cmd *cobra.Command, args []string) {
			report, err := newPipeline().Clean()
			if err != nil {
				log.Fatalf("Clean failed: %v", err)
			}

			fmt.Printf("\n=== CLEAN SUMMARY ===\n")
			fmt.Printf("Appraisals processed: %d\n", report.Appraisals)
			fmt.Printf("Appraisals failed: %d\n", report.Failed)
			fmt.Printf("Distinct subject conditions: %d\n", len(report.Conditions.Subject))
			fmt.Printf("Distinct comp conditions: %d\n", len(report.Conditions.Comp))
		},
	}
}

func createFeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Engineer subject-vs-candidate comparison features",
		Run: func(cmd *cobra.Command, args []string) {
			count, err := newPipeline().EngineerFeatures()
			if err != nil {
				log.Fatalf("Feature engineering failed: %v", err)
			}
			fmt.Printf("Engineered features for %d appraisals\n", count)
		},
	}
}

func createDatasetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dataset",
		Short: "Assemble the labeled training dataset",
		Run: func(cmd *cobra.Command, args []string) {
			report, err := newPipeline().BuildDataset()
			if err != nil {
				log.Fatalf("Dataset assembly failed: %v", err)
			}

			fmt.Printf("\n=== DATASET SUMMARY ===\n")
			fmt.Printf("Appraisals: %d\n", report.Appraisals)
			fmt.Printf("Training rows: %d\n", report.Rows)
			fmt.Printf("Positive labels: %d\n", report.Positives)
			fmt.Printf("Negative labels: %d\n", report.Rows-report.Positives)
		},
	}
}

func createReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Fold human feedback into the training dataset",
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := newPipeline().Reconcile()
			if err != nil {
				log.Fatalf("Reconcile failed: %v", err)
			}

			fmt.Printf("\n=== RECONCILE SUMMARY ===\n")
			fmt.Printf("Rows in: %d\n", stats.Total)
			fmt.Printf("Feedback matches: %d\n", stats.Matched)
			fmt.Printf("Labels flipped: %d\n", stats.Flipped)
			fmt.Printf("Labels confirmed: %d\n", stats.Confirmed)
			fmt.Printf("Rows dropped: %d\n", stats.Dropped)
		},
	}
}

func createRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline end to end",
		Run: func(cmd *cobra.Command, args []string) {
			report, err := newPipeline().Run()
			if err != nil {
				log.Fatalf("Pipeline failed: %v", err)
			}
			report.PrintSummary()
		},
	}
}

func createGeocodeStatusCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "geocode-status",
		Short: "Report addresses still awaiting geocoding",
		Run: func(cmd *cobra.Command, args []string) {
			missing, err := newPipeline().GeocodeStatus()
			if err != nil {
				log.Fatalf("Geocode status failed: %v", err)
			}

			if len(missing) == 0 {
				fmt.Println("All addresses geocoded")
				return
			}
			fmt.Printf("%d addresses need geocoding:\n", len(missing))
			for _, addr := range missing {
				fmt.Printf("  %s\n", addr)
			}
			if outputPath != "" {
				if err := geocode.WriteMissing(outputPath, missing); err != nil {
					log.Fatalf("Failed to write missing addresses: %v", err)
				}
				fmt.Printf("Missing address list written to %s\n", outputPath)
			}
		},
	}
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the missing address list to a JSON file")
	return cmd
}

func createDBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Stage pipeline outputs into Postgres for the review server",
	}
	dbCmd.AddCommand(createDBInitCmd())
	dbCmd.AddCommand(createDBLoadTrainingCmd())
	dbCmd.AddCommand(createDBLoadFeedbackCmd())
	return dbCmd
}

func connectStore() *store.Store {
	conn, err := db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return store.NewStore(conn)
}

func createDBInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			if err := connectStore().EnsureSchema(); err != nil {
				log.Fatalf("Schema creation failed: %v", err)
			}
			fmt.Println("Schema ready")
		},
	}
}

func createDBLoadTrainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-training",
		Short: "Load the training CSV into the training_row table",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := pipeline.FromEnv()
			rows, err := dataset.ReadTrainingCSV(cfg.TrainingCSV)
			if err != nil {
				log.Fatalf("Failed to read training CSV: %v", err)
			}

			s := connectStore()
			if err := s.EnsureSchema(); err != nil {
				log.Fatalf("Schema creation failed: %v", err)
			}
			if err := s.LoadTrainingRows(rows); err != nil {
				log.Fatalf("Load failed: %v", err)
			}
			fmt.Printf("Loaded %d training rows\n", len(rows))
		},
	}
}

func createDBLoadFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-feedback",
		Short: "Load the feedback log into the feedback_log table",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := pipeline.FromEnv()
			recs, err := dataset.ReadFeedbackLog(cfg.FeedbackCSV)
			if err != nil {
				log.Fatalf("Failed to read feedback log: %v", err)
			}

			s := connectStore()
			if err := s.EnsureSchema(); err != nil {
				log.Fatalf("Schema creation failed: %v", err)
			}
			for _, rec := range recs {
				if err := s.InsertFeedback(rec); err != nil {
					log.Fatalf("Load failed: %v", err)
				}
			}
			fmt.Printf("Loaded %d feedback records\n", len(recs))
		},
	}
}
