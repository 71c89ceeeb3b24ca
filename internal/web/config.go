package web

import "github.com/appraisal-comps/internal/config"

// Config represents the review server configuration
type Config struct {
	Server   ServerConfig
	Paths    PathConfig
	Features FeatureConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string
	Port int
}

// PathConfig points at the pipeline output files the server reads and
// writes.
type PathConfig struct {
	FeedbackCSV string
	ScoredCSV   string
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	// UseDatabase serves rows from Postgres instead of the scored CSV.
	UseDatabase bool
}

// ConfigFromEnv builds the server configuration from environment variables.
func ConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host: config.GetEnv("WEB_HOST", "0.0.0.0"),
			Port: config.GetEnvInt("WEB_PORT", 8080),
		},
		Paths: PathConfig{
			FeedbackCSV: config.GetEnv("PIPELINE_FEEDBACK_CSV", "feedback/feedback_log.csv"),
			ScoredCSV:   config.GetEnv("WEB_SCORED_CSV", ""),
		},
		Features: FeatureConfig{
			UseDatabase: config.GetEnvBool("WEB_USE_DB", true),
		},
	}
}
