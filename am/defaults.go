package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Scoring service defaults
	v.SetDefault("scoring.base_url", DefaultScoringURL)
	v.SetDefault("scoring.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("scoring.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("scoring.burst", 1)
	v.SetDefault("scoring.allow_private", true)

	// Session probability bounds
	v.SetDefault("session.default_max_prob", DefaultMaxProb)
	v.SetDefault("session.prob_step", DefaultProbStep)
	v.SetDefault("session.min_max_prob", DefaultMinMaxProb)
	v.SetDefault("session.max_max_prob", DefaultMaxMaxProb)

	v.SetDefault("dataset.path", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "")
}

// BindEnvVars binds keys whose environment names are not derivable from the key alone
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("scoring.base_url", "CLEANER_SCORING_URL", "CLEANER_SCORING_BASE_URL")
	v.BindEnv("dataset.path", "CLEANER_DATASET", "CLEANER_DATASET_PATH")
}

// Timeout returns the request timeout as a duration
func (c ScoringConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultSessionConfig returns the built-in probability bounds
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DefaultMaxProb: DefaultMaxProb,
		ProbStep:       DefaultProbStep,
		MinMaxProb:     DefaultMinMaxProb,
		MaxMaxProb:     DefaultMaxMaxProb,
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Scoring: %s, Session: {DefaultMaxProb: %.2f}, Dataset: %q}",
		c.Scoring.BaseURL, c.Session.DefaultMaxProb, c.Dataset.Path)
}
