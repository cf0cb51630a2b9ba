// Package am ("as configured") loads cleaner configuration from defaults,
// TOML files and CLEANER_* environment variables.
package am

// Config represents the cleaner configuration
type Config struct {
	Scoring ScoringConfig `mapstructure:"scoring" toml:"scoring" json:"scoring" yaml:"scoring"`
	Session SessionConfig `mapstructure:"session" toml:"session" json:"session" yaml:"session"`
	Dataset DatasetConfig `mapstructure:"dataset" toml:"dataset" json:"dataset" yaml:"dataset"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// ScoringConfig configures the external scoring service client
type ScoringConfig struct {
	BaseURL           string  `mapstructure:"base_url" toml:"base_url" json:"base_url" yaml:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"` // 0 = unlimited
	Burst             int     `mapstructure:"burst" toml:"burst" json:"burst" yaml:"burst"`
	AllowPrivate      bool    `mapstructure:"allow_private" toml:"allow_private" json:"allow_private" yaml:"allow_private"` // service usually runs on localhost
}

// SessionConfig bounds the mistake probabilities a session assigns to facts
type SessionConfig struct {
	DefaultMaxProb float64 `mapstructure:"default_max_prob" toml:"default_max_prob" json:"default_max_prob" yaml:"default_max_prob"`
	ProbStep       float64 `mapstructure:"prob_step" toml:"prob_step" json:"prob_step" yaml:"prob_step"`
	MinMaxProb     float64 `mapstructure:"min_max_prob" toml:"min_max_prob" json:"min_max_prob" yaml:"min_max_prob"`
	MaxMaxProb     float64 `mapstructure:"max_max_prob" toml:"max_max_prob" json:"max_max_prob" yaml:"max_max_prob"`
}

// DatasetConfig points at the default dataset for `cleaner run`
type DatasetConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"` // .yaml, .json, .toml, .db or .sqlite
}

// LogConfig configures logging output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Level string `mapstructure:"level" toml:"level" json:"level" yaml:"level"` // empty = derive from -v
}

// Defaults mirrored by SetDefaults
const (
	DefaultScoringURL        = "http://localhost:5000"
	DefaultTimeoutSeconds    = 30
	DefaultRequestsPerSecond = 5.0
	DefaultMaxProb           = 0.25
	DefaultProbStep          = 0.01
	DefaultMinMaxProb        = 0.01
	DefaultMaxMaxProb        = 0.49
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
