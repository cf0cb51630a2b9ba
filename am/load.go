package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/cleaner/errors"
)

// EnvPrefix prefixes every environment override (CLEANER_SCORING_BASE_URL, ...)
const EnvPrefix = "CLEANER"

var globalConfig *Config
var viperInstance *viper.Viper

// configSources records which file last set each key during loading
var configSources = map[string]SourceInfo{}

// Load reads the cleaner configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the defaults
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	configSources = map[string]SourceInfo{}
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	// Precedence (lowest to highest): system < user < project < env vars
	mergeConfigFiles(v, configPaths())

	viperInstance = v
	return v
}

// findProjectConfig walks up from the working directory looking for am.toml
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		amPath := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(amPath); err == nil {
			return amPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

type configPath struct {
	path   string
	source ConfigSource
}

func configPaths() []configPath {
	paths := []configPath{{"/etc/cleaner/am.toml", SourceSystem}}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, configPath{filepath.Join(home, ".cleaner", "am.toml"), SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, configPath{project, SourceProject})
	}
	return paths
}

// mergeConfigFiles merges each existing file into v in order, later files winning
func mergeConfigFiles(v *viper.Viper, paths []configPath) {
	for _, p := range paths {
		if _, err := os.Stat(p.path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(p.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		settings := fileViper.AllSettings()
		// MergeConfigMap keeps file values below environment overrides.
		if err := v.MergeConfigMap(settings); err != nil {
			continue
		}
		markSettingsFromSource(settings, "", p.source, p.path, configSources)
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}
