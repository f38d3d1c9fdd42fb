// Package config loads the mepflow YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/validation"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Default output file names
const (
	DefaultFlowOutput       = "MEP_Geo_Saudi_Corrected.csv"
	DefaultPropertiesOutput = "Element_Properties_Matrix.csv"
)

// Config is the complete mepflow configuration
type Config struct {
	Export     ExportConfig     `yaml:"export"`
	Geo        GeoConfig        `yaml:"geo"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Upload     UploadConfig     `yaml:"upload"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ExportConfig configures the CSV exports
type ExportConfig struct {
	// SkipAccessories resolves connectivity through fittings and accessories
	SkipAccessories bool `yaml:"skip_accessories"`
	// Confirm shows the confirmation dialog before exporting
	Confirm bool `yaml:"confirm"`
	// FlowOutput is the flow-aware (and legacy) CSV path
	FlowOutput string `yaml:"flow_output"`
	// PropertiesOutput is the property matrix CSV path
	PropertiesOutput string `yaml:"properties_output"`
}

// GeoConfig configures the coordinate projection
type GeoConfig struct {
	// LengthUnit overrides the snapshot's internal unit when set
	LengthUnit string `yaml:"length_unit"`
	// EarthRadius in meters for the lat/lon approximation
	EarthRadius float64 `yaml:"earth_radius"`
}

// ClassifierConfig replaces the default family keyword table when Rules is
// non-empty. Rules are matched in order.
type ClassifierConfig struct {
	Rules []RuleConfig `yaml:"rules,omitempty" validate:"dive"`
}

// RuleConfig is one keyword rule
type RuleConfig struct {
	Keyword  string `yaml:"keyword" validate:"required"`
	Category string `yaml:"category" validate:"required"`
}

// UploadConfig configures the optional S3 upload of finished exports
type UploadConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Bucket       string `yaml:"bucket" validate:"required_if=Enabled true"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`

	// Static credentials; the default AWS chain applies when empty
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" validate:"required_with=AccessKeyID"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is json or text
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile
type MetricsConfig struct {
	// TextfilePath is written after each command when non-empty
	TextfilePath string `yaml:"textfile_path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			SkipAccessories:  false,
			Confirm:          false,
			FlowOutput:       DefaultFlowOutput,
			PropertiesOutput: DefaultPropertiesOutput,
		},
		Geo: GeoConfig{
			LengthUnit:  "", // From snapshot
			EarthRadius: geo.DefaultEarthRadius,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cv := validation.NewConfigValidator("config").
		Required("export.flow_output", c.Export.FlowOutput).
		Required("export.properties_output", c.Export.PropertiesOutput).
		PositiveFloat("geo.earth_radius", c.Geo.EarthRadius).
		OneOf("log.level", validation.DefaultOr(strings.ToLower(c.Log.Level), "info"), []string{"debug", "info", "warn", "warning", "error"}).
		OneOf("log.format", validation.DefaultOr(strings.ToLower(c.Log.Format), "json"), []string{"json", "text"}).
		When(c.Geo.LengthUnit != "", func(cv *validation.ConfigValidator) {
			cv.OneOf("geo.length_unit", strings.ToLower(c.Geo.LengthUnit), geo.UnitNames())
		})

	for i, r := range c.Classifier.Rules {
		cv.Custom(fmt.Sprintf("classifier.rules[%d]", i), func() error {
			if _, ok := classify.ParseCategory(r.Category); !ok {
				return fmt.Errorf("unknown category %q", r.Category)
			}
			return nil
		})
	}

	if err := cv.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ClassifierRules converts the configured rules. It returns nil when the
// default table should be used.
func (c *Config) ClassifierRules() []classify.Rule {
	if len(c.Classifier.Rules) == 0 {
		return nil
	}
	rules := make([]classify.Rule, 0, len(c.Classifier.Rules))
	for _, r := range c.Classifier.Rules {
		cat, ok := classify.ParseCategory(r.Category)
		if !ok {
			continue
		}
		rules = append(rules, classify.Rule{Keyword: r.Keyword, Category: cat})
	}
	return rules
}

// LogLevel returns the configured level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// LogFormat returns the configured encoding; unknown names fall back to JSON
func (c *Config) LogFormat() logging.Format {
	f, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return logging.FormatJSON
	}
	return f
}

// ApplyEnv overrides file values from the environment. LOG_LEVEL and
// LOG_FORMAT win over the log section.
func (c *Config) ApplyEnv() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
}

// Load reads and validates a configuration file. An empty path returns the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
