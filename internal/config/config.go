// Package config holds the frozen engine configuration. A Config is built
// once at process start, validated, and passed by value into every component
// constructor; nothing mutates it afterwards.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tradewind-lab/tradewind/internal/ranker"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration.
type Config struct {
	// Symbols are the trading symbols tracked each cycle.
	Symbols []string `yaml:"symbols" validate:"required,min=1,dive,required"`

	// CyclePeriod is the interval between cycle firings.
	CyclePeriod Duration `yaml:"cycle_period" validate:"gt=0"`

	// ConfidenceThreshold is the minimum confidence a candidate signal needs
	// to reach ranking. Signals exactly at the threshold are retained.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" validate:"gte=0,lte=1"`

	// MaxPositionSize is the largest admissible position as a fraction of
	// capital.
	MaxPositionSize float64 `yaml:"max_position_size" validate:"gt=0,lte=1"`

	// DuplicateWindow is the lookback window of the duplicate-trade rule.
	DuplicateWindow Duration `yaml:"duplicate_window" validate:"gt=0"`

	// TopSignals caps the ranking output per cycle.
	TopSignals int `yaml:"top_signals" validate:"gt=0"`

	// Weights are the ranking score weights.
	Weights ranker.Weights `yaml:"weights"`

	// StorePath enables DuckDB trade persistence when non-empty.
	StorePath string `yaml:"store_path"`
}

// DefaultConfig returns the reference configuration. Symbols must still be
// provided before the config validates.
func DefaultConfig() Config {
	return Config{
		CyclePeriod:         Duration(60 * time.Second),
		ConfidenceThreshold: 0.7,
		MaxPositionSize:     0.1,
		DuplicateWindow:     Duration(time.Hour),
		TopSignals:          5,
		Weights:             ranker.DefaultWeights(),
	}
}

// ParseConfig unmarshals YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses the YAML config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return ParseConfig(data)
}

// Validate checks struct tags and the ranking weights.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return c.Weights.Validate()
}
