package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"eegitpc/domain/eeg"
	"eegitpc/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig     `validate:"required"`
	Analysis AnalysisConfig `validate:"required"`
	LogLevel string         `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// PathConfig holds file system paths
type PathConfig struct {
	Input  string `validate:"required"`
	Sheet  string
	Output string `validate:"required"`
}

// AnalysisConfig holds the experiment layout and run tuning
type AnalysisConfig struct {
	NumFrequencies int `validate:"gte=1"`
	NumElectrodes  int `validate:"gte=1"`
	Workers        int `validate:"gte=1"`
	// ZeroPhaseForReals keeps phase 0 for negative bare-real cells
	ZeroPhaseForReals bool
	Conditions        *eeg.ConditionSet `validate:"required"`
	Frequencies       eeg.FrequencyAxis `validate:"required"`
}

// Defaults for the deployment this tool was written for
const (
	DefaultNumFrequencies = 57
	DefaultNumElectrodes  = 32
	DefaultOutputPath     = "itpc_results.csv"
)

var validate = validator.New()

// Default returns a configuration with deployment defaults and no input
func Default() *Config {
	return &Config{
		Paths: PathConfig{Output: DefaultOutputPath},
		Analysis: AnalysisConfig{
			NumFrequencies: DefaultNumFrequencies,
			NumElectrodes:  DefaultNumElectrodes,
			Workers:        runtime.NumCPU(),
			Conditions:     eeg.DefaultConditions(),
			Frequencies:    eeg.DefaultFrequencies(DefaultNumFrequencies),
		},
		LogLevel: "INFO",
	}
}

// Load reads configuration from environment variables over the defaults.
// Validation is left to Validate so CLI flags can fill gaps first.
func Load() (*Config, error) {
	config := Default()

	config.Paths.Input = getEnvOrDefault("ITPC_INPUT", "")
	config.Paths.Sheet = getEnvOrDefault("ITPC_SHEET", "")
	config.Paths.Output = getEnvOrDefault("ITPC_OUTPUT", DefaultOutputPath)
	config.LogLevel = strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))

	var err error
	if config.Analysis.NumFrequencies, err = getEnvIntOrDefault("ITPC_NUM_FREQUENCIES", DefaultNumFrequencies); err != nil {
		return nil, err
	}
	if config.Analysis.NumElectrodes, err = getEnvIntOrDefault("ITPC_NUM_ELECTRODES", DefaultNumElectrodes); err != nil {
		return nil, err
	}
	if config.Analysis.Workers, err = getEnvIntOrDefault("ITPC_WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if config.Analysis.ZeroPhaseForReals, err = getEnvBoolOrDefault("ITPC_ZERO_PHASE_REALS", false); err != nil {
		return nil, err
	}

	if spec := os.Getenv("ITPC_CONDITIONS"); spec != "" {
		conditions, err := eeg.ParseConditions(spec)
		if err != nil {
			return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to load condition ranges")
		}
		config.Analysis.Conditions = conditions
	}

	if list := os.Getenv("ITPC_FREQUENCIES"); list != "" {
		axis, err := eeg.ParseFrequencies(list)
		if err != nil {
			return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to load frequency axis")
		}
		config.Analysis.Frequencies = axis
	} else {
		config.Analysis.Frequencies = eeg.DefaultFrequencies(config.Analysis.NumFrequencies)
	}

	return config, nil
}

// Validate checks struct constraints and cross-field consistency
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "configuration validation failed")
	}
	if err := c.Analysis.Frequencies.Validate(); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "configuration validation failed")
	}
	if len(c.Analysis.Frequencies) != c.Analysis.NumFrequencies {
		return errors.ConfigInvalid(fmt.Sprintf("frequency axis has %d values but %d frequencies are analysed",
			len(c.Analysis.Frequencies), c.Analysis.NumFrequencies))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault fails on a set but unparseable value
func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not an integer", key, value))
	}
	return intValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a boolean", key, value))
	}
	return boolValue, nil
}
