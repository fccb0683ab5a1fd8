// Package config loads skilldo configuration from viper, with named
// profiles that overlay the base configuration (e.g. a "ci" profile with
// a different corpus layout).
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the full skilldo configuration
type Config struct {
	CorpusDirs []string `mapstructure:"corpus_dirs"`
	Include    []string `mapstructure:"include"`
	DBPath     string   `mapstructure:"db_path"`
	LogLevel   string   `mapstructure:"log_level"`
	LogFormat  string   `mapstructure:"log_format"`

	Tracing  TracingConfig      `mapstructure:"tracing"`
	Profiles map[string]Profile `mapstructure:"profiles"`
}

// TracingConfig controls OpenTelemetry tracing
type TracingConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Sampler string  `mapstructure:"sampler"`
	Ratio   float64 `mapstructure:"ratio"`
}

// Profile overrides a subset of the base configuration
type Profile struct {
	CorpusDirs []string `mapstructure:"corpus_dirs"`
	Include    []string `mapstructure:"include"`
	DBPath     string   `mapstructure:"db_path"`
	LogLevel   string   `mapstructure:"log_level"`
	LogFormat  string   `mapstructure:"log_format"`
}

// GetConfigFromViper loads the configuration and applies the active profile
func GetConfigFromViper() (Config, error) {
	var config Config

	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	// The default profile is the base configuration itself
	if config.Profiles != nil {
		delete(config.Profiles, "default")
	}

	profileName := getActiveProfile()
	if profileName != "" {
		profile, exists := config.Profiles[profileName]
		if !exists {
			return config, errors.Errorf("profile %q not found", profileName)
		}
		if err := applyProfile(&config, profile); err != nil {
			return config, err
		}
	}

	return config, nil
}

func getActiveProfile() string {
	profile := viper.GetString("profile")
	if profile == "default" {
		return ""
	}
	return profile
}

// applyProfile merges profile values on top of the base configuration,
// leaving fields the profile does not set untouched. Decoding a Profile
// struct directly would overwrite base fields with zero values, so only
// the fields the profile actually sets are fed to the decoder.
func applyProfile(config *Config, profile Profile) error {
	overrides := make(map[string]interface{})
	if len(profile.CorpusDirs) > 0 {
		overrides["corpus_dirs"] = profile.CorpusDirs
	}
	if len(profile.Include) > 0 {
		overrides["include"] = profile.Include
	}
	if profile.DBPath != "" {
		overrides["db_path"] = profile.DBPath
	}
	if profile.LogLevel != "" {
		overrides["log_level"] = profile.LogLevel
	}
	if profile.LogFormat != "" {
		overrides["log_format"] = profile.LogFormat
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(overrides); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}
