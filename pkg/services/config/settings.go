package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/loan-atlas/pkg/adapters"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "LOANATLAS"

func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loanatlas.cfg"
	}
	return filepath.Join(home, ".loanatlas.cfg")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", "8080")
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("query_timeout", 60*time.Second)
	v.SetDefault("query_limit", 0)
	v.SetDefault("currency", "BRL")
	v.SetDefault("default_granularity", string(domain.GranularityMonth))
	v.SetDefault("log_level", "info")
	v.SetDefault("profiles_path", defaultProfilesPath())
}

// LoadSettings merges defaults, the optional settings file and LOANATLAS_*
// environment variables, in increasing priority.
func LoadSettings(path string) (domain.Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.Settings{}, &ConfigError{Source: path, Err: fmt.Errorf("failed to read settings: %w", err)}
		}
	}

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		return domain.Settings{}, &ConfigError{Source: "settings", Err: fmt.Errorf("failed to parse settings: %w", err)}
	}

	if err := validateSettings(s); err != nil {
		return domain.Settings{}, &ConfigError{Source: "settings", Err: err}
	}
	return s, nil
}

func validateSettings(s domain.Settings) error {
	if !adapters.ValidCurrency(s.Currency) {
		return fmt.Errorf("unknown currency %q", s.Currency)
	}
	if _, err := domain.ParseGranularity(s.DefaultGranularity); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	if s.QueryLimit < 0 {
		return fmt.Errorf("query_limit must not be negative")
	}
	return nil
}
