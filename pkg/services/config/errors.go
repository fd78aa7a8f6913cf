package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrProfileNotFound = errors.New("profile not found")

// ConfigError reports a configuration source that is unreadable or lacks
// required fields.
type ConfigError struct {
	Source  string
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config %s: missing required fields: %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
