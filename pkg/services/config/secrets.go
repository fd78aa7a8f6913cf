package config

import (
	"fmt"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const serviceAccountSection = "gcp_service_account"

var requiredServiceAccountFields = []string{
	"type",
	"project_id",
	"private_key_id",
	"private_key",
	"client_email",
	"token_uri",
}

// LoadServiceAccount reads the [gcp_service_account] table of a secrets file.
// The format follows the file extension (toml, json, yaml). Only the presence
// of the required fields is checked.
func LoadServiceAccount(path string) (*domain.ServiceAccount, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Source: path, Err: fmt.Errorf("failed to read secrets file: %w", err)}
	}

	sub := v.Sub(serviceAccountSection)
	if sub == nil {
		return nil, &ConfigError{Source: path, Missing: []string{serviceAccountSection}}
	}

	var missing []string
	for _, field := range requiredServiceAccountFields {
		if sub.GetString(field) == "" {
			missing = append(missing, serviceAccountSection+"."+field)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Source: path, Missing: missing}
	}

	var sa domain.ServiceAccount
	if err := sub.Unmarshal(&sa); err != nil {
		return nil, &ConfigError{Source: path, Err: fmt.Errorf("failed to parse service account: %w", err)}
	}
	return &sa, nil
}
