package domain

import (
	"fmt"
	"time"
)

type Driver string

const (
	DriverBigQuery   Driver = "bigquery"
	DriverSnowflake  Driver = "snowflake"
	DriverDatabricks Driver = "databricks"
	DriverPostgres   Driver = "postgres"
	DriverMySQL      Driver = "mysql"
	DriverDuckDB     Driver = "duckdb"
)

// Profile is a named warehouse connection.
type Profile struct {
	Name   string
	Driver Driver

	DSN       string
	Host      string
	Token     string
	HTTPPath  string
	Account   string
	User      string
	Password  string
	Database  string
	Warehouse string
	Role      string
	ProjectID string
	Dataset   string

	LoansTable     string
	BorrowersTable string

	ServiceAccount *ServiceAccount
}

func (p Profile) String() string {
	return fmt.Sprintf("%s:%s", p.Driver, p.Name)
}

// ServiceAccount mirrors the fields of a Google service account key file.
type ServiceAccount struct {
	Type                    string `json:"type" mapstructure:"type"`
	ProjectID               string `json:"project_id" mapstructure:"project_id"`
	PrivateKeyID            string `json:"private_key_id" mapstructure:"private_key_id"`
	PrivateKey              string `json:"private_key" mapstructure:"private_key"`
	ClientEmail             string `json:"client_email" mapstructure:"client_email"`
	ClientID                string `json:"client_id,omitempty" mapstructure:"client_id"`
	AuthURI                 string `json:"auth_uri,omitempty" mapstructure:"auth_uri"`
	TokenURI                string `json:"token_uri" mapstructure:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url,omitempty" mapstructure:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url,omitempty" mapstructure:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain,omitempty" mapstructure:"universe_domain"`
}

// Settings are process-wide options shared by the web server and the CLI.
type Settings struct {
	Host               string        `mapstructure:"host"`
	Port               string        `mapstructure:"port"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
	QueryLimit         int           `mapstructure:"query_limit"`
	Currency           string        `mapstructure:"currency"`
	DefaultGranularity string        `mapstructure:"default_granularity"`
	LogLevel           string        `mapstructure:"log_level"`
	ProfilesPath       string        `mapstructure:"profiles_path"`
}
