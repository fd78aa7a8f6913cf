package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
)

var knownDrivers = map[domain.Driver]bool{
	domain.DriverBigQuery:   true,
	domain.DriverSnowflake:  true,
	domain.DriverDatabricks: true,
	domain.DriverPostgres:   true,
	domain.DriverMySQL:      true,
	domain.DriverDuckDB:     true,
}

// Registry reads warehouse profiles from an ini file, one section per profile:
//
//	[credix]
//	driver       = bigquery
//	project_id   = credix-analytics
//	dataset      = gold
//	secrets_file = secrets.toml
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.Profile, error)
	// GetProfile also loads the profile's secrets file, if any.
	GetProfile(ctx context.Context, name string) (domain.Profile, error)
}

type cfgRegistry struct {
	cfg  *ini.File
	path string
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return &cfgRegistry{cfg: cfg, path: path}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		p, err := cr.parseProfile(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(ctx context.Context, name string) (domain.Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	p, err := cr.parseProfile(section)
	if err != nil {
		return domain.Profile{}, err
	}

	secrets := section.Key("secrets_file").String()
	if secrets == "" {
		return p, nil
	}
	if !filepath.IsAbs(secrets) {
		secrets = filepath.Join(filepath.Dir(cr.path), secrets)
	}

	sa, err := LoadServiceAccount(secrets)
	if err != nil {
		return domain.Profile{}, err
	}
	p.ServiceAccount = sa

	zerolog.Ctx(ctx).Debug().
		Str("profile", name).
		Str("client_email", sa.ClientEmail).
		Msg("loaded service account")

	return p, nil
}

func (cr *cfgRegistry) parseProfile(section *ini.Section) (domain.Profile, error) {
	key := func(name string) string {
		return section.Key(name).String()
	}

	p := domain.Profile{
		Name:           section.Name(),
		Driver:         domain.Driver(key("driver")),
		DSN:            key("dsn"),
		Host:           key("host"),
		Token:          key("token"),
		HTTPPath:       key("http_path"),
		Account:        key("account"),
		User:           key("user"),
		Password:       key("password"),
		Database:       key("database"),
		Warehouse:      key("warehouse"),
		Role:           key("role"),
		ProjectID:      key("project_id"),
		Dataset:        key("dataset"),
		LoansTable:     key("loans_table"),
		BorrowersTable: key("borrowers_table"),
	}

	source := fmt.Sprintf("%s [%s]", cr.path, p.Name)
	if p.Driver == "" {
		return domain.Profile{}, &ConfigError{Source: source, Missing: []string{"driver"}}
	}
	if !knownDrivers[p.Driver] {
		return domain.Profile{}, &ConfigError{Source: source, Err: fmt.Errorf("unsupported driver %q", p.Driver)}
	}
	return p, nil
}
