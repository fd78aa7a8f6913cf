package terminal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
	dashboard.Service
}

func (m *MockService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	profiles, _ := args.Get(0).([]domain.Profile)
	return profiles, args.Error(1)
}

func testSettings() domain.Settings {
	return domain.Settings{
		Currency:           "USD",
		DefaultGranularity: "month",
		LogLevel:           "debug",
		ProfilesPath:       "/etc/loanatlas.cfg",
	}
}

func TestCLI_ProfilesUsesSettings(t *testing.T) {
	svc := new(MockService)
	svc.On("ListProfiles", mock.Anything).Return([]domain.Profile{{Name: "prod", Driver: domain.DriverPostgres}}, nil)

	var gotSettings domain.Settings
	var settingsPath string
	calls := 0
	var out bytes.Buffer

	cli := NewCLI(Options{
		Services: func(ctx context.Context, s domain.Settings) (dashboard.Service, error) {
			calls++
			gotSettings = s
			return svc, nil
		},
		LoadSettings: func(path string) (domain.Settings, error) {
			settingsPath = path
			return testSettings(), nil
		},
		Output:    &out,
		LogOutput: &bytes.Buffer{},
	})
	cli.SetArgs([]string{"profiles", "--settings", "atlas.yaml", "--config", "/tmp/profiles.cfg"})

	require.NoError(t, cli.Execute())
	assert.Equal(t, "atlas.yaml", settingsPath)
	assert.Equal(t, "/tmp/profiles.cfg", gotSettings.ProfilesPath)
	assert.Equal(t, "USD", gotSettings.Currency)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out.String(), "prod")
	assert.Contains(t, out.String(), "postgres")
}

func TestCLI_Errors(t *testing.T) {
	t.Run("settings fail to load", func(t *testing.T) {
		cli := NewCLI(Options{
			LoadSettings: func(string) (domain.Settings, error) {
				return domain.Settings{}, errors.New("bad settings")
			},
			Output:    &bytes.Buffer{},
			LogOutput: &bytes.Buffer{},
		})
		cli.rootCmd.SetErr(&bytes.Buffer{})
		cli.SetArgs([]string{"profiles"})

		assert.ErrorContains(t, cli.Execute(), "bad settings")
	})

	t.Run("service is not configured", func(t *testing.T) {
		cli := NewCLI(Options{
			LoadSettings: func(string) (domain.Settings, error) { return testSettings(), nil },
			Output:       &bytes.Buffer{},
			LogOutput:    &bytes.Buffer{},
		})
		cli.rootCmd.SetErr(&bytes.Buffer{})
		cli.SetArgs([]string{"overview", "--profile", "prod"})

		assert.ErrorContains(t, cli.Execute(), "not configured")
	})

	t.Run("service factory fails", func(t *testing.T) {
		cli := NewCLI(Options{
			Services: func(context.Context, domain.Settings) (dashboard.Service, error) {
				return nil, errors.New("profiles file missing")
			},
			LoadSettings: func(string) (domain.Settings, error) { return testSettings(), nil },
			Output:       &bytes.Buffer{},
			LogOutput:    &bytes.Buffer{},
		})
		cli.rootCmd.SetErr(&bytes.Buffer{})
		cli.SetArgs([]string{"risk", "--profile", "prod"})

		assert.ErrorContains(t, cli.Execute(), "profiles file missing")
	})
}

func TestCLI_Commands(t *testing.T) {
	cli := NewCLI(Options{})

	var names []string
	for _, c := range cli.rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"overview", "risk", "payments", "cohorts", "export", "profiles"} {
		assert.Contains(t, names, want)
	}
}
