package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/server"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse/drivers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	profilesPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Loan Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to a settings file (yaml, toml or json)")
	rootCmd.Flags().StringVarP(&profilesPath, "config", "c", "",
		"Path to the warehouse profiles file (default is $HOME/.loanatlas.cfg)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	if profilesPath != "" {
		settings.ProfilesPath = profilesPath
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	profiles, err := config.NewRegistry(settings.ProfilesPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	warehouses, err := drivers.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create warehouse registry: %w", err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", settings.ProfilesPath)
	found, err := profiles.GetProfiles(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list profiles")
	}
	for _, p := range found {
		logger.Info().Msgf("Name: `%s`, Driver: `%s`", p.Name, p.Driver)
	}

	svc := dashboard.NewService(dashboard.Options{
		Profiles:           profiles,
		Warehouses:         warehouses,
		QueryTimeout:       settings.QueryTimeout,
		QueryLimit:         settings.QueryLimit,
		DefaultGranularity: domain.Granularity(settings.DefaultGranularity),
	})

	web := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(settings.Host, settings.Port),
		ShutdownTimeout: settings.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Dashboard: svc,
			Currency:  settings.Currency,
		},
	})

	return web.Start()
}
