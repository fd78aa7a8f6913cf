package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/runtime/terminal"
	"github.com/de-tools/loan-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse/drivers"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Services: newService,
		NewS3:    newS3Client,
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newService(_ context.Context, settings domain.Settings) (dashboard.Service, error) {
	profiles, err := config.NewRegistry(settings.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile registry: %w", err)
	}

	warehouses, err := drivers.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse registry: %w", err)
	}

	return dashboard.NewService(dashboard.Options{
		Profiles:           profiles,
		Warehouses:         warehouses,
		QueryTimeout:       settings.QueryTimeout,
		QueryLimit:         settings.QueryLimit,
		DefaultGranularity: domain.Granularity(settings.DefaultGranularity),
	}), nil
}

func newS3Client(ctx context.Context) (export.PutObjectAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}
