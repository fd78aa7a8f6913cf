package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/loan-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ServiceFactory builds the dashboard service from the loaded settings.
type ServiceFactory func(ctx context.Context, settings domain.Settings) (dashboard.Service, error)

// CLI represents the command-line interface
type CLI struct {
	opts     Options
	reporter *export.Reporter
	writer   *export.Writer
	rootCmd  *cobra.Command

	settingsPath string
	profilesPath string
	settings     domain.Settings

	once sync.Once
	svc  dashboard.Service
	err  error
}

// Options contain configuration for the CLI
type Options struct {
	Services ServiceFactory
	// NewS3 builds the client used by `export --out s3://...`.
	NewS3 func(ctx context.Context) (export.PutObjectAPI, error)
	// LoadSettings defaults to config.LoadSettings.
	LoadSettings func(path string) (domain.Settings, error)
	Output       io.Writer
	LogOutput    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.LoadSettings == nil {
		opts.LoadSettings = config.LoadSettings
	}

	cli := &CLI{
		opts:     opts,
		reporter: export.NewReporter(opts.Output),
		writer:   export.NewWriter(opts.NewS3),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "loan-atlas",
		Short:             "Loan portfolio analytics",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.SetOut(cli.opts.Output)
	cmd.PersistentFlags().StringVar(&cli.settingsPath, "settings", "", "Path to a settings file (yaml, toml or json)")
	cmd.PersistentFlags().StringVarP(&cli.profilesPath, "config", "c", "", "Path to the warehouse profiles file (default is $HOME/.loanatlas.cfg)")

	currency := func() string { return cli.settings.Currency }

	for _, page := range commands.Pages {
		cmd.AddCommand(commands.NewReportCmd(page, cli.service, currency, cli.reporter))
	}
	cmd.AddCommand(commands.NewExportCmd(cli.service, currency, cli.writer))
	cmd.AddCommand(commands.NewProfilesCmd(cli.service))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := cli.opts.LoadSettings(cli.settingsPath)
	if err != nil {
		return err
	}
	if cli.profilesPath != "" {
		settings.ProfilesPath = cli.profilesPath
	}
	cli.settings = settings

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.opts.LogOutput}).
		Level(level).
		With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}

func (cli *CLI) service(ctx context.Context) (dashboard.Service, error) {
	cli.once.Do(func() {
		if cli.opts.Services == nil {
			cli.err = fmt.Errorf("dashboard service is not configured")
			return
		}
		cli.svc, cli.err = cli.opts.Services(ctx, cli.settings)
	})
	return cli.svc, cli.err
}
