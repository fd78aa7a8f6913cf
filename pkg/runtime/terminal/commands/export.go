package commands

import (
	"fmt"

	"github.com/de-tools/loan-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	page     string
	out      string
	flags    PageFlags
	currency func() string
	services ServiceProvider
	writer   *export.Writer
}

func NewExportCmd(services ServiceProvider, currency func() string, writer *export.Writer) *cobra.Command {
	ec := &ExportCmd{services: services, currency: currency, writer: writer}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a page payload as JSON to a file or s3://bucket/key",
		RunE:  ec.run,
	}

	ec.flags.Register(cmd)
	cmd.Flags().StringVar(&ec.page, "page", "overview", fmt.Sprintf("Page to export, one of %v", Pages))
	cmd.Flags().StringVar(&ec.out, "out", "", "Destination path or s3://bucket/key")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	req, err := ec.flags.Request()
	if err != nil {
		return err
	}

	svc, err := ec.services(cmd.Context())
	if err != nil {
		return err
	}

	page, err := LoadPage(cmd.Context(), svc, ec.page, req, ec.currency())
	if err != nil {
		return fmt.Errorf("failed to load %s page: %w", ec.page, err)
	}

	if err := ec.writer.Write(cmd.Context(), page, ec.out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s page to %s\n", ec.page, ec.out)
	return nil
}
