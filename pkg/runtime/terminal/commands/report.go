package commands

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	page     string
	flags    PageFlags
	asJSON   bool
	currency func() string
	services ServiceProvider
	reporter *export.Reporter
}

var pageDescriptions = map[string]string{
	"overview": "Portfolio overview: KPIs, status distribution and amount breakdowns",
	"risk":     "Risk analysis: default rate trend and cohort default heatmap",
	"payments": "Payment behavior: loans and amount share by payment status",
	"cohorts":  "Cohort analysis: remaining balance or paid rate per origination cohort",
}

func NewReportCmd(page string, services ServiceProvider, currency func() string, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{page: page, services: services, currency: currency, reporter: reporter}
	cmd := &cobra.Command{
		Use:   page,
		Short: pageDescriptions[page],
		RunE:  rc.run,
	}

	rc.flags.Register(cmd)
	cmd.Flags().BoolVar(&rc.asJSON, "json", false, "Print the page payload as JSON")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	req, err := rc.flags.Request()
	if err != nil {
		return err
	}

	svc, err := rc.services(cmd.Context())
	if err != nil {
		return err
	}

	page, err := LoadPage(cmd.Context(), svc, rc.page, req, rc.currency())
	if err != nil {
		return fmt.Errorf("failed to load %s page: %w", rc.page, err)
	}

	if rc.asJSON {
		return writeJSON(cmd, page)
	}
	return rc.reporter.Handle(page)
}

func writeJSON(cmd *cobra.Command, page api.Page) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
