package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewProfilesCmd(services ServiceProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured warehouse profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := services(cmd.Context())
			if err != nil {
				return err
			}

			profiles, err := svc.ListProfiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDRIVER")
			for _, p := range profiles {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Driver)
			}
			return w.Flush()
		},
	}
}
