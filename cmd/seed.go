package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/techagentng/civilink/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo complaints into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		// seeding never touches images, so no media backend is needed
		complaints := services.NewComplaintService(a.store.Complaints, nil, a.conf, a.logger)
		n, err := complaints.Seed(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "store already has complaints, nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d complaints\n", n)
		return nil
	},
}
