package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/techagentng/civilink/models"
)

var passwordCmd = &cobra.Command{
	Use:   "password-check <password>",
	Short: "Show the signup strength checklist for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strength := models.CheckPassword(args[0])
		out := cmd.OutOrStdout()
		for _, c := range strength.Checks {
			mark := " "
			if c.Met {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %s\n", mark, c.Label)
		}
		fmt.Fprintf(out, "%s (%d%%)\n", strength.Label, strength.Percent)
		if !strength.Satisfied() {
			return fmt.Errorf("password does not meet all requirements")
		}
		return nil
	},
}
