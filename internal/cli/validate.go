package cli

import (
	"fmt"

	"github.com/me/rota/internal/roster"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var jobsPath string

	cmd := &cobra.Command{
		Use:   "validate <roster-file>",
		Short: "Check a roster file without allocating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			rs, err := roster.File{Path: args[0], JobsPath: jobsPath}.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("invalid roster: %w", err)
			}

			fmt.Fprintf(out, "Roster is valid: %d workers, %d jobs, %d slots\n",
				len(rs.Workers), len(rs.Jobs), rs.Slots())
			if !rs.Coverable() {
				fmt.Fprintf(out, "WARNING: %d workers but only %d slots; some workers will always be idle\n",
					len(rs.Workers), rs.Slots())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "Job list file, paired with a bare worker list")
	return cmd
}
