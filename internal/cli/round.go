package cli

import (
	"fmt"

	"github.com/me/rota/internal/allocator"
	"github.com/spf13/cobra"
)

func newRoundCmd() *cobra.Command {
	var (
		rf      rosterFlags
		af      allocFlags
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "round",
		Short: "Run a single allocation round without retrying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ac, err := af.allocationConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := rf.load(ctx)
			if err != nil {
				return err
			}

			a := allocator.New(rs.Workers, rs.Jobs, ac.AllocatorConfig(), logger)
			r, err := a.Round()
			if err != nil {
				return err
			}

			if verbose {
				for _, s := range r.Suggestions {
					fmt.Fprintln(out, s)
				}
			}
			printAssignments(out, r)
			printIdle(out, r)
			return nil
		},
	}

	rf.register(cmd)
	af.register(cmd)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each job's candidate tiers")
	return cmd
}
