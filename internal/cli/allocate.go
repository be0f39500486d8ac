package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/me/rota/internal/allocator"
	"github.com/me/rota/internal/store"
	"github.com/spf13/cobra"
)

func newAllocateCmd() *cobra.Command {
	var (
		rf     rosterFlags
		af     allocFlags
		rounds int
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Run complete allocation rounds",
		Long: "Run the retry loop for each round until no worker is idle, then print the job mapping.\n" +
			"Rounds share one allocator, so consecutive rounds avoid repeating recent choices.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if rounds < 1 {
				return fmt.Errorf("--rounds must be >= 1")
			}
			ac, err := af.allocationConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := rf.load(ctx)
			if err != nil {
				return err
			}
			if !rs.Coverable() {
				logger.Warn("jobs offer fewer slots than there are workers",
					"workers", len(rs.Workers), "slots", rs.Slots(), "max_attempts", ac.MaxAttempts)
			}

			var st *store.SQLiteStore
			if save {
				if st, err = openStore(ctx); err != nil {
					return err
				}
				defer st.Close()
			}

			acfg := ac.AllocatorConfig()
			acfg.Observer = progressPrinter{w: out}
			a := allocator.New(rs.Workers, rs.Jobs, acfg, logger)

			for i := 1; i <= rounds; i++ {
				r, err := a.Complete(ctx)
				if err != nil {
					return fmt.Errorf("round %d: %w", i, err)
				}
				fmt.Fprintf(out, "Round %d (attempts: %d, quota: %d, average jobs: %.2f)\n",
					i, r.Attempt, r.Quota, allocator.AverageJobs(a.Workers()))
				printAssignments(out, r)
				fmt.Fprintln(out)

				if st != nil {
					rec := r.Record("rnd_"+uuid.New().String(), time.Now().UTC())
					if err := st.SaveRound(ctx, rec); err != nil {
						return fmt.Errorf("save round %d: %w", i, err)
					}
					logger.Info("round saved", "id", rec.ID)
				}
			}
			return nil
		},
	}

	rf.register(cmd)
	af.register(cmd)
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 5, "Number of rounds to allocate")
	cmd.Flags().BoolVar(&save, "save", false, "Record each round in the database")
	return cmd
}
