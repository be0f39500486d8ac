package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/me/rota/pkg/model"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		offset int
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved rounds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := model.ListOptions{Limit: limit, Offset: offset}
			opts.Clamp()
			rounds, total, err := st.ListRounds(ctx, opts)
			if err != nil {
				return fmt.Errorf("list rounds: %w", err)
			}

			if len(rounds) == 0 {
				fmt.Fprintln(out, "No rounds found.")
				return nil
			}

			fmt.Fprintf(out, "%-40s  %-8s  %-5s  %-5s  %s\n", "ID", "ATTEMPTS", "QUOTA", "IDLE", "CREATED")
			fmt.Fprintf(out, "%-40s  %-8s  %-5s  %-5s  %s\n", "--", "--------", "-----", "----", "-------")
			for _, rec := range rounds {
				fmt.Fprintf(out, "%-40s  %-8d  %-5d  %-5d  %s\n",
					rec.ID, rec.Attempts, rec.Quota, len(rec.Idle), rec.CreatedAt.Local().Format(time.DateTime))
				if full {
					for _, a := range rec.Assignments {
						fmt.Fprintf(out, "    %s\n", a)
					}
					if len(rec.Idle) > 0 {
						fmt.Fprintf(out, "    idle: %s\n", strings.Join(rec.Idle, ", "))
					}
				}
			}

			if opts.Page(total).HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(rounds), total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rounds to list (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip the newest N rounds")
	cmd.Flags().BoolVar(&full, "full", false, "Print each round's assignments")
	return cmd
}
