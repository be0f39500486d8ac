package cli

import (
	"fmt"

	"github.com/me/rota/internal/roster"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var jobsPath string

	cmd := &cobra.Command{
		Use:   "import <roster-file>",
		Short: "Replace the stored roster with a roster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rs, err := roster.File{Path: args[0], JobsPath: jobsPath}.Load(ctx)
			if err != nil {
				return err
			}
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceRoster(ctx, rs); err != nil {
				return fmt.Errorf("import roster: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d workers and %d jobs\n", len(rs.Workers), len(rs.Jobs))
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "Job list file, paired with a bare worker list")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored roster as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rs, err := st.LoadRoster(ctx)
			if err != nil {
				return fmt.Errorf("load roster: %w", err)
			}
			if file != "" {
				return roster.Save(file, rs)
			}
			if format != roster.FormatJSON && format != roster.FormatYAML {
				return fmt.Errorf("--output must be %s or %s", roster.FormatJSON, roster.FormatYAML)
			}
			return roster.Write(cmd.OutOrStdout(), rs, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", roster.FormatJSON, "Output format (json, yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to a file instead; format from its extension")
	return cmd
}
