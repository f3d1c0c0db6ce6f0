package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/sqlitestore"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	var (
		from   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy users and friendships from a SQLite file into the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				return fmt.Errorf("--from-sqlite is required")
			}
			if flags.sqlitePath != "" && filepath.Clean(flags.sqlitePath) == filepath.Clean(from) {
				return fmt.Errorf("import source and destination are the same file")
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				src, err := sqlitestore.Open(ctx, from, a.log)
				if err != nil {
					return fmt.Errorf("opening import source: %w", err)
				}
				defer src.Close()

				report, err := a.admin.Import(ctx, src, dryRun)
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, report)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from-sqlite", "", "SQLite file to read")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read and count without writing")
	return cmd
}
