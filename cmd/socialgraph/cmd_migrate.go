package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/db"
	"github.com/persistorai/socialgraph/internal/db/migrations"
	"github.com/persistorai/socialgraph/internal/dbpool"
)

type migrationList []db.MigrationState

func (l migrationList) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		state := "pending"
		if m.Applied {
			state = "applied"
		}
		rows = append(rows, []string{strconv.FormatInt(m.Version, 10), m.File, state})
	}
	return []string{"VERSION", "FILE", "STATE"}, rows
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		Long:  "Apply pending PostgreSQL schema migrations. SQLite databases create their schema on open.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.databaseURL == "" {
				return fmt.Errorf("migrate needs DATABASE_URL or --database-url")
			}

			ctx := cmd.Context()
			log := newLogger(flags.logLevel, false)

			pool, err := dbpool.NewPool(ctx, flags.databaseURL, dbpool.Options{})
			if err != nil {
				return err
			}
			defer pool.Close()

			if !status {
				if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
					return err
				}
			}

			states, err := db.MigrationStatus(ctx, pool, migrations.FS)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.format, migrationList(states))
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Only report migration state")
	return cmd
}
