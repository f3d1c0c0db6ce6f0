package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/service"
)

func newSeedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo graph (existing users and friendships are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				res, err := a.admin.Seed(ctx, service.DemoGraph)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, res)
			})
		},
	}
}

func newClearCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every user and friendship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the graph without --yes")
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if err := a.admin.ClearGraph(ctx); err != nil {
					return fmt.Errorf("clear: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting the whole graph")
	return cmd
}
