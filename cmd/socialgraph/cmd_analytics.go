package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/analytics"
	"github.com/persistorai/socialgraph/internal/models"
)

func newRankCmd(flags *globalFlags) *cobra.Command {
	var (
		method string
		opts   analytics.RankOptions
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank users by influence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.TopN == 0 {
				opts.TopN = analytics.AllNodes
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				res, err := a.analytics.Rank(ctx, method, opts)
				if err != nil {
					return fmt.Errorf("rank: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, rankingView{res})
			})
		},
	}
	cmd.Flags().StringVar(&method, "method", models.RankMethodPageRank, "Ranking method: pagerank|degree")
	cmd.Flags().IntVar(&opts.TopN, "top", analytics.DefaultTopN, "Number of users to return (0 for all)")
	cmd.Flags().Float64Var(&opts.Damping, "damping", 0, "Damping factor (default 0.85)")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iter", 0, "Iteration bound (default 100)")
	cmd.Flags().Float64Var(&opts.Tolerance, "tol", 0, "Convergence tolerance (default 1e-6)")
	return cmd
}

func newCommunitiesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "communities",
		Short: "Partition users into communities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				res, err := a.analytics.Communities(ctx)
				if err != nil {
					return fmt.Errorf("communities: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, partitionView{res})
			})
		},
	}
}
