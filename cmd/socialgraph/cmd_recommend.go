package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/models"
)

func newRecommendCmd(flags *globalFlags) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "recommend <user>",
		Short: "Recommend new friends for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				recs, err := a.engine.RecommendTopK(ctx, args[0], k)
				if err != nil {
					return fmt.Errorf("recommend: %w", err)
				}
				if recs == nil {
					recs = []models.ScoredRecommendation{}
				}
				return output(cmd.OutOrStdout(), flags.format, recommendationList{Username: args[0], Recommendations: recs})
			})
		},
	}
	cmd.Flags().IntVar(&k, "k", 5, "Number of recommendations")
	return cmd
}

func newSuggestCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <user>",
		Short: "List friends-of-friends by mutual count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				cands, err := a.engine.SuggestSecondDegree(ctx, args[0], limit)
				if err != nil {
					return fmt.Errorf("suggest: %w", err)
				}
				if cands == nil {
					cands = []models.Candidate{}
				}
				return output(cmd.OutOrStdout(), flags.format, suggestionList{Username: args[0], Suggestions: cands})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max candidates")
	return cmd
}

func newMutualsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mutuals <user> <user>",
		Short: "List mutual friends of two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				mutuals, err := a.engine.ListMutualFriends(ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("mutuals: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, mutualsView{models.MutualFriendsResult{
					UserA:   args[0],
					UserB:   args[1],
					Mutuals: mutuals,
					Count:   len(mutuals),
				}})
			})
		},
	}
}
