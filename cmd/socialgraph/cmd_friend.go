package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/models"
)

func newFriendCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friend",
		Short: "Manage friendships",
	}
	cmd.AddCommand(friendAddCmd(flags))
	cmd.AddCommand(friendRemoveCmd(flags))
	cmd.AddCommand(friendListCmd(flags))
	return cmd
}

func friendAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <user> <user>",
		Short: "Make two users friends",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				f, err := a.friendships.CreateFriendship(ctx, models.CreateFriendshipRequest{UserA: args[0], UserB: args[1]})
				if err != nil {
					return fmt.Errorf("add friendship: %w", err)
				}
				return output(cmd.OutOrStdout(), flags.format, f)
			})
		},
	}
}

func friendRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user> <user>",
		Short: "Remove a friendship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if err := a.friendships.DeleteFriendship(ctx, args[0], args[1]); err != nil {
					return fmt.Errorf("remove friendship: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}

func friendListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <user>",
		Short: "List a user's friends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				friends, err := a.friendships.ListFriends(ctx, args[0])
				if err != nil {
					return fmt.Errorf("list friends: %w", err)
				}
				if friends == nil {
					friends = []string{}
				}
				return output(cmd.OutOrStdout(), flags.format, friendList{Username: args[0], Friends: friends})
			})
		},
	}
}
