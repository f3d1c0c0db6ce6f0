package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/models"
)

func newUserCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(userAddCmd(flags))
	cmd.AddCommand(userListCmd(flags))
	cmd.AddCommand(userDeleteCmd(flags))
	return cmd
}

func userAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <username>...",
		Short: "Create one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				created := make([]models.User, 0, len(args))
				for _, name := range args {
					u, err := a.users.CreateUser(ctx, models.CreateUserRequest{Username: name})
					if err != nil {
						return fmt.Errorf("add user %q: %w", name, err)
					}
					created = append(created, *u)
				}
				return output(cmd.OutOrStdout(), flags.format, userList{Users: created})
			})
		},
	}
}

func userListCmd(flags *globalFlags) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				users, hasMore, err := a.users.ListUsers(ctx, limit, offset)
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}
				if users == nil {
					users = []models.User{}
				}
				return output(cmd.OutOrStdout(), flags.format, userList{Users: users, HasMore: hasMore})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func userDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user and their friendships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if err := a.users.DeleteUser(ctx, args[0]); err != nil {
					return fmt.Errorf("delete user: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted")
				return nil
			})
		},
	}
}
