package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"session-auth/internal/database"
	"session-auth/internal/model"
	"session-auth/internal/repository"
	"session-auth/internal/security"
	"session-auth/internal/service"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	databaseURL string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Operator utility for the session-auth user store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (defaults to $DATABASE_URL)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newRoleCommand(opts, "promote", "Grant the admin role to an existing user", model.RoleAdmin))
	cmd.AddCommand(newRoleCommand(opts, "demote", "Revoke the admin role from a user", model.RoleUser))
	cmd.AddCommand(newCreateAdminCommand(opts))
	return cmd
}

func (o *rootOptions) open(cmd *cobra.Command) (context.Context, *database.DB, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.databaseURL == "" {
		return nil, nil, errors.New("database url is required (--database-url or DATABASE_URL)")
	}

	db, err := database.New(ctx, o.databaseURL, 2, 0)
	if err != nil {
		return nil, nil, err
	}
	return ctx, db, nil
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newRoleCommand(opts *rootOptions, use string, short string, role model.Role) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			users := repository.NewUserRepository(db.Pool)
			if err := users.UpdateRole(ctx, args[0], role); err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					return fmt.Errorf("user %q does not exist", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		},
	}
}

func newCreateAdminCommand(opts *rootOptions) *cobra.Command {
	var (
		username string
		password string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account if the username is free",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			users := repository.NewUserRepository(db.Pool)
			auth := service.NewAuthService(users, nil, security.NewHasher(cost), nil, nil)
			created, err := auth.EnsureAdmin(ctx, username, password)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", username)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().IntVar(&cost, "bcrypt-cost", 12, "bcrypt work factor")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
