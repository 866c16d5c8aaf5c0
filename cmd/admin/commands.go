package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/infinito/platform/internal/models"
	"github.com/spf13/cobra"
)

// AccountService manages admin credentials
type AccountService interface {
	CreateAdmin(ctx context.Context, email, name, password string) (*models.Profile, error)
	SetPassword(ctx context.Context, email, password string) error
}

// Migrator applies or rolls back schema migrations
type Migrator interface {
	Up() error
	Down(steps int) error
}

// backend is what a command needs once connected
type backend struct {
	accounts AccountService
	migrator Migrator
	close    func()
}

type connectFunc func() (*backend, error)

// newRootCommand builds the admin command tree; connect is called lazily by each command
func newRootCommand(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Infinito administration commands",
		SilenceUsage: true,
	}

	withBackend := func(run func(cmd *cobra.Command, b *backend, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, err := connect()
			if err != nil {
				return err
			}
			defer b.close()
			return run(cmd, b, args)
		}
	}

	migrateCommand := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrateUpCommand := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b *backend, args []string) error {
			if err := b.migrator.Up(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		}),
	}

	migrateDownCommand := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := parseSteps(args)
			return err
		},
		RunE: withBackend(func(cmd *cobra.Command, b *backend, args []string) error {
			steps, _ := parseSteps(args)
			if err := b.migrator.Down(steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
			return nil
		}),
	}
	migrateCommand.AddCommand(migrateUpCommand, migrateDownCommand)

	createAdminCommand := &cobra.Command{
		Use:   "createadmin <email> <name> <password>",
		Short: "Create an admin account",
		Args:  cobra.ExactArgs(3),
		RunE: withBackend(func(cmd *cobra.Command, b *backend, args []string) error {
			p, err := b.accounts.CreateAdmin(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin '%s' with id %d\n", p.Email, p.ID)
			return nil
		}),
	}

	setPasswordCommand := &cobra.Command{
		Use:   "setpassword <email> <new password>",
		Short: "Replace a user's password",
		Args:  cobra.ExactArgs(2),
		RunE: withBackend(func(cmd *cobra.Command, b *backend, args []string) error {
			if err := b.accounts.SetPassword(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated password for '%s'\n", args[0])
			return nil
		}),
	}

	root.AddCommand(migrateCommand, createAdminCommand, setPasswordCommand)
	return root
}

// parseSteps reads the optional positive step count of "migrate down"
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}
