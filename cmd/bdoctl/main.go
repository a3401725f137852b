package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bdotrack/bdo-api/internal/app/api"
	userpostgres "github.com/bdotrack/bdo-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/bdotrack/bdo-api/internal/domains/users/application"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/platform/migrations"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// passwordEnv supplies the password for users create when --password is omitted.
const passwordEnv = "BDO_USER_PASSWORD"

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "bdoctl",
		Short:         "Administrative tasks for the BDO reports API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newMigrateCommand(), newUsersCommand())
	return root
}

// openBackends loads configuration and dials the configured stores, logging to
// the command's error stream.
func openBackends(cmd *cobra.Command) (api.Config, *api.Backends, error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return api.Config{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	return cfg, api.OpenBackends(cmd.Context(), cfg, logger), nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the relational schema to POSTGRES_DSN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, backends, err := openBackends(cmd)
			if err != nil {
				return err
			}
			defer backends.Close()
			if backends.Postgres == nil {
				return errors.New("postgres is not configured or unreachable")
			}
			if err := migrations.Run(backends.Postgres); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newUsersCommand() *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	users.AddCommand(newUsersCreateCommand(), newUsersListCommand(), newUsersDisableCommand())
	return users
}

func newUsersCreateCommand() *cobra.Command {
	var input userports.NewUserInput
	var role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user; the username is derived from the initials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(passwordEnv)
			}
			input.Role = identity.Role(role)
			_, backends, err := openBackends(cmd)
			if err != nil {
				return err
			}
			defer backends.Close()
			service := userapp.NewService(backends.UserRepository(), nil, nil)
			user, err := service.CreateUser(cmd.Context(), identity.System(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %s, zone %s)\n", user.Username, user.FullName(), user.Role, user.Zone)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.FirstName, "first-name", "", "first name")
	flags.StringVar(&input.LastName, "last-name", "", "last name")
	flags.StringVar(&input.Zone, "zone", "", "delivery zone")
	flags.StringVar(&role, "role", string(identity.RoleAdmin), "Admin, Supervisor or Operador")
	flags.StringVar(&input.Password, "password", "", "password (defaults to $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

func newUsersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, backends, err := openBackends(cmd)
			if err != nil {
				return err
			}
			defer backends.Close()
			users, err := backends.UserRepository().List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tROLE\tZONE\tDISABLED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.Username, u.FullName(), u.Role, u.Zone, u.Disabled)
			}
			return w.Flush()
		},
	}
}

func newUsersDisableCommand() *cobra.Command {
	var enable bool
	cmd := &cobra.Command{
		Use:   "disable USERNAME",
		Short: "Disable (or with --enable, re-enable) a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, backends, err := openBackends(cmd)
			if err != nil {
				return err
			}
			defer backends.Close()
			if backends.Postgres == nil {
				return errors.New("postgres is not configured or unreachable")
			}
			username := strings.TrimSpace(args[0])
			if err := userpostgres.NewRepository(backends.Postgres).SetDisabled(cmd.Context(), username, !enable); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s disabled=%t\n", username, !enable)
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "re-enable the user instead")
	return cmd
}
