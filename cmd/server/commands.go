package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
	postgres.MigrateReset,
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [" + strings.Join(migrateCommands, "|") + "]",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: migrateCommands,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		return postgres.Migrate(cmd.Context(), db, args[0], log)
	},
}

var (
	userName  string
	userEmail string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user and print its ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		user, err := domain.NewUser(userName, userEmail)
		if err != nil {
			return err
		}

		cfg, log, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		app, err := newApplication(cfg, log, db)
		if err != nil {
			return err
		}
		if err := app.userStore.Create(cmd.Context(), user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for an existing user",
	Long: `Issue an access token for an existing user.

The token is signed with auth.jwt_secret and expires after
auth.token_lifetime_minutes. Intended for development and scripting.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user %q: %w", tokenUserID, err)
		}

		cfg, log, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		app, err := newApplication(cfg, log, db)
		if err != nil {
			return err
		}
		if _, err := app.userStore.GetByID(cmd.Context(), userID); err != nil {
			return fmt.Errorf("failed to look up user %s: %w", userID, err)
		}

		token, err := app.jwtService.GenerateToken(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)

	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "User ID the token is issued for")
	_ = tokenCmd.MarkFlagRequired("user")
}
