package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/auth"
	authpg "github.com/documind/documind/internal/auth/postgres"
	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/store"
)

// configMissingDatabaseURL builds the shared "no database" CLI error.
func configMissingDatabaseURL() error {
	return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url or DATABASE_URL)")
}

// NewBootstrapCmd creates the bootstrap subcommand. It seeds the first admin
// account and refuses to run against a database that already has users.
func NewBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the initial admin account",
		Long: `Create the first admin account in an empty database. Fails if any
user already exists; later accounts are managed through the API.`,
		RunE: runBootstrap,
	}
	cmd.Flags().String("email", "", "admin email address (required)")
	cmd.Flags().String("password", "", "admin password (required)")
	cmd.Flags().String("name", "", "admin display name (required)")
	return cmd
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return configMissingDatabaseURL()
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	if email == "" || password == "" || name == "" {
		return oops.Code("BOOTSTRAP_INVALID").Errorf("--email, --password, and --name are required")
	}

	ctx := cmd.Context()
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	codec, err := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	service, err := auth.NewService(
		authpg.NewUserRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		codec,
	)
	if err != nil {
		return err
	}

	populated, err := service.HasUsers(ctx)
	if err != nil {
		return err
	}
	if populated {
		return oops.Code("BOOTSTRAP_NOT_EMPTY").Errorf("database already has users; bootstrap only seeds an empty database")
	}

	identity, token, err := service.Signup(ctx, auth.SignupInput{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     string(auth.RoleAdmin),
	})
	if err != nil {
		return err
	}

	// Revoke the signup session; the admin logs in through the API.
	if err := service.Logout(ctx, token); err != nil {
		return err
	}

	cmd.Printf("Admin account created: %s (%s)\n", identity.Email, identity.ID.String())
	return nil
}
