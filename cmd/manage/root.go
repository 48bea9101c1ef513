package main

import (
	"context"
	"fmt"
	"os"

	"go-jewelry-store/internal/config"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/service"
	"go-jewelry-store/pkg/database"
	"go-jewelry-store/pkg/jwt"
	"go-jewelry-store/pkg/logging"
	"go-jewelry-store/pkg/password"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Operator tasks for the jewelry store backend",
	Long: `manage runs one-off maintenance against the store database.

Connection settings come from the same environment (or .env file) as the API server.

Examples:
  manage migrate
  manage seed-admin --email owner@example.com --name "Store Owner" --password 'S3cure!pw'
  manage reset-password --email owner@example.com --password 'N3w!secret'
  manage sync-sequences`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: configuration and an open database.
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectDB(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db}, nil
}

func (e *env) close() {
	database.Close(e.db)
}

func (e *env) authService() (service.AuthService, error) {
	hasher := password.NewArgon2Hasher(password.Params{
		Memory:      e.cfg.Argon2.MemoryKiB,
		Iterations:  e.cfg.Argon2.Iterations,
		Parallelism: e.cfg.Argon2.Parallelism,
	})
	tokens, err := jwt.NewManager(e.cfg.JWT.Secret, e.cfg.JWT.TTL, e.cfg.JWT.Issuer)
	if err != nil {
		return nil, err
	}
	return service.NewAuthService(repository.NewAdminRepo(e.db), hasher, tokens)
}

// withEnv adapts a task into a cobra RunE that opens and closes the database.
func withEnv(task func(ctx context.Context, cmd *cobra.Command, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return task(cmd.Context(), cmd, e)
	}
}
