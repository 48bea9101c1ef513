package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create a super_admin unless the email is already taken",
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env) error {
		auth, err := e.authService()
		if err != nil {
			return err
		}

		admin, created, err := auth.SeedSuperAdmin(ctx, adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s already exists, nothing to do\n", admin.Email)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Super admin %s created\n", admin.Email)
		return nil
	}),
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an admin",
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env) error {
		auth, err := e.authService()
		if err != nil {
			return err
		}

		if err := auth.ResetPassword(ctx, adminEmail, adminPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", adminEmail)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(resetPasswordCmd)

	seedAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	seedAdminCmd.Flags().StringVar(&adminName, "name", "Store Owner", "Display name")
	seedAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Initial password (required)")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")

	resetPasswordCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	resetPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "New password (required)")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}
