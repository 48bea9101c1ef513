package main

import (
	"context"
	"fmt"

	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and reconcile code counters",
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env) error {
		if err := database.Migrate(ctx, e.db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
		return nil
	}),
}

var syncSequencesCmd = &cobra.Command{
	Use:   "sync-sequences",
	Short: "Raise each code counter to the highest code already stored",
	Long: `Counters are only ever raised. Run this after importing products or orders
with codes assigned outside the API.`,
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env) error {
		repo := repository.NewSequenceRepo(e.db)
		if err := repo.Reconcile(ctx); err != nil {
			return err
		}

		sequences, err := repo.FindAll(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range sequences {
			fmt.Fprintf(out, "%-16s %d (next %s)\n", s.Family, s.CurrentSequence, s.Family.Format(s.CurrentSequence+1))
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncSequencesCmd)
}
