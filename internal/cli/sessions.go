package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored sessions",
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		deleted, err := services.SessionStore.Cleanup(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to prune sessions: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired session(s)\n", deleted)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsPruneCmd)
	rootCmd.AddCommand(sessionsCmd)
}
