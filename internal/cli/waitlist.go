package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var waitlistCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Inspect the waitlist",
}

var waitlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List waitlist entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		entries, err := services.WaitlistService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list waitlist entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No waitlist entries found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tREFERRAL\tCREATED AT")
		for _, entry := range entries {
			referral := "-"
			if entry.ReferralSource != nil {
				referral = *entry.ReferralSource
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				entry.ID,
				entry.Email,
				referral,
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

func init() {
	waitlistCmd.AddCommand(waitlistListCmd)
	rootCmd.AddCommand(waitlistCmd)
}
