package main

import (
	"fmt"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"dashboard"},
	Short:   "Show inbox statistics",
	Long: `Show counts by category, unread count and the share of processed emails.

Stats are computed from the latest 1000 inbox emails on every run. If the
inbox cannot be fetched, all counters show zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		stats := emails.GetDashboardStats(cmd.Context(), user.ID)

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), stats)
		}

		display.Header("Mailtriage Statistics")
		fmt.Println()
		fmt.Printf("  Emails        %5d\n", stats.TotalEmails)
		fmt.Printf("  Unread        %5d\n", stats.UnreadCount)
		fmt.Printf("  %s Productive   %5d\n", display.CategoryDot(types.CategoryProductive), stats.ProductiveEmails)
		fmt.Printf("  %s Unproductive %5d\n", display.CategoryDot(types.CategoryUnproductive), stats.UnproductiveEmails)
		fmt.Println()
		fmt.Printf("  Processed     %5.1f%%\n", stats.ProcessingAccuracy)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
