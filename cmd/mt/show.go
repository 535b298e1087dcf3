package main

import (
	"fmt"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

var (
	showNoBody   bool
	showKeepFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show EMAIL_ID",
	Short: "Display an email with its classification and suggested reply",
	Long: `Display an email with its classification and suggested reply.

Showing an unread email you received marks it as read, unless --keep-unread.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := emails.GetEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if user := current.User(); user != nil && !showKeepFlag && !email.IsRead && email.RecipientUserID == user.ID {
			if err := emails.MarkAsRead(cmd.Context(), email.ID, user.ID); err != nil {
				display.ErrorMsg("mark as read: %v", err)
			} else {
				email.IsRead = true
			}
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), email)
		}
		printEmail(email, !showNoBody)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read EMAIL_ID [EMAIL_ID...]",
	Short: "Mark emails as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		failed := 0
		for _, id := range args {
			if err := emails.MarkAsRead(cmd.Context(), id, user.ID); err != nil {
				display.ErrorMsg("mark %s: %v", id, err)
				failed++
				continue
			}
			if !quietFlag {
				display.SuccessMsg("Read: %s", id)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d emails not marked", failed, len(args))
		}
		return nil
	},
}

func printEmail(e *types.Email, withBody bool) {
	fmt.Printf("Subject: %s\n", display.Bold.Render(e.Subject))
	fmt.Printf("From:    %s\n", e.Sender)
	fmt.Printf("To:      %s\n", e.Recipient)
	fmt.Printf("Date:    %s\n", display.TimeAgo(e.CreatedAt))
	fmt.Printf("Triage:  %s %s  %s confidence  %s\n",
		display.CategoryDot(e.Category),
		display.CategoryLabel(e.Category),
		display.Confidence(e.ConfidenceScore),
		display.StatusLabel(e.Status),
	)
	fmt.Println()

	if withBody {
		display.Block("Body", display.SanitizeBody(e.Body), 0)
		fmt.Println()
	}
	if e.SuggestedResponse != "" {
		display.Block("Suggested reply", e.SuggestedResponse, 0)
	} else {
		fmt.Println(display.Dim.Render("  (no suggested reply)"))
	}
}

func init() {
	showCmd.Flags().BoolVar(&showNoBody, "no-body", false, "Hide email body")
	showCmd.Flags().BoolVar(&showKeepFlag, "keep-unread", false, "Do not mark the email as read")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(readCmd)
}
