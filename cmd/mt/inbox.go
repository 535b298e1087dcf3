package main

import (
	"fmt"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

var (
	inboxLimit   int
	inboxUnread  bool
	sentLimit    int
	convLimit    int
	emailsCat    string
	emailsStatus string
	emailsLimit  int
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List received emails with their classification",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		inbox, err := emails.GetInbox(cmd.Context(), user.ID, inboxLimit, !inboxUnread)
		if err != nil {
			return fmt.Errorf("fetch inbox: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), inbox)
		}
		if len(inbox.Emails) == 0 {
			fmt.Println("Inbox empty.")
			return nil
		}

		fmt.Printf("Inbox (%d total, %d unread):\n\n", inbox.Total, inbox.UnreadCount)
		printEmailList(inbox.Emails, true)
		return nil
	},
}

var sentCmd = &cobra.Command{
	Use:   "sent",
	Short: "List emails you sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		list, err := emails.GetSentEmails(cmd.Context(), user.ID, sentLimit)
		if err != nil {
			return fmt.Errorf("fetch sent: %w", err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Println("Nothing sent yet.")
			return nil
		}
		fmt.Printf("Sent (%d):\n\n", len(list))
		printEmailList(list, false)
		return nil
	},
}

var conversationCmd = &cobra.Command{
	Use:   "conversation USER_ID",
	Short: "Show the thread between you and another user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		list, err := emails.GetConversation(cmd.Context(), user.ID, args[0], convLimit)
		if err != nil {
			return fmt.Errorf("fetch conversation: %w", err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Println("No messages between you.")
			return nil
		}
		fmt.Printf("Conversation (%d messages):\n\n", len(list))
		printEmailList(list, true)
		return nil
	},
}

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "List all emails, filtered by category or status",
	Long: `List all emails known to the backend.

Examples:
  mt emails --category produtivo
  mt emails --status failed --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := emails.GetAllEmails(cmd.Context(), types.EmailFilter{
			Category: emailsCat,
			Status:   emailsStatus,
			Limit:    emailsLimit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Println("No emails match.")
			return nil
		}
		fmt.Printf("Emails (%d):\n\n", len(list))
		printEmailList(list, true)
		return nil
	},
}

// printEmailList prints one line per email. fromSide picks the sender
// column; otherwise the recipient is shown.
func printEmailList(list []*types.Email, fromSide bool) {
	for _, e := range list {
		who := e.Recipient
		if fromSide {
			who = e.Sender
		}
		fmt.Printf("  %s %s %s  %s  %-24s %s  %s\n",
			display.UnreadMark(e.IsRead),
			display.CategoryDot(e.Category),
			display.Dim.Render(display.Truncate(e.ID, 20)),
			display.CategoryLabel(e.Category),
			display.Truncate(who, 24),
			display.Truncate(e.Subject, 40),
			display.Dim.Render(display.TimeAgo(e.CreatedAt)),
		)
	}
}

func init() {
	inboxCmd.Flags().IntVarP(&inboxLimit, "limit", "n", 50, "Max results")
	inboxCmd.Flags().BoolVar(&inboxUnread, "unread", false, "Only unread emails")
	sentCmd.Flags().IntVarP(&sentLimit, "limit", "n", 50, "Max results")
	conversationCmd.Flags().IntVarP(&convLimit, "limit", "n", 50, "Max results")
	emailsCmd.Flags().StringVar(&emailsCat, "category", "", "Filter by category: produtivo, improdutivo")
	emailsCmd.Flags().StringVar(&emailsStatus, "status", "", "Filter by status: pending, processed, failed")
	emailsCmd.Flags().IntVarP(&emailsLimit, "limit", "n", 50, "Max results")

	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(sentCmd)
	rootCmd.AddCommand(conversationCmd)
	rootCmd.AddCommand(emailsCmd)
}
