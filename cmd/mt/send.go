package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

var (
	sendTo      string
	sendSubject string
	sendBody    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Compose and send an email",
	Long: `Send an email to another user. The backend classifies it on arrival.

Use --body - to read the body from stdin.

Examples:
  mt send --to bob@example.com --subject "Quarterly report" --body "Attached."
  echo "Hi Bob" | mt send --to bob@example.com --subject Hello --body -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		if sendTo == "" || sendSubject == "" {
			return fmt.Errorf("--to and --subject are required")
		}

		body := sendBody
		if body == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			body = string(data)
		}
		if strings.TrimSpace(body) == "" {
			return fmt.Errorf("--body is required")
		}

		email, err := emails.SendEmail(cmd.Context(), user.ID, types.SendEmailRequest{
			RecipientEmail: sendTo,
			Subject:        sendSubject,
			Body:           body,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), email)
		}
		if !quietFlag {
			display.SuccessMsg("Sent %s to %s %s", display.Dim.Render(email.ID), sendTo, display.CategoryDot(email.Category))
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Recipient email (required)")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "Subject (required)")
	sendCmd.Flags().StringVar(&sendBody, "body", "", "Body text, or - for stdin (required)")
	rootCmd.AddCommand(sendCmd)
}
