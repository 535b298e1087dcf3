package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daviddao/mailtriage/internal/auth"
	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/gmail"
	"github.com/spf13/cobra"
)

var (
	processSubject string
	processFile    string
	processGmail   string
)

var processCmd = &cobra.Command{
	Use:   "process [TEXT]",
	Short: "Classify raw text and get a suggested reply",
	Long: `Submit text to the classifier without storing an email.

The text comes from the argument, --file (- for stdin), or a Gmail message
(--gmail MESSAGE_ID, using the credentials.json configured under [gmail]).

Examples:
  mt process "Can you send the invoice for October?"
  mt process --file message.txt --subject "Invoice"
  mt process --gmail 18c2f0a9d1e2b3c4`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, subject, err := processInput(cmd, args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no text to process — pass TEXT, --file or --gmail")
		}

		result, err := emails.ProcessText(cmd.Context(), text, subject)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Printf("Category:   %s %s\n", display.CategoryDot(result.Category), display.CategoryLabel(result.Category))
		fmt.Printf("Confidence: %s\n", display.Confidence(result.ConfidenceScore))
		fmt.Printf("Took:       %.2fs\n", result.ProcessingTime)
		fmt.Println()
		display.Block("Suggested reply", result.SuggestedResponse, 0)
		return nil
	},
}

func processInput(cmd *cobra.Command, args []string) (text, subject string, err error) {
	subject = processSubject
	switch {
	case processGmail != "":
		if cfg.Gmail.Credentials == "" {
			return "", "", fmt.Errorf("no Gmail credentials configured — set [gmail] credentials or MT_GMAIL_CREDENTIALS")
		}
		svc, err := auth.LoadGmailService(cmd.Context(), cfg.Gmail.Credentials)
		if err != nil {
			return "", "", err
		}
		msg, err := gmail.Read(svc, processGmail)
		if err != nil {
			return "", "", err
		}
		if subject == "" {
			subject = msg.Subject
		}
		return display.SanitizeBody(msg.Text()), subject, nil
	case processFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), subject, nil
	case processFile != "":
		data, err := os.ReadFile(processFile)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", processFile, err)
		}
		return string(data), subject, nil
	case len(args) == 1:
		return args[0], subject, nil
	}
	return "", subject, nil
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess EMAIL_ID",
	Short: "Run classification again on a stored email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := emails.ReprocessEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), email)
		}
		display.SuccessMsg("Reprocessed %s: %s (%s)", email.ID, display.CategoryLabel(email.Category), display.Confidence(email.ConfidenceScore))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete EMAIL_ID [EMAIL_ID...]",
	Short: "Delete stored emails",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, id := range args {
			if err := emails.DeleteEmail(cmd.Context(), id); err != nil {
				display.ErrorMsg("delete %s: %v", id, err)
				failed++
				continue
			}
			if !quietFlag {
				fmt.Printf("%s Deleted: %s\n", display.Dim.Render("✗"), id)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d emails not deleted", failed, len(args))
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processSubject, "subject", "", "Subject line (optional)")
	processCmd.Flags().StringVar(&processFile, "file", "", "Read text from a file, or - for stdin")
	processCmd.Flags().StringVar(&processGmail, "gmail", "", "Classify a Gmail message by ID")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(reprocessCmd)
	rootCmd.AddCommand(deleteCmd)
}
