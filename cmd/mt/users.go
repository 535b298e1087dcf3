package main

import (
	"fmt"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users [SEARCH]",
	Short: "List users, optionally filtered by a search term",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}
		list, err := users.ListUsers(cmd.Context(), search)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		fmt.Printf("Users (%d):\n\n", len(list))
		for _, u := range list {
			fmt.Printf("  %-24s %-28s %s\n",
				display.Dim.Render(display.Truncate(u.ID, 24)),
				display.Truncate(u.Name, 28),
				u.Email,
			)
		}
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get USER_ID",
	Short: "Show a single user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := users.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), u)
		}
		fmt.Printf("%s <%s>\n", display.Bold.Render(u.Name), u.Email)
		fmt.Printf("  ID:     %s\n", u.ID)
		fmt.Printf("  Active: %t\n", u.Status)
		if u.Phone != "" {
			fmt.Printf("  Phone:  %s\n", u.Phone)
		}
		if len(u.Labels) > 0 {
			fmt.Printf("  Labels: %v\n", u.Labels)
		}
		return nil
	},
}

func init() {
	usersCmd.AddCommand(userGetCmd)
	rootCmd.AddCommand(usersCmd)
}
