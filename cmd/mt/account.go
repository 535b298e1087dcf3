package main

import (
	"fmt"

	"github.com/daviddao/mailtriage/internal/display"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
	loginEmail       string
	loginPassword    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the triage backend",
	Long: `Create an account. Registration does not log you in.

Examples:
  mt register --name "Ana Souza" --email ana@example.com --password s3cret
  mt login --email ana@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if registerName == "" || registerEmail == "" {
			return fmt.Errorf("--name and --email are required")
		}
		err := current.Register(cmd.Context(), types.CreateUserRequest{
			Name:     registerName,
			Email:    registerEmail,
			Password: registerPassword,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), current.State())
		}
		if !quietFlag {
			display.SuccessMsg("Registered %s — run 'mt login --email %s' to sign in", registerEmail, registerEmail)
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in by email",
	Long: `Log in by looking up your account by exact email match.

The password is accepted but not verified; the backend does not expose a
credential check yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return fmt.Errorf("--email is required")
		}
		err := current.Login(cmd.Context(), types.LoginRequest{Email: loginEmail, Password: loginPassword})
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), current.State())
		}
		if !quietFlag {
			user := current.User()
			display.SuccessMsg("Logged in as %s <%s>", user.Name, user.Email)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Logout(); err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), current.State())
		}
		if !quietFlag {
			display.SuccessMsg("Logged out")
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := current.State()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		if !st.IsAuthenticated {
			fmt.Println(display.Dim.Render("Not logged in."))
			return nil
		}
		u := st.User
		fmt.Printf("%s <%s>\n", display.Bold.Render(u.Name), u.Email)
		fmt.Printf("  ID:       %s\n", u.ID)
		if u.CreatedAt != "" {
			fmt.Printf("  Joined:   %s\n", display.TimeAgo(u.CreatedAt))
		}
		fmt.Printf("  Verified: email=%t phone=%t\n", u.EmailVerification, u.PhoneVerification)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (not verified)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
