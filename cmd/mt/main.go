package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daviddao/mailtriage/internal/api"
	"github.com/daviddao/mailtriage/internal/auth"
	"github.com/daviddao/mailtriage/internal/config"
	"github.com/daviddao/mailtriage/internal/db"
	"github.com/daviddao/mailtriage/internal/session"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	dbPath     string
	apiURL     string
	jsonOutput bool
	quietFlag  bool
)

// Wired in PersistentPreRunE.
var (
	cfg     *config.Config
	store   *db.DB
	users   *api.UserClient
	emails  *api.EmailClient
	current *session.Session
)

var rootCmd = &cobra.Command{
	Use:           "mt",
	Short:         "mt - AI email triage from the terminal",
	Long:          "Mailtriage: read an AI-classified inbox, see suggested replies, send mail and track triage stats.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		if dbPath != "" {
			cfg.Storage.DBPath = dbPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, err = db.Open(cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}

		client := api.NewClient(cfg.API.BaseURL,
			api.WithTimeout(cfg.API.Timeout.Duration),
			api.WithTokenSource(auth.BackendTokenSource(cfg.API.Token)),
			api.WithHeader("User-Agent", "mailtriage/"+Version),
		)
		users = api.NewUserClient(client)
		emails = api.NewEmailClient(client)

		current = session.New(users, store)
		current.Hydrate()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mt version %s\n", Version)
	},
}

// requireUser returns the logged-in user or a "not logged in" error.
func requireUser() (*types.User, error) {
	user := current.User()
	if user == nil {
		return nil, fmt.Errorf("not logged in — run 'mt login --email EMAIL' first")
	}
	return user, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/mailtriage/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "State database path (default: <user config dir>/mailtriage/state.db)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (overrides config and MT_API_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
