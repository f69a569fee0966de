package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/app"
	"github.com/akarpov/flashka/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "flashka",
	Short: "Terminal flashcard client for the interactive-learning service",
	Long:  "Flashka — study and test yourself on your flashcard modules without leaving the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Base URL of the learning service (overrides FLASHKA_SERVER env var)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the service (overrides FLASHKA_TOKEN env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history database (overrides FLASHKA_DB env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(modulesCmd)
}

// runApp wires the API client and local store into the TUI.
func runApp(cmd *cobra.Command) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Client:  client,
		History: st.History(),
	})
}

// newClient builds the API client from flags and environment.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = os.Getenv("FLASHKA_SERVER")
	}
	if server == "" {
		return nil, errors.New("no server configured: pass --server or set FLASHKA_SERVER")
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("FLASHKA_TOKEN")
	}
	if token == "" {
		return nil, errors.New("no token configured: pass --token or set FLASHKA_TOKEN")
	}

	return api.New(server, token), nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FLASHKA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
