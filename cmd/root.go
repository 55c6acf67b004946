package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/store"
)

var errNoEventLog = errors.New("no event log configured: set QUIZGEN_DB or pass --db")

var rootCmd = &cobra.Command{
	Use:          "quizgen",
	Short:        "LLM-backed multiple-choice quiz generator",
	Long:         "quizgen writes multiple-choice questions for a learning objective and can fact-check each answer against web search.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides QUIZGEN_DB; unset disables the log)")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Dotenv files to load before the environment (default .env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration from the --env-file list and the
// environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, _ := cmd.Flags().GetStringSlice("env-file")
	return config.Load(files...)
}

// resolveDBPath returns the event log path from the --db flag, then
// QUIZGEN_DB as loaded into cfg. Empty means the event log is disabled.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	if cfg != nil {
		return cfg.DBPath
	}
	return ""
}

// openStore opens the event log for the read-only llm subcommands, which
// need no provider credentials.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath := resolveDBPath(cmd, cfg)
	if dbPath == "" {
		return nil, errNoEventLog
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
