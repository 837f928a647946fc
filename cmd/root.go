package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanmay/resona/internal/config"
	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "resona",
	Short: "AI learning companion for physics students",
	Long:  "Resona — terminal learning companion that guides grade-12 students through short reflective conversations on Waves and Modern Physics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RESONA_DB env var)")
	rootCmd.PersistentFlags().String("curriculum", "", "Path to a curriculum JSON file (defaults to the bundled syllabus)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then the merged config (RESONA_DB env var, YAML, XDG default).
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return cfg.DBPath, nil
}

// openStore loads the config and opens the session database. The caller
// closes the store.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}

// loadRegistry returns the curriculum registry, honoring the --curriculum
// flag over the configured path, falling back to the bundled document.
func loadRegistry(cmd *cobra.Command, cfg *config.Config) (*curriculum.Registry, error) {
	path, _ := cmd.Flags().GetString("curriculum")
	if path == "" {
		path = cfg.Curriculum
	}
	if path == "" {
		return curriculum.Default(), nil
	}
	return curriculum.Load(path)
}
