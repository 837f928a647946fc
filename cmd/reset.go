package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanmay/resona/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored session data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		confirmed, _ := cmd.Flags().GetBool("confirm")
		if !confirmed {
			fmt.Printf("This permanently deletes %s.\nRe-run with --confirm to proceed.\n", dbPath)
			return nil
		}

		// WAL mode keeps sidecar files next to the database.
		removed := false
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			err := os.Remove(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("remove %s: %w", p, err)
			}
			removed = true
		}
		if !removed {
			fmt.Println("Nothing to delete.")
			return nil
		}
		fmt.Println("Deleted", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "Actually delete the database")
}
