package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/review"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write participant summaries and full session data as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("out")
		sessionsOnly, _ := cmd.Flags().GetBool("sessions")

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		reg, err := loadRegistry(cmd, cfg)
		if err != nil {
			return err
		}

		svc := review.NewService(st, llm.NewUnconfiguredProvider(), reg, cfg.ReviewID)

		var paths []string
		if sessionsOnly {
			p, err := svc.ExportSessions(context.Background(), dir, time.Now())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			paths = []string{p}
		} else {
			paths, err = svc.ExportAll(context.Background(), dir, time.Now())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
		}
		for _, p := range paths {
			fmt.Println("Wrote", p)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", ".", "Directory to write the CSV files into")
	exportCmd.Flags().Bool("sessions", false, "Export only the full session data file")
}
