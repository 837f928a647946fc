package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Print the participant summary table",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		reg, err := loadRegistry(cmd, cfg)
		if err != nil {
			return err
		}

		// The plain table never calls the model.
		svc := review.NewService(st, llm.NewUnconfiguredProvider(), reg, cfg.ReviewID)
		summaries, err := svc.Summarize(context.Background())
		if err != nil {
			return fmt.Errorf("summarize sessions: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-7s  %-8s  %-8s  %-9s  %-19s  %s\n",
			"Student", "Topics", "Sessions", "Latest", "Average", "Last Active", "Status")
		fmt.Println(strings.Repeat("─", 96))
		for _, s := range summaries {
			fmt.Printf("%-16s  %-7s  %-8d  %-8s  %-9s  %-19s  %s\n",
				truncate(s.ParticipantID, 16),
				s.TopicsLabel(),
				s.Sessions,
				s.LatestScoreLabel(),
				s.AvgScoreLabel(),
				s.LastActive.Local().Format("2006-01-02 15:04:05"),
				s.LearningStatus(),
			)
		}
		return nil
	},
}
