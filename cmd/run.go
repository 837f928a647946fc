package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanmay/resona/internal/app"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/review"
	"github.com/tanmay/resona/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := loadRegistry(cmd, cfg)
	if err != nil {
		return err
	}

	// A companion without a model is no companion. Fail before any
	// screen state exists rather than mid-session.
	cfg.ApplyLLMDefaults()
	llmCfg, ok := llm.DiscoverConfig()
	if !ok {
		return errors.New("no LLM API key found: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
	}
	if err := llmCfg.Validate(); err != nil {
		return fmt.Errorf("LLM configuration: %w", err)
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st)
	if err != nil {
		return fmt.Errorf("initialize LLM provider: %w", err)
	}

	deps := app.Deps{
		Config:     cfg,
		Store:      st,
		Registry:   reg,
		Controller: session.NewController(reg, st, provider, session.DefaultConfig()),
		Review:     review.NewService(st, provider, reg, cfg.ReviewID),
	}
	return app.Run(deps)
}
