package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ai "github.com/didactlabs/didact"
	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/engine"
	"github.com/didactlabs/didact/gateway"
	"github.com/didactlabs/didact/internal/config"
	"github.com/didactlabs/didact/internal/logger"
	"github.com/didactlabs/didact/model"
)

var (
	flagConfig  string
	flagModel   string
	flagVerbose bool

	cfg *config.Config
	log *slog.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "didact",
		Short: "Build e-learning courses through a guided workflow",
		Long: "didact walks you through designing an e-learning course: it gathers context\n" +
			"through a short interview, analyzes your source material for gaps, and\n" +
			"generates an outline, a storyboard, and a final assessment.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagModel != "" {
				cfg.Model = flagModel
			}
			if flagVerbose {
				cfg.Verbose = true
			}
			log = logger.New(cfg.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/didact/config.yml)")
	cmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "chat model alias or id (see 'didact models')")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newRunCmd(), newModelsCmd(), newMCPCmd())
	return cmd
}

// newGateway builds the generation gateway from config and environment.
func newGateway() (*gateway.Client, error) {
	m, err := model.Lookup(cfg.Model)
	if err != nil {
		return nil, err
	}
	return gateway.New(gateway.Config{
		APIKeys: gateway.APIKeys{
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
			Google:    os.Getenv("GOOGLE_API_KEY"),
		},
		Model: m,
	}), nil
}

// newEngine builds a workflow engine on the given backend.
func newEngine(gen ai.Generator) *engine.Engine {
	return engine.New(gen, engine.Config{
		QuestionBudget:   cfg.QuestionBudget,
		FollowUpBudget:   cfg.FollowUpBudget,
		AlwaysRegenerate: cfg.AlwaysRegenerate,
		Breakpoints:      breakpoints(cfg.Breakpoints),
		DefaultQuestions: cfg.DefaultQuestions,
	}, engine.WithLogger(log))
}

// breakpoints converts the config's assessment sizing steps.
func breakpoints(bps []config.Breakpoint) []course.Breakpoint {
	out := make([]course.Breakpoint, 0, len(bps))
	for _, bp := range bps {
		out = append(out, course.Breakpoint{MaxMinutes: bp.MaxMinutes, Questions: bp.Questions})
	}
	return out
}
