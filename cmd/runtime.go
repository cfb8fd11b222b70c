package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/config"
	"github.com/abhisek/phishwise/internal/feedback"
	"github.com/abhisek/phishwise/internal/llm"
	"github.com/abhisek/phishwise/internal/logging"
	"github.com/abhisek/phishwise/internal/scoring"
	"github.com/abhisek/phishwise/internal/store"
)

// Shared state resolved once per invocation in PersistentPreRunE.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.Options{File: file})
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
	}
	cfg = c

	logCfg := logging.DefaultConfig()
	logCfg.Level = c.Log.Level
	logCfg.File = c.Log.File
	l, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger = l
	if cfg.File != "" {
		logger.Debug("loaded config", zap.String("file", cfg.File))
	}
	return nil
}

func teardown() {
	_ = logger.Sync()
}

// resolveStoreDSN returns the driver and DSN using --db (highest priority),
// then store.dsn, then PHISHWISE_DB or the default XDG path.
func resolveStoreDSN(cmd *cobra.Command) (store.Driver, string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return store.DriverSQLite, "file:" + p, store.EnsureDir(p)
	}
	driver := store.Driver(cfg.Store.Driver)
	if cfg.Store.DSN != "" {
		return driver, cfg.Store.DSN, nil
	}
	if driver == store.DriverPostgres {
		return "", "", fmt.Errorf("store.dsn is required for the postgres driver")
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return "", "", err
	}
	return store.DriverSQLite, "file:" + p, nil
}

// openStore opens the event store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	driver, dsn, err := resolveStoreDSN(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	s, err := store.Open(cmd.Context(), driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadCalculator loads the answer key and builds the runtime calculator.
func loadCalculator() (*scoring.Calculator, error) {
	key, err := answerkey.Load(cfg.Paths.AnswerKey, logger)
	if err != nil {
		return nil, err
	}
	for _, issue := range key.Validate() {
		logger.Warn("answer key issue", zap.String("issue", issue.String()))
	}
	policy, err := scoring.ParseMatchPolicy(cfg.Scoring.MatchPolicy)
	if err != nil {
		return nil, err
	}
	tiers, err := scoring.TierTableByName(cfg.Scoring.TierTable)
	if err != nil {
		return nil, err
	}
	return scoring.NewCalculator(key, policy, tiers), nil
}

// buildComposer wires the explanation table and, when configured, a remote
// generator. Both are optional: failures are reported and the composer falls
// back to static guidance.
func buildComposer(ctx context.Context, sink llm.EventSink) *feedback.Composer {
	opts := feedback.ComposerOptions{Logger: logger}

	table, err := feedback.LoadExplanations(cfg.Paths.Explanations)
	if err != nil {
		logger.Warn("explanations unavailable", zap.Error(err))
	} else {
		opts.Explanations = table
	}

	if !cfg.LLM.Enabled {
		opts.Generator = feedback.LocalGenerator{}
		return feedback.NewComposer(opts)
	}
	provider, err := llm.NewProviderFromEnv(ctx, sink, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Personalized guidance will use built-in templates.")
		opts.Generator = feedback.LocalGenerator{}
	} else {
		opts.Generator = feedback.NewLLMGenerator(provider, feedback.DefaultGeneratorConfig())
	}
	return feedback.NewComposer(opts)
}
