package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phishwise",
	Short: "Phishing awareness assessment and training",
	Long: "PhishWise scores a phishing-awareness questionnaire, explains weak answers,\n" +
		"keeps a history of assessments and trains a knowledge-tier classifier from survey data.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuiz(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to phishwise.yaml (default: ./phishwise.yaml, then the user config dir)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event database (overrides store.dsn and PHISHWISE_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	addQuizFlags(rootCmd)

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(explanationsCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
