package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/records"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect, export or clear the assessment database",
}

var dbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show assessment statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")
		out := cmd.OutOrStdout()
		db, err := records.LoadDatabase(cfg.Paths.Database)
		if errors.Is(err, apperr.ErrMissingSource) {
			fmt.Fprintln(out, "No assessments recorded yet.")
			return nil
		}
		if err != nil {
			return err
		}
		st := db.Stats(recent)
		if st.Count == 0 {
			fmt.Fprintln(out, "No assessments recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "ASSESSMENT DATABASE")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "Total assessments: %d\n", st.Count)
		fmt.Fprintf(out, "Average score:     %.1f%%\n", st.Average)
		fmt.Fprintf(out, "Highest score:     %.1f%%\n", st.Highest)
		fmt.Fprintf(out, "Lowest score:      %.1f%%\n", st.Lowest)

		fmt.Fprintln(out, "\nKnowledge level distribution:")
		for _, d := range st.Distribution {
			fmt.Fprintf(out, "  %-14s %d\n", d.Tier, d.Count)
		}

		fmt.Fprintln(out, "\nRecent assessments:")
		for _, a := range st.Recent {
			fmt.Fprintf(out, "  %s  %-20s %6.1f%%  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"), truncate(a.Name, 20), a.Percentage, a.OverallKnowledgeLevel)
		}
		return nil
	},
}

var dbExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export every assessment to CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := records.LoadDatabase(cfg.Paths.Database)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Paths.ExportDir, records.ExportFileName(time.Now()))
		if len(args) == 1 {
			path = args[0]
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		if err := db.ExportCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("write export: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d assessments to %s\n", len(db.Assessments), path)
		return nil
	},
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Delete all assessments? Type 'yes' to confirm: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(line)) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		if err := records.Clear(cfg.Paths.Database); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Assessment database cleared.")
		return nil
	},
}

func init() {
	dbShowCmd.Flags().IntP("recent", "n", 5, "Number of recent assessments to list")
	dbClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	dbCmd.AddCommand(dbShowCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbClearCmd)
}
