package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phishwise/internal/records"
	"github.com/abhisek/phishwise/internal/scoring"
)

const testSheet = `{"questions": [
  {"id": "q1", "question": "An email asks you to confirm your password through a link.", "options": [
    {"text": "Click the link", "marks": 0},
    {"text": "Open the site directly", "marks": 10, "level": "advanced"}
  ]},
  {"id": "q2", "question": "A stranger calls claiming to be from IT support.", "options": [
    {"text": "Give them access", "marks": 0},
    {"text": "Call the helpdesk back", "marks": 10, "level": "advanced"}
  ]}
]}`

// writeFixture lays out an answer key and a config file in a temp dir.
func writeFixture(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key.json"), []byte(testSheet), 0o644))

	yaml := fmt.Sprintf(`paths:
  answer_key: %[1]s/key.json
  explanations: %[1]s/explanations.json
  results: %[1]s/result.json
  database: %[1]s/db.json
  export_dir: %[1]s
llm:
  enabled: false
log:
  level: error
`, dir)
	configPath = filepath.Join(dir, "phishwise.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return dir, configPath
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestNonInteractiveQuizFlow(t *testing.T) {
	dir, configPath := writeFixture(t)
	dbPath := filepath.Join(dir, "events.db")
	common := []string{"--config", configPath, "--db", dbPath}

	out := execute(t, append([]string{"quiz", "--non-interactive", "--name", "Ada", "--gender", "2"}, common...)...)
	assert.Contains(t, out, "Saved a new record for Ada")

	rec, err := records.LoadResult(filepath.Join(dir, "result.json"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Profile.Name)
	assert.Equal(t, "Female", rec.Profile.Gender)
	assert.Equal(t, 100.0, rec.Result.Percentage)
	assert.Equal(t, scoring.TierExpert, rec.Result.Tier)

	out = execute(t, append([]string{"history"}, common...)...)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "auto")

	out = execute(t, append([]string{"db", "show"}, common...)...)
	assert.Contains(t, out, "Total assessments: 1")

	csvPath := filepath.Join(dir, "out.csv")
	execute(t, append([]string{"db", "export", csvPath}, common...)...)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(records.CSVHeader, ",")))
}

func TestDBShowWithoutDatabase(t *testing.T) {
	dir, configPath := writeFixture(t)
	out := execute(t, "db", "show", "--config", configPath, "--db", filepath.Join(dir, "events.db"))
	assert.Contains(t, out, "No assessments recorded yet.")
}

func TestVersion(t *testing.T) {
	_, configPath := writeFixture(t)
	out := execute(t, "version", "--config", configPath)
	assert.Contains(t, out, "phishwise")
}
