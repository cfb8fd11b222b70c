package records

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/scoring"
)

// DatabaseVersion is written into new databases.
const DatabaseVersion = "1.0"

// Summary is one learner's latest assessment.
type Summary struct {
	ID                    string       `json:"id"`
	SessionID             string       `json:"session_id,omitempty"`
	Timestamp             time.Time    `json:"timestamp"`
	Name                  string       `json:"name"`
	Gender                string       `json:"gender"`
	EducationLevel        string       `json:"education_level"`
	Proficiency           string       `json:"proficiency"`
	TotalScore            float64      `json:"total_score"`
	Percentage            float64      `json:"percentage"`
	OverallKnowledgeLevel scoring.Tier `json:"overall_knowledge_level"`
	Category              string       `json:"category"`
	QuestionCount         int          `json:"question_count"`
}

// Metadata describes the database file itself.
type Metadata struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Version string    `json:"version"`
}

// Database is the cumulative assessment store, one entry per learner name.
type Database struct {
	Metadata    Metadata  `json:"metadata"`
	Assessments []Summary `json:"assessments"`
}

// NewDatabase returns an empty database created at now.
func NewDatabase(now time.Time) *Database {
	now = now.UTC().Truncate(time.Second)
	return &Database{
		Metadata:    Metadata{Created: now, Updated: now, Version: DatabaseVersion},
		Assessments: []Summary{},
	}
}

// LoadDatabase reads the database at path.
func LoadDatabase(path string) (*Database, error) {
	data, err := apperr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, apperr.Malformed(path, err)
	}
	if db.Assessments == nil {
		db.Assessments = []Summary{}
	}
	return &db, nil
}

// Save writes the database atomically.
func (db *Database) Save(path string) error {
	return writeJSON(path, db)
}

func sameLearner(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Upsert replaces the entry whose name matches s.Name (trimmed,
// case-insensitive) in place, or appends s. It reports whether an entry
// was replaced.
func (db *Database) Upsert(s Summary, now time.Time) bool {
	now = now.UTC().Truncate(time.Second)
	if s.Timestamp.IsZero() {
		s.Timestamp = now
	}
	db.Metadata.Updated = now
	for i, existing := range db.Assessments {
		if sameLearner(existing.Name, s.Name) {
			if s.ID == "" {
				s.ID = existing.ID
			}
			db.Assessments[i] = s
			return true
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	db.Assessments = append(db.Assessments, s)
	return false
}

// Find returns the entry for name.
func (db *Database) Find(name string) (Summary, bool) {
	for _, s := range db.Assessments {
		if sameLearner(s.Name, name) {
			return s, true
		}
	}
	return Summary{}, false
}

// dbMu serializes read-modify-write cycles within the process.
var dbMu sync.Mutex

// Upsert loads the database at path (creating it when absent), upserts s
// and saves it back.
func Upsert(path string, s Summary, now time.Time) (bool, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	db, err := LoadDatabase(path)
	if errors.Is(err, apperr.ErrMissingSource) {
		db = NewDatabase(now)
	} else if err != nil {
		return false, err
	}
	replaced := db.Upsert(s, now)
	if err := db.Save(path); err != nil {
		return false, fmt.Errorf("save database: %w", err)
	}
	return replaced, nil
}

// Clear deletes the database file. A missing file is not an error.
func Clear(path string) error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// TierCount is one row of the knowledge level distribution.
type TierCount struct {
	Tier  scoring.Tier
	Count int
}

// Stats summarizes the database.
type Stats struct {
	Count        int
	Average      float64
	Highest      float64
	Lowest       float64
	Distribution []TierCount
	Recent       []Summary
}

// Stats computes score statistics, the tier distribution (sorted by tier
// name) and the most recent entries, newest first.
func (db *Database) Stats(recent int) Stats {
	st := Stats{Count: len(db.Assessments)}
	if st.Count == 0 {
		return st
	}
	counts := map[scoring.Tier]int{}
	var sum float64
	st.Highest = db.Assessments[0].Percentage
	st.Lowest = db.Assessments[0].Percentage
	for _, a := range db.Assessments {
		sum += a.Percentage
		st.Highest = max(st.Highest, a.Percentage)
		st.Lowest = min(st.Lowest, a.Percentage)
		counts[a.OverallKnowledgeLevel]++
	}
	st.Average = sum / float64(st.Count)

	for tier, n := range counts {
		st.Distribution = append(st.Distribution, TierCount{Tier: tier, Count: n})
	}
	sort.Slice(st.Distribution, func(i, j int) bool {
		return st.Distribution[i].Tier < st.Distribution[j].Tier
	})

	sorted := make([]Summary, len(db.Assessments))
	copy(sorted, db.Assessments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if recent >= 0 && recent < len(sorted) {
		sorted = sorted[:recent]
	}
	st.Recent = sorted
	return st
}

// CSVHeader is the column order written by ExportCSV.
var CSVHeader = []string{
	"Timestamp", "Name", "Gender", "Education_Level", "Proficiency",
	"Total_Score", "Percentage", "Overall_Knowledge_Level", "Category",
}

// ExportCSV writes every assessment as a CSV row under CSVHeader.
func (db *Database) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, a := range db.Assessments {
		row := []string{
			a.Timestamp.Format(time.RFC3339),
			a.Name,
			a.Gender,
			a.EducationLevel,
			a.Proficiency,
			strconv.FormatFloat(a.TotalScore, 'f', -1, 64),
			strconv.FormatFloat(a.Percentage, 'f', 1, 64),
			string(a.OverallKnowledgeLevel),
			a.Category,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName is the default CSV name for an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("phishing_assessments_%s.csv", now.Format("20060102_150405"))
}
