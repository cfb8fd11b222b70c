// Package records persists completed assessments: the most recent session
// result and the cumulative assessment database.
package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/scoring"
)

// AssessmentType tags every saved result.
const AssessmentType = "phishing_awareness"

// WeakAreaThreshold is the weight below which a response counts as a weak area.
const WeakAreaThreshold = 7.0

// Record is the full outcome of one session.
type Record struct {
	SessionID      string                   `json:"session_id"`
	Timestamp      time.Time                `json:"timestamp"`
	Profile        learner.Profile          `json:"profile"`
	Category       string                   `json:"category,omitempty"`
	Result         scoring.AssessmentResult `json:"result"`
	WeakAreas      []string                 `json:"weak_areas"`
	AssessmentType string                   `json:"assessment_type"`
}

// NewRecord builds a Record. The timestamp is stored in UTC at second
// precision so that it survives a save and load unchanged.
func NewRecord(sessionID string, profile learner.Profile, category string, result scoring.AssessmentResult, at time.Time) Record {
	return Record{
		SessionID:      sessionID,
		Timestamp:      at.UTC().Truncate(time.Second),
		Profile:        profile.Normalized(),
		Category:       category,
		Result:         result,
		WeakAreas:      WeakAreas(result),
		AssessmentType: AssessmentType,
	}
}

// WeakAreas lists the questions whose weight is below WeakAreaThreshold,
// in answer order.
func WeakAreas(result scoring.AssessmentResult) []string {
	weak := []string{}
	for _, r := range result.Responses {
		if r.Weight < WeakAreaThreshold {
			weak = append(weak, r.Question)
		}
	}
	return weak
}

// Summary condenses the record into a database entry.
func (r Record) Summary() Summary {
	return Summary{
		SessionID:             r.SessionID,
		Timestamp:             r.Timestamp,
		Name:                  r.Profile.Name,
		Gender:                r.Profile.Gender,
		EducationLevel:        r.Profile.Education,
		Proficiency:           r.Profile.Proficiency,
		TotalScore:            r.Result.TotalScore,
		Percentage:            r.Result.Percentage,
		OverallKnowledgeLevel: r.Result.Tier,
		Category:              r.Category,
		QuestionCount:         r.Result.QuestionCount,
	}
}

// SaveResult overwrites path with the record.
func SaveResult(path string, r Record) error {
	return writeJSON(path, r)
}

// LoadResult reads a record saved by SaveResult.
func LoadResult(path string) (Record, error) {
	data, err := apperr.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, apperr.Malformed(path, err)
	}
	return r, nil
}

// writeJSON replaces path atomically with the indented encoding of v.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
