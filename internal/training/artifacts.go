package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/classifier"
)

// ArtifactFormatVersion is written into model.json. Readers accept any
// version with the same major component.
const ArtifactFormatVersion = "v1.0.0"

// Model is the persisted classifier with enough metadata to reuse it.
type Model struct {
	FormatVersion string           `json:"format_version"`
	TrainedAt     time.Time        `json:"trained_at"`
	Tree          *classifier.Tree `json:"tree"`
	Features      []string         `json:"-"`
	Questions     []string         `json:"questions"`
	TierTable     string           `json:"tier_table"`
	MatchPolicy   string           `json:"match_policy"`
	SyntheticRows int              `json:"synthetic_rows"`
	Accuracy      float64          `json:"accuracy"`
}

type featureFile struct {
	FormatVersion string   `json:"format_version"`
	Features      []string `json:"features"`
}

// PredictAnswers classifies one learner's answers, given in the order of
// m.Questions.
func (m *Model) PredictAnswers(answers []string) string {
	return m.Tree.Predict(EncodeAnswers(m.Features, answers))
}

// SaveArtifacts writes the model and its ordered feature names.
func SaveArtifacts(m *Model, modelPath, featuresPath string) error {
	if err := writeJSON(modelPath, m); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	ff := featureFile{FormatVersion: m.FormatVersion, Features: m.Features}
	if err := writeJSON(featuresPath, ff); err != nil {
		return fmt.Errorf("save features: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadArtifacts reads a model and its features back.
func LoadArtifacts(modelPath, featuresPath string) (*Model, error) {
	data, err := apperr.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperr.Malformed(modelPath, err)
	}
	if m.Tree == nil || m.Tree.Root == nil {
		return nil, apperr.Malformed(modelPath, errors.New("model has no tree"))
	}
	if err := checkVersion(m.FormatVersion); err != nil {
		return nil, apperr.Malformed(modelPath, err)
	}

	data, err = apperr.ReadFile(featuresPath)
	if err != nil {
		return nil, err
	}
	var ff featureFile
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, apperr.Malformed(featuresPath, err)
	}
	if len(ff.Features) != m.Tree.Features {
		return nil, apperr.Malformed(featuresPath,
			fmt.Errorf("%d features but model expects %d", len(ff.Features), m.Tree.Features))
	}
	m.Features = ff.Features
	return &m, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid format version %q", v)
	}
	if semver.Major(v) != semver.Major(ArtifactFormatVersion) {
		return fmt.Errorf("format version %s is incompatible with %s", v, ArtifactFormatVersion)
	}
	return nil
}

// ArtifactStatus describes what is on disk.
type ArtifactStatus struct {
	ModelPath      string
	FeaturesPath   string
	ModelExists    bool
	FeaturesExists bool
	FormatVersion  string
	Features       int
	TrainedAt      time.Time
	Err            error
}

// Complete reports whether both artifacts exist and load cleanly.
func (s ArtifactStatus) Complete() bool {
	return s.ModelExists && s.FeaturesExists && s.Err == nil
}

// CheckArtifacts inspects the artifact pair without failing on absence.
func CheckArtifacts(modelPath, featuresPath string) ArtifactStatus {
	st := ArtifactStatus{
		ModelPath:      modelPath,
		FeaturesPath:   featuresPath,
		ModelExists:    exists(modelPath),
		FeaturesExists: exists(featuresPath),
	}
	if !st.ModelExists || !st.FeaturesExists {
		return st
	}
	m, err := LoadArtifacts(modelPath, featuresPath)
	if err != nil {
		st.Err = err
		return st
	}
	st.FormatVersion = m.FormatVersion
	st.Features = len(m.Features)
	st.TrainedAt = m.TrainedAt
	return st
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
