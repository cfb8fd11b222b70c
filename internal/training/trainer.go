package training

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/classifier"
	"github.com/abhisek/phishwise/internal/scoring"
)

// Config holds trainer settings.
type Config struct {
	MatchPolicy       scoring.MatchPolicy
	Tiers             scoring.TierTable
	TestSize          float64
	Seed              uint64
	Tree              classifier.Config
	SyntheticFraction float64
}

// DefaultConfig returns the settings used for survey datasets.
func DefaultConfig() Config {
	return Config{
		MatchPolicy:       scoring.MatchExactThenPartial,
		Tiers:             scoring.DatasetTiers,
		TestSize:          0.2,
		Seed:              42,
		Tree:              classifier.DefaultConfig(),
		SyntheticFraction: DefaultSyntheticFraction,
	}
}

// RowScore is the score of one dataset row. Tier is what the answers earned;
// Label is the tier the classifier was trained on, which differs only for
// synthetic rows.
type RowScore struct {
	Percentage float64      `json:"percentage"`
	Tier       scoring.Tier `json:"tier"`
	Label      scoring.Tier `json:"label"`
	Synthetic  bool         `json:"synthetic,omitempty"`
}

// Report summarizes a training run. TierCounts counts training labels.
// Accuracy and Metrics are only meaningful when Evaluated is set.
type Report struct {
	Rows          int                  `json:"rows"`
	Alignment     Alignment            `json:"alignment"`
	Features      int                  `json:"features"`
	Scores        []RowScore           `json:"scores"`
	TierCounts    map[scoring.Tier]int `json:"tier_counts"`
	MeanScore     float64              `json:"mean_percentage"`
	SyntheticRows []int                `json:"synthetic_rows,omitempty"`
	TrainRows     int                  `json:"train_rows"`
	TestRows      int                  `json:"test_rows"`
	MovedToTrain  int                  `json:"moved_to_train,omitempty"`
	Stratified    bool                 `json:"stratified"`
	Evaluated     bool                 `json:"evaluated"`
	Accuracy      float64              `json:"accuracy"`
	Metrics       classifier.Report    `json:"metrics"`
	Dropped       []string             `json:"dropped_columns,omitempty"`
}

// Trainer labels a dataset with the answer key and fits a tier classifier.
type Trainer struct {
	key    *answerkey.Key
	cfg    Config
	logger *zap.Logger
}

// New creates a trainer.
func New(key *answerkey.Key, cfg Config, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{key: key, cfg: cfg, logger: logger}
}

// Fit loads the dataset at path and trains on it. The file is only read.
func (t *Trainer) Fit(ctx context.Context, path string) (*Model, *Report, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, nil, err
	}
	return t.FitDataset(ctx, ds)
}

// FitDataset trains on an in-memory dataset.
func (t *Trainer) FitDataset(ctx context.Context, ds *Dataset) (*Model, *Report, error) {
	source := ds.Source
	if source == "" {
		source = "dataset"
	}
	if len(ds.Rows) == 0 {
		return nil, nil, apperr.Malformed(source, errors.New("dataset has no rows"))
	}
	align, err := Align(ds, t.key)
	if err != nil {
		return nil, nil, err
	}
	t.logger.Info("aligned dataset",
		zap.String("strategy", string(align.Strategy)),
		zap.Int("questions", len(align.Columns)),
		zap.Strings("unmatched", align.Unmatched),
	)

	calc := scoring.NewCalculator(t.key, t.cfg.MatchPolicy, t.cfg.Tiers)
	labels := make([]scoring.Tier, len(ds.Rows))
	report := &Report{
		Rows:       len(ds.Rows),
		Alignment:  align,
		Scores:     make([]RowScore, len(ds.Rows)),
		TierCounts: map[scoring.Tier]int{},
		Dropped:    ds.Dropped,
	}
	for r, row := range ds.Rows {
		responses := make([]scoring.ScoredResponse, len(align.Columns))
		for i, col := range align.Columns {
			responses[i] = calc.Score(col.QuestionID, row[col.Column])
		}
		res := calc.Aggregate(responses)
		labels[r] = res.Tier
		report.Scores[r] = RowScore{Percentage: res.Percentage, Tier: res.Tier, Label: res.Tier}
		report.MeanScore += res.Percentage
	}
	report.MeanScore /= float64(len(ds.Rows))
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewPCG(t.cfg.Seed, t.cfg.Seed))
	if rows := EnsureDiversity(labels, rng, t.cfg.SyntheticFraction); len(rows) > 0 {
		report.SyntheticRows = rows
		for _, r := range rows {
			report.Scores[r].Label = labels[r]
			report.Scores[r].Synthetic = true
		}
		t.logger.Warn("all rows scored into one tier, relabeled a sample for training",
			zap.Int("relabeled", len(rows)),
			zap.Int("rows", len(labels)),
		)
	}
	for _, l := range labels {
		report.TierCounts[l]++
	}

	fm := Encode(ds, align)
	report.Features = len(fm.Columns)

	y := make([]string, len(labels))
	for i, l := range labels {
		y[i] = string(l)
	}
	split := TrainTestSplit(y, t.cfg.TestSize, rng)
	if distinct(pick(y, split.Train)) < distinct(y) {
		var moved int
		split, moved = split.CoverClasses(y)
		report.MovedToTrain = moved
		t.logger.Warn("training partition lacked some tiers, moved test rows into it",
			zap.Int("moved", moved),
			zap.Int("test_rows", len(split.Test)),
		)
	}
	report.TrainRows, report.TestRows, report.Stratified = len(split.Train), len(split.Test), split.Stratified

	tree, err := classifier.Fit(pickRows(fm.Rows, split.Train), pick(y, split.Train), t.cfg.Tree)
	if err != nil {
		return nil, nil, apperr.Malformed(source, fmt.Errorf("fit classifier: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if len(split.Test) > 0 {
		pred := tree.PredictAll(pickRows(fm.Rows, split.Test))
		report.Metrics = classifier.ClassificationReport(pick(y, split.Test), pred)
		report.Accuracy = report.Metrics.Accuracy
		report.Evaluated = true
	} else {
		t.logger.Warn("no held-out rows left, accuracy not measured")
	}
	t.logger.Info("trained tier classifier",
		zap.Int("train_rows", report.TrainRows),
		zap.Int("test_rows", report.TestRows),
		zap.Float64("accuracy", report.Accuracy),
		zap.Int("depth", tree.Depth()),
	)

	model := &Model{
		FormatVersion: ArtifactFormatVersion,
		TrainedAt:     time.Now().UTC(),
		Tree:          tree,
		Features:      fm.Columns,
		Questions:     questionIDs(align),
		TierTable:     t.cfg.Tiers.Name,
		MatchPolicy:   string(calc.Policy()),
		SyntheticRows: len(report.SyntheticRows),
		Accuracy:      report.Accuracy,
	}
	return model, report, nil
}

func pick(y []string, rows []int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = y[r]
	}
	return out
}

func pickRows(X [][]float64, rows []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = X[r]
	}
	return out
}

func distinct(y []string) int {
	seen := map[string]struct{}{}
	for _, v := range y {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func questionIDs(a Alignment) []string {
	ids := make([]string, len(a.Columns))
	for i, c := range a.Columns {
		ids[i] = c.QuestionID
	}
	return ids
}
