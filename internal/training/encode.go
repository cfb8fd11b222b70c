package training

import (
	"fmt"
	"sort"
	"strings"
)

// MissingValue stands in for an empty answer cell.
const MissingValue = "___MISSING___"

// Block is the half-open column range [Start, End) for one question.
type Block struct {
	QuestionID string   `json:"question_id"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Values     []string `json:"values"`
}

// FeatureMatrix is a one-hot encoding of the aligned answer columns.
type FeatureMatrix struct {
	Columns []string
	Blocks  []Block
	Rows    [][]float64
}

// FeatureName names the indicator column for value of the idx-th question.
func FeatureName(idx int, value string) string {
	return fmt.Sprintf("Q%d_%s", idx, value)
}

func cellValue(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return MissingValue
	}
	return v
}

// Encode one-hot encodes every aligned column. Columns follow question order,
// then sorted answer values, so each row has exactly one 1 per block.
func Encode(ds *Dataset, a Alignment) FeatureMatrix {
	var fm FeatureMatrix
	for idx, col := range a.Columns {
		seen := map[string]struct{}{}
		for _, row := range ds.Rows {
			seen[cellValue(row[col.Column])] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)

		b := Block{QuestionID: col.QuestionID, Start: len(fm.Columns), Values: values}
		for _, v := range values {
			fm.Columns = append(fm.Columns, FeatureName(idx, v))
		}
		b.End = len(fm.Columns)
		fm.Blocks = append(fm.Blocks, b)
	}

	index := make(map[string]int, len(fm.Columns))
	for i, c := range fm.Columns {
		index[c] = i
	}
	fm.Rows = make([][]float64, len(ds.Rows))
	for r, row := range ds.Rows {
		vec := make([]float64, len(fm.Columns))
		for idx, col := range a.Columns {
			vec[index[FeatureName(idx, cellValue(row[col.Column]))]] = 1
		}
		fm.Rows[r] = vec
	}
	return fm
}

// EncodeAnswers builds a feature row for answers (one per aligned question,
// in alignment order) against a persisted column list. Values never seen
// during training encode as all zeros in their block.
func EncodeAnswers(columns []string, answers []string) []float64 {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	vec := make([]float64, len(columns))
	for idx, a := range answers {
		if i, ok := index[FeatureName(idx, cellValue(a))]; ok {
			vec[i] = 1
		}
	}
	return vec
}
