package classifier

import (
	"fmt"
	"sort"
	"strings"
)

// Accuracy is the fraction of predictions equal to the truth.
func Accuracy(truth, pred []string) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return 0
	}
	hit := 0
	for i := range truth {
		if truth[i] == pred[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(truth))
}

// ClassMetrics holds per-class scores.
type ClassMetrics struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a per-class classification summary.
type Report struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Support     int            `json:"support"`
}

// ClassificationReport scores pred against truth for every class seen in
// either slice. Undefined ratios are reported as zero.
func ClassificationReport(truth, pred []string) Report {
	labels := map[string]struct{}{}
	for _, v := range truth {
		labels[v] = struct{}{}
	}
	for _, v := range pred {
		labels[v] = struct{}{}
	}
	classes := make([]string, 0, len(labels))
	for c := range labels {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	r := Report{Accuracy: Accuracy(truth, pred), Support: len(truth)}
	r.MacroAvg.Class = "macro avg"
	r.WeightedAvg.Class = "weighted avg"
	for _, c := range classes {
		var tp, fp, fn int
		for i := range truth {
			switch {
			case truth[i] == c && pred[i] == c:
				tp++
			case truth[i] != c && pred[i] == c:
				fp++
			case truth[i] == c && pred[i] != c:
				fn++
			}
		}
		m := ClassMetrics{
			Class:     c,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes = append(r.Classes, m)

		r.MacroAvg.Precision += m.Precision
		r.MacroAvg.Recall += m.Recall
		r.MacroAvg.F1 += m.F1
		w := float64(m.Support)
		r.WeightedAvg.Precision += w * m.Precision
		r.WeightedAvg.Recall += w * m.Recall
		r.WeightedAvg.F1 += w * m.F1
	}
	if n := float64(len(classes)); n > 0 {
		r.MacroAvg.Precision /= n
		r.MacroAvg.Recall /= n
		r.MacroAvg.F1 /= n
	}
	if n := float64(r.Support); n > 0 {
		r.WeightedAvg.Precision /= n
		r.WeightedAvg.Recall /= n
		r.WeightedAvg.F1 /= n
	}
	r.MacroAvg.Support = r.Support
	r.WeightedAvg.Support = r.Support
	return r
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// String renders the report as an aligned text table.
func (r Report) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		width = max(width, len(c.Class))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%*s %10s %10s %10s %10s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%*s %10.2f %10.2f %10.2f %10d\n", width, c.Class, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&b, "\n%*s %10s %10s %10.2f %10d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	for _, c := range []ClassMetrics{r.MacroAvg, r.WeightedAvg} {
		fmt.Fprintf(&b, "%*s %10.2f %10.2f %10.2f %10d\n", width, c.Class, c.Precision, c.Recall, c.F1, c.Support)
	}
	return b.String()
}
