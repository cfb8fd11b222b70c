package training

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Split holds row indices for the train and test partitions.
type Split struct {
	Train      []int
	Test       []int
	Stratified bool
}

// TrainTestSplit partitions rows with test fraction testSize. The split is
// stratified by label when every class has at least two rows.
func TrainTestSplit(labels []string, testSize float64, rng *rand.Rand) Split {
	n := len(labels)
	byClass := map[string][]int{}
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	stratify := len(byClass) > 1
	for _, rows := range byClass {
		if len(rows) < 2 {
			stratify = false
		}
	}

	var s Split
	if stratify {
		classes := make([]string, 0, len(byClass))
		for c := range byClass {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			rows := byClass[c]
			rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
			k := int(math.Round(float64(len(rows)) * testSize))
			k = min(max(k, 1), len(rows)-1)
			s.Test = append(s.Test, rows[:k]...)
			s.Train = append(s.Train, rows[k:]...)
		}
		s.Stratified = true
	} else {
		perm := rng.Perm(n)
		k := int(math.Ceil(float64(n) * testSize))
		if n > 1 {
			k = min(max(k, 1), n-1)
		} else {
			k = 0
		}
		s.Test = append(s.Test, perm[:k]...)
		s.Train = append(s.Train, perm[k:]...)
	}
	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s
}

// CoverClasses moves one test row into the train partition for every label
// the train partition lacks. It returns the adjusted split and the number of
// rows moved. Rows never appear in both partitions.
func (s Split) CoverClasses(labels []string) (Split, int) {
	inTrain := map[string]bool{}
	for _, r := range s.Train {
		inTrain[labels[r]] = true
	}
	out := Split{
		Train:      append([]int(nil), s.Train...),
		Stratified: s.Stratified,
	}
	moved := 0
	for _, r := range s.Test {
		if !inTrain[labels[r]] {
			inTrain[labels[r]] = true
			out.Train = append(out.Train, r)
			moved++
			continue
		}
		out.Test = append(out.Test, r)
	}
	sort.Ints(out.Train)
	return out, moved
}
