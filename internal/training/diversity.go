package training

import (
	"math/rand/v2"
	"sort"

	"github.com/abhisek/phishwise/internal/scoring"
)

// DefaultSyntheticFraction bounds how many rows EnsureDiversity may relabel.
const DefaultSyntheticFraction = 0.2

// EnsureDiversity relabels a bounded, seeded sample of rows into the missing
// tiers when every label is the same tier. It returns the relabeled row
// indices in ascending order, or nil when labels were already diverse or
// too few rows exist to relabel.
func EnsureDiversity(labels []scoring.Tier, rng *rand.Rand, maxFraction float64) []int {
	present := map[scoring.Tier]bool{}
	for _, l := range labels {
		present[l] = true
	}
	if len(present) != 1 || len(labels) < 2 {
		return nil
	}
	var missing []scoring.Tier
	for _, t := range scoring.AllTiers() {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	if maxFraction <= 0 {
		maxFraction = DefaultSyntheticFraction
	}

	// Aim for two rows per missing tier, within the fraction, leaving at
	// least two rows with the original tier.
	n := min(int(float64(len(labels))*maxFraction), 2*len(missing), len(labels)-2)
	n = max(n, 1)

	picked := rng.Perm(len(labels))[:n]
	sort.Ints(picked)
	for i, row := range picked {
		labels[row] = missing[i%len(missing)]
	}
	return picked
}
