package scoring

import (
	"fmt"
	"strings"
)

// Tier is the coarse knowledge tier derived from a percentage.
type Tier string

const (
	TierBeginner     Tier = "Beginner"
	TierBasic        Tier = "Basic"
	TierIntermediate Tier = "Intermediate"
	TierExpert       Tier = "Expert"
)

// AllTiers lists the tiers from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierBeginner, TierBasic, TierIntermediate, TierExpert}
}

// TierTable holds the inclusive lower bounds for each tier above Beginner.
type TierTable struct {
	Name         string
	Expert       float64
	Intermediate float64
	Basic        float64
}

var (
	// StandardTiers is used for interactive and non-interactive quizzes.
	StandardTiers = TierTable{Name: "standard", Expert: 75, Intermediate: 50, Basic: 25}
	// DatasetTiers is the looser table applied to recorded survey datasets.
	DatasetTiers = TierTable{Name: "dataset", Expert: 70, Intermediate: 45, Basic: 20}
)

// TierFor maps a percentage to a tier. Bounds are inclusive.
func (t TierTable) TierFor(percentage float64) Tier {
	switch {
	case percentage >= t.Expert:
		return TierExpert
	case percentage >= t.Intermediate:
		return TierIntermediate
	case percentage >= t.Basic:
		return TierBasic
	default:
		return TierBeginner
	}
}

// TierFor maps a percentage using StandardTiers.
func TierFor(percentage float64) Tier {
	return StandardTiers.TierFor(percentage)
}

// TierTableByName resolves "standard" or "dataset".
func TierTableByName(name string) (TierTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StandardTiers.Name:
		return StandardTiers, nil
	case DatasetTiers.Name:
		return DatasetTiers, nil
	default:
		return TierTable{}, fmt.Errorf("unknown tier table %q (want standard or dataset)", name)
	}
}
