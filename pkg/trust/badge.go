// Package trust classifies answer trust scores and rates the reliability of sources.
package trust

import (
	"fmt"
	"math"
)

// Tier is the badge tier derived from a trust score
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

var tierLabels = map[Tier]string{
	TierHigh:   "élevée",
	TierMedium: "moyenne",
	TierLow:    "faible",
}

// Label is the French name of the tier, e.g. "élevée"
func (t Tier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

// Badge is the display form of a trust score
type Badge struct {
	Tier       Tier
	Percentage int // round(score*100)
}

// Label renders the percentage, e.g. "85%"
func (b Badge) Label() string {
	return fmt.Sprintf("%d%%", b.Percentage)
}

// Percentage converts a score in [0,1] to a rounded percentage. Out of range
// scores are clamped
func Percentage(score float64) int {
	return int(math.Round(clamp(score) * 100))
}

// BadgeFor classifies a score. A nil score has no badge
func BadgeFor(score *float64) (Badge, bool) {
	if score == nil || math.IsNaN(*score) {
		return Badge{}, false
	}

	pct := Percentage(*score)
	switch {
	case pct >= 80:
		return Badge{Tier: TierHigh, Percentage: pct}, true
	case pct >= 60:
		return Badge{Tier: TierMedium, Percentage: pct}, true
	default:
		return Badge{Tier: TierLow, Percentage: pct}, true
	}
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(1, score))
}
