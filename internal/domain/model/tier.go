package model

// Tier is a coarse bucket derived from a final score.
type Tier string

// Tiers from best to worst.
const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierDim    Tier = "dim"
)

// Tier thresholds; each bound is inclusive.
const (
	goldThreshold   = 80
	silverThreshold = 60
	bronzeThreshold = 40
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierGold, TierSilver, TierBronze, TierDim} //nolint:gochecknoglobals // fixed enumeration

// TierFor maps a score to its tier.
func TierFor(score float64) Tier {
	switch {
	case score >= goldThreshold:
		return TierGold
	case score >= silverThreshold:
		return TierSilver
	case score >= bronzeThreshold:
		return TierBronze
	default:
		return TierDim
	}
}

// ParseTier reports whether s names a known tier.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
