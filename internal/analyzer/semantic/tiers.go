package semantic

// QualityTier is the discrete document grade derived from δ.
type QualityTier int

const (
	Reject QualityTier = iota
	Bronze
	Silver
	Gold
	Platinum
)

// Symbol returns the tier's AISP notation.
func (t QualityTier) Symbol() string {
	switch t {
	case Bronze:
		return "◊⁻"
	case Silver:
		return "◊"
	case Gold:
		return "◊⁺"
	case Platinum:
		return "◊⁺⁺"
	default:
		return "⊘"
	}
}

func (t QualityTier) String() string {
	switch t {
	case Bronze:
		return "Bronze"
	case Silver:
		return "Silver"
	case Gold:
		return "Gold"
	case Platinum:
		return "Platinum"
	default:
		return "Reject"
	}
}

// MarshalText renders the tier name for JSON output.
func (t QualityTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Value returns the tier's numeric rank, 0 for Reject through 4 for Platinum.
func (t QualityTier) Value() int {
	return int(t)
}

// Thresholds are the four increasing δ cutoffs that partition [0,1]
// into tiers. Everything below Bronze is Reject.
type Thresholds struct {
	Bronze   float64
	Silver   float64
	Gold     float64
	Platinum float64
}

// DefaultThresholds are the standard tier cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Bronze:   0.20,
		Silver:   0.40,
		Gold:     0.60,
		Platinum: 0.75,
	}
}

// TierFromDelta maps a density score to its tier.
func (th Thresholds) TierFromDelta(delta float64) QualityTier {
	switch {
	case delta >= th.Platinum:
		return Platinum
	case delta >= th.Gold:
		return Gold
	case delta >= th.Silver:
		return Silver
	case delta >= th.Bronze:
		return Bronze
	default:
		return Reject
	}
}
