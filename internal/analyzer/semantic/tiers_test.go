package semantic

import "testing"

func TestTierFromDelta(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		delta float64
		want  QualityTier
	}{
		{0.0, Reject},
		{0.19, Reject},
		{0.20, Bronze},
		{0.39, Bronze},
		{0.40, Silver},
		{0.59, Silver},
		{0.60, Gold},
		{0.74, Gold},
		{0.75, Platinum},
		{1.0, Platinum},
	}

	for _, tt := range tests {
		if got := th.TierFromDelta(tt.delta); got != tt.want {
			t.Errorf("TierFromDelta(%v) = %v, want %v", tt.delta, got, tt.want)
		}
	}
}

func TestTierMonotonic(t *testing.T) {
	th := DefaultThresholds()
	prev := Reject
	for delta := 0.0; delta <= 1.0; delta += 0.01 {
		tier := th.TierFromDelta(delta)
		if tier < prev {
			t.Fatalf("tier decreased at δ=%v: %v -> %v", delta, prev, tier)
		}
		prev = tier
	}
}

func TestTierSymbols(t *testing.T) {
	tests := []struct {
		tier QualityTier
		sym  string
		val  int
	}{
		{Reject, "⊘", 0},
		{Bronze, "◊⁻", 1},
		{Silver, "◊", 2},
		{Gold, "◊⁺", 3},
		{Platinum, "◊⁺⁺", 4},
	}
	for _, tt := range tests {
		if got := tt.tier.Symbol(); got != tt.sym {
			t.Errorf("%v.Symbol() = %q, want %q", tt.tier, got, tt.sym)
		}
		if got := tt.tier.Value(); got != tt.val {
			t.Errorf("%v.Value() = %d, want %d", tt.tier, got, tt.val)
		}
	}
}
