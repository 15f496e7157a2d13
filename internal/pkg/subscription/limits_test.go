package subscription

import (
	"testing"

	"github.com/localmart/localmart/app/models"
)

func TestLimitsForTier(t *testing.T) {
	tests := []struct {
		in            string
		maxBusinesses int
		maxProducts   int
	}{
		{in: models.TierFree, maxBusinesses: 1, maxProducts: 10},
		{in: models.TierBasic, maxBusinesses: 3, maxProducts: 50},
		{in: models.TierPremium, maxBusinesses: 10, maxProducts: 1000},
		{in: models.TierEnterprise, maxBusinesses: 50, maxProducts: 5000},
		{in: "PREMIUM", maxBusinesses: 10, maxProducts: 1000},
		{in: "  basic ", maxBusinesses: 3, maxProducts: 50},
		{in: "gold", maxBusinesses: 1, maxProducts: 10},
		{in: "", maxBusinesses: 1, maxProducts: 10},
	}

	for _, tt := range tests {
		got := LimitsForTier(tt.in)
		if got.MaxBusinesses != tt.maxBusinesses || got.MaxProducts != tt.maxProducts {
			t.Fatalf("LimitsForTier(%q) = %+v, want {%d %d}", tt.in, got, tt.maxBusinesses, tt.maxProducts)
		}
	}
}

func TestTierRank(t *testing.T) {
	if tierRank(models.TierFree) >= tierRank(models.TierBasic) {
		t.Fatalf("expected basic to outrank free")
	}
	if tierRank(models.TierBasic) >= tierRank(models.TierPremium) {
		t.Fatalf("expected premium to outrank basic")
	}
	if tierRank(models.TierPremium) >= tierRank(models.TierEnterprise) {
		t.Fatalf("expected enterprise to outrank premium")
	}
	if tierRank("gold") != tierRank(models.TierFree) {
		t.Fatalf("expected unknown tiers to rank as free")
	}
}
