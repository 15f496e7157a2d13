package subscription

import (
	"strings"

	"github.com/localmart/localmart/app/models"
)

// Limits are the resource quotas attached to a subscription tier.
type Limits struct {
	MaxBusinesses int
	MaxProducts   int
}

var tierLimits = map[string]Limits{
	models.TierFree:       {MaxBusinesses: 1, MaxProducts: 10},
	models.TierBasic:      {MaxBusinesses: 3, MaxProducts: 50},
	models.TierPremium:    {MaxBusinesses: 10, MaxProducts: 1000},
	models.TierEnterprise: {MaxBusinesses: 50, MaxProducts: 5000},
}

func normalizeTier(tier string) string {
	return strings.ToLower(strings.TrimSpace(tier))
}

// LimitsForTier resolves the quota table for a tier. Unknown tiers resolve to
// the free tier's limits: an unrecognized tier is never trusted with an
// elevated quota.
func LimitsForTier(tier string) Limits {
	if l, ok := tierLimits[normalizeTier(tier)]; ok {
		return l
	}
	return tierLimits[models.TierFree]
}

func tierRank(tier string) int {
	switch normalizeTier(tier) {
	case models.TierEnterprise:
		return 3
	case models.TierPremium:
		return 2
	case models.TierBasic:
		return 1
	default:
		return 0
	}
}
