package subscription

import (
	"fmt"
	"time"

	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// Service answers quota questions for business/product creation and enforces
// consistency when a user's tier changes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a limit service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a limit service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// GetOrCreateSubscription resolves the user's active subscription, creating a
// free-tier default when none exists.
func (s *Service) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	if _, err := s.repo.GetUser(userID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateSubscription(userID)
}

// CanCreateBusiness reports whether the user may create another business
// under their current tier. The check never fails on quota; it returns the
// decision plus a reason the caller can render.
func (s *Service) CanCreateBusiness(userID uint) (*Decision, error) {
	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return nil, err
	}

	limits := LimitsForTier(sub.Tier)
	count, err := s.repo.CountActiveBusinesses(userID)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		Allowed: int(count) < limits.MaxBusinesses,
		Max:     limits.MaxBusinesses,
		Current: int(count),
	}
	if !d.Allowed {
		d.Reason = fmt.Sprintf("business limit reached for the %s plan (%d of %d)", sub.Tier, count, limits.MaxBusinesses)
	}
	return d, nil
}

// CanCreateProduct reports whether another product may be created under the
// given business. The product count ignores the business's own active flag.
func (s *Service) CanCreateProduct(userID, businessID uint) (*Decision, error) {
	if _, err := s.repo.GetBusiness(businessID); err != nil {
		return nil, err
	}

	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return nil, err
	}

	limits := LimitsForTier(sub.Tier)
	count, err := s.repo.CountActiveProducts(businessID)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		Allowed: int(count) < limits.MaxProducts,
		Max:     limits.MaxProducts,
		Current: int(count),
	}
	if !d.Allowed {
		d.Reason = fmt.Sprintf("product limit reached for the %s plan (%d of %d)", sub.Tier, count, limits.MaxProducts)
	}
	return d, nil
}

// ChangePlan moves the user to a new tier and re-derives quota consistency
// from current counts. Over-quota businesses and products are deactivated
// oldest first, so the user's newest work survives a downgrade. Calling it
// twice with the same tier and no intervening creates is a no-op the second
// time.
func (s *Service) ChangePlan(userID uint, newTier string) error {
	tier := normalizeTier(newTier)
	if !models.IsKnownTier(tier) {
		return fmt.Errorf("%w: %q", ErrUnknownTier, newTier)
	}

	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return err
	}
	limits := LimitsForTier(tier)

	// Quotas grow monotonically with rank, so a strict upgrade cannot strand
	// anything over quota. Downgrades and same-tier calls re-derive from
	// current counts.
	if tierRank(tier) <= tierRank(sub.Tier) {
		if err := s.cascade(userID, limits); err != nil {
			return err
		}
	}

	sub.Tier = tier
	sub.ProductLimit = limits.MaxProducts
	sub.IsActive = true
	if tier == models.TierFree {
		sub.EndsAt = nil
	} else {
		ends := s.now().AddDate(1, 0, 0)
		sub.EndsAt = &ends
	}
	return s.repo.SaveSubscription(sub)
}

// DegradeToFree drops the user to the free tier. The expiry sweep calls this
// once per expired subscription.
func (s *Service) DegradeToFree(userID uint) error {
	return s.ChangePlan(userID, models.TierFree)
}

// ExpireDue degrades every user whose paid subscription has lapsed. Returns
// the number of subscriptions processed.
func (s *Service) ExpireDue(limit int) (int, error) {
	subs, err := s.repo.ListExpiredSubscriptions(limit)
	if err != nil {
		return 0, err
	}
	for i, sub := range subs {
		if err := s.DegradeToFree(sub.UserID); err != nil {
			return i, err
		}
	}
	return len(subs), nil
}

// cascade deactivates over-quota businesses oldest first, then trims each
// business's product list to the new limit.
func (s *Service) cascade(userID uint, limits Limits) error {
	businesses, err := s.repo.ListActiveBusinessesWithCounts(userID)
	if err != nil {
		return err
	}

	remaining := businesses
	if len(businesses) > limits.MaxBusinesses {
		excess := businesses[:len(businesses)-limits.MaxBusinesses]
		remaining = businesses[len(businesses)-limits.MaxBusinesses:]

		ids := make([]uint, 0, len(excess))
		for _, b := range excess {
			ids = append(ids, b.BusinessID)
		}
		if err := s.repo.DeactivateBusinesses(ids); err != nil {
			return err
		}
		// Deactivated businesses still get their product lists trimmed so a
		// later re-activation cannot resurface an over-quota product set.
		for _, b := range excess {
			if b.ProductCount > limits.MaxProducts {
				if err := s.trimProducts(b.BusinessID, limits.MaxProducts); err != nil {
					return err
				}
			}
		}
	}

	for _, b := range remaining {
		if b.ProductCount > limits.MaxProducts {
			if err := s.trimProducts(b.BusinessID, limits.MaxProducts); err != nil {
				return err
			}
		}
	}
	return nil
}

// trimProducts deactivates the oldest products above max, as one bulk update.
func (s *Service) trimProducts(businessID uint, max int) error {
	ids, err := s.repo.ListActiveProductIDs(businessID)
	if err != nil {
		return err
	}
	if len(ids) <= max {
		return nil
	}
	return s.repo.DeactivateProducts(ids[:len(ids)-max])
}
