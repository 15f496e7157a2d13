package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
)

type fakeBusiness struct {
	id     uint
	userID uint
	active bool
}

type fakeProduct struct {
	id     uint
	active bool
}

// fakeRepo is an in-memory Repository. Businesses and products keep insertion
// order, which stands in for created_at ASC ordering.
type fakeRepo struct {
	users      map[uint]*models.User
	subs       map[uint]*models.Subscription
	businesses []*fakeBusiness
	products   map[uint][]*fakeProduct
	nextSubID  uint
	listCalls  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[uint]*models.User{},
		subs:      map[uint]*models.Subscription{},
		products:  map[uint][]*fakeProduct{},
		nextSubID: 1,
	}
}

func (r *fakeRepo) addUser(id uint) {
	r.users[id] = &models.User{ID: id, Status: models.STATUS_ACTIVE}
}

func (r *fakeRepo) addBusiness(id, userID uint) {
	r.businesses = append(r.businesses, &fakeBusiness{id: id, userID: userID, active: true})
}

func (r *fakeRepo) addProducts(businessID uint, ids ...uint) {
	for _, id := range ids {
		r.products[businessID] = append(r.products[businessID], &fakeProduct{id: id, active: true})
	}
}

func (r *fakeRepo) business(id uint) *fakeBusiness {
	for _, b := range r.businesses {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (r *fakeRepo) GetUser(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetBusiness(id uint) (*models.Business, error) {
	b := r.business(id)
	if b == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Business{ID: b.id, UserID: b.userID, IsActive: b.active}, nil
}

func (r *fakeRepo) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	if sub, ok := r.subs[userID]; ok {
		return sub, nil
	}
	sub := &models.Subscription{
		ID:           r.nextSubID,
		UserID:       userID,
		Tier:         models.TierFree,
		ProductLimit: 10,
		IsActive:     true,
	}
	r.nextSubID++
	r.subs[userID] = sub
	return sub, nil
}

func (r *fakeRepo) SaveSubscription(sub *models.Subscription) error {
	r.subs[sub.UserID] = sub
	return nil
}

func (r *fakeRepo) CountActiveBusinesses(userID uint) (int64, error) {
	var count int64
	for _, b := range r.businesses {
		if b.userID == userID && b.active {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CountActiveProducts(businessID uint) (int64, error) {
	var count int64
	for _, p := range r.products[businessID] {
		if p.active {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) ListActiveBusinessesWithCounts(userID uint) ([]BusinessProducts, error) {
	r.listCalls++
	var out []BusinessProducts
	for _, b := range r.businesses {
		if b.userID != userID || !b.active {
			continue
		}
		count, _ := r.CountActiveProducts(b.id)
		out = append(out, BusinessProducts{BusinessID: b.id, ProductCount: int(count)})
	}
	return out, nil
}

func (r *fakeRepo) ListActiveProductIDs(businessID uint) ([]uint, error) {
	var ids []uint
	for _, p := range r.products[businessID] {
		if p.active {
			ids = append(ids, p.id)
		}
	}
	return ids, nil
}

func (r *fakeRepo) DeactivateBusinesses(ids []uint) error {
	for _, id := range ids {
		if b := r.business(id); b != nil {
			b.active = false
		}
	}
	return nil
}

func (r *fakeRepo) DeactivateProducts(ids []uint) error {
	set := map[uint]bool{}
	for _, id := range ids {
		set[id] = true
	}
	for _, ps := range r.products {
		for _, p := range ps {
			if set[p.id] {
				p.active = false
			}
		}
	}
	return nil
}

func (r *fakeRepo) ListExpiredSubscriptions(limit int) ([]models.Subscription, error) {
	now := time.Now()
	var out []models.Subscription
	for _, sub := range r.subs {
		if sub.IsActive && sub.Tier != models.TierFree && sub.HasExpired(now) {
			out = append(out, *sub)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGetOrCreateSubscriptionDefaultsToFree(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	svc := newTestService(repo)

	sub, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, sub.Tier)
	assert.True(t, sub.IsActive)

	again, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
}

func TestGetOrCreateSubscriptionUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.GetOrCreateSubscription(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCanCreateBusinessBoundary(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	svc := newTestService(repo)

	d, err := svc.CanCreateBusiness(1)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Max)
	assert.Equal(t, 0, d.Current)

	repo.addBusiness(10, 1)

	d, err = svc.CanCreateBusiness(1)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.Current)
	assert.NotEmpty(t, d.Reason)
}

func TestCanCreateBusinessIgnoresInactive(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	repo.addBusiness(10, 1)
	repo.business(10).active = false
	svc := newTestService(repo)

	d, err := svc.CanCreateBusiness(1)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Current)
}

func TestCanCreateProductBoundary(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	repo.addBusiness(10, 1)
	repo.subs[1] = &models.Subscription{ID: 1, UserID: 1, Tier: models.TierBasic, IsActive: true}
	svc := newTestService(repo)

	for i := uint(1); i <= 49; i++ {
		repo.addProducts(10, i)
	}

	d, err := svc.CanCreateProduct(1, 10)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 49, d.Current)
	assert.Equal(t, 50, d.Max)

	repo.addProducts(10, 50)

	d, err = svc.CanCreateProduct(1, 10)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
}

func TestChangePlanUnknownTier(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	svc := newTestService(repo)

	err := svc.ChangePlan(1, "gold")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestChangePlanUpgradeSetsWindow(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	svc := newTestService(repo)

	require.NoError(t, svc.ChangePlan(1, models.TierPremium))

	sub := repo.subs[1]
	assert.Equal(t, models.TierPremium, sub.Tier)
	assert.Equal(t, 1000, sub.ProductLimit)
	require.NotNil(t, sub.EndsAt)
	assert.Equal(t, svc.now().AddDate(1, 0, 0), *sub.EndsAt)
}

func TestChangePlanUpgradeSkipsCascade(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	repo.subs[1] = &models.Subscription{ID: 1, UserID: 1, Tier: models.TierBasic, IsActive: true}
	repo.addBusiness(10, 1)
	repo.addBusiness(20, 1)
	svc := newTestService(repo)

	require.NoError(t, svc.ChangePlan(1, models.TierPremium))
	assert.Equal(t, 0, repo.listCalls, "upgrades must not walk owned collections")
	active, _ := repo.CountActiveBusinesses(1)
	assert.EqualValues(t, 2, active)

	require.NoError(t, svc.ChangePlan(1, models.TierPremium))
	assert.Equal(t, 1, repo.listCalls, "same-tier calls re-derive from current counts")
}

func TestChangePlanDowngradeCascade(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	repo.subs[1] = &models.Subscription{ID: 1, UserID: 1, Tier: models.TierPremium, IsActive: true}

	// Oldest first: 10, 20, 30. Free tier keeps one business, ten products.
	repo.addBusiness(10, 1)
	repo.addBusiness(20, 1)
	repo.addBusiness(30, 1)
	for i := uint(100); i < 112; i++ {
		repo.addProducts(10, i)
	}
	for i := uint(300); i < 312; i++ {
		repo.addProducts(30, i)
	}

	svc := newTestService(repo)
	require.NoError(t, svc.ChangePlan(1, models.TierFree))

	assert.False(t, repo.business(10).active)
	assert.False(t, repo.business(20).active)
	assert.True(t, repo.business(30).active, "newest business survives the downgrade")

	// The surviving business keeps its ten newest products.
	ids, _ := repo.ListActiveProductIDs(30)
	require.Len(t, ids, 10)
	assert.Equal(t, uint(302), ids[0])
	assert.Equal(t, uint(311), ids[9])

	// Deactivated businesses are trimmed too.
	ids, _ = repo.ListActiveProductIDs(10)
	assert.Len(t, ids, 10)

	sub := repo.subs[1]
	assert.Equal(t, models.TierFree, sub.Tier)
	assert.Nil(t, sub.EndsAt)
}

func TestChangePlanIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	repo.subs[1] = &models.Subscription{ID: 1, UserID: 1, Tier: models.TierBasic, IsActive: true}
	repo.addBusiness(10, 1)
	repo.addBusiness(20, 1)
	svc := newTestService(repo)

	require.NoError(t, svc.ChangePlan(1, models.TierFree))
	active, _ := repo.CountActiveBusinesses(1)
	require.EqualValues(t, 1, active)

	require.NoError(t, svc.ChangePlan(1, models.TierFree))
	again, _ := repo.CountActiveBusinesses(1)
	assert.EqualValues(t, 1, again)
	assert.True(t, repo.business(20).active)
}

func TestExpireDueDegradesLapsedSubscriptions(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(1)
	past := time.Now().Add(-time.Hour)
	repo.subs[1] = &models.Subscription{ID: 1, UserID: 1, Tier: models.TierPremium, IsActive: true, EndsAt: &past}
	repo.addBusiness(10, 1)
	repo.addBusiness(20, 1)
	svc := newTestService(repo)

	n, err := svc.ExpireDue(100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.TierFree, repo.subs[1].Tier)

	active, _ := repo.CountActiveBusinesses(1)
	assert.EqualValues(t, 1, active)
}

func TestDegradeToFreeUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())
	err := svc.DegradeToFree(42)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
