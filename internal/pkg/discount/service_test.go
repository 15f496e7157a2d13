package discount

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
)

// fakeTokenRepo is an in-memory Repository. CreateUseIfAvailable takes a
// mutex so the concurrency test exercises the same guarantee the guarded SQL
// update gives in production.
type fakeTokenRepo struct {
	mu         sync.Mutex
	businesses map[uint]*models.Business
	products   map[uint]*models.Product
	tokens     map[uint]*models.DiscountToken
	byCode     map[string]uint
	uses       map[uint]*models.TokenUse
	nextToken  uint
	nextUse    uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		businesses: map[uint]*models.Business{},
		products:   map[uint]*models.Product{},
		tokens:     map[uint]*models.DiscountToken{},
		byCode:     map[string]uint{},
		uses:       map[uint]*models.TokenUse{},
		nextToken:  1,
		nextUse:    1,
	}
}

func (r *fakeTokenRepo) GetBusiness(id uint) (*models.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeTokenRepo) GetProduct(id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeTokenRepo) GetToken(id uint) (*models.DiscountToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTokenRepo) GetTokenByCode(code string) (*models.DiscountToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.tokens[id]
	return &copied, nil
}

func (r *fakeTokenRepo) CodeExists(code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *fakeTokenRepo) CreateToken(token *models.DiscountToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.nextToken
	r.nextToken++
	copied := *token
	r.tokens[token.ID] = &copied
	r.byCode[token.Code] = token.ID
	return nil
}

func (r *fakeTokenRepo) CreateUseIfAvailable(token *models.DiscountToken, use *models.TokenUse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.MaxUses > 0 && stored.UsesCount >= stored.MaxUses {
		return ErrConflict
	}
	stored.UsesCount++
	use.ID = r.nextUse
	r.nextUse++
	copied := *use
	r.uses[use.ID] = &copied
	token.UsesCount++
	return nil
}

func (r *fakeTokenRepo) GetTokenUse(id uint) (*models.TokenUse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeTokenRepo) SaveTokenUse(use *models.TokenUse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *use
	r.uses[use.ID] = &copied
	return nil
}

func (r *fakeTokenRepo) ListTokensByBusiness(businessID uint) ([]models.DiscountToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DiscountToken
	for _, t := range r.tokens {
		if t.BusinessID == businessID {
			out = append(out, *t)
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTokenTestService(repo *fakeTokenRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedBusiness(repo *fakeTokenRepo, id, ownerID uint) {
	repo.businesses[id] = &models.Business{ID: id, UserID: ownerID, IsActive: true}
}

func validParams() GenerateParams {
	return GenerateParams{
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 15,
		MaxUses:       10,
		ValidDays:     30,
	}
}

func TestGenerate(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{4}-[A-Z0-9]{4}$`, token.Code)
	assert.Equal(t, uint(1), token.BusinessID)
	assert.Equal(t, uint(7), token.CreatedBy)
	assert.Equal(t, testNow, token.ValidFrom)
	assert.Equal(t, testNow.AddDate(0, 0, 30), token.ValidUntil)
	assert.True(t, token.IsActive)
	assert.Equal(t, 0, token.UsesCount)
}

func TestGenerateValidation(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	tests := []struct {
		name   string
		mutate func(*GenerateParams)
	}{
		{name: "bad discount type", mutate: func(p *GenerateParams) { p.DiscountType = "bogo" }},
		{name: "zero value", mutate: func(p *GenerateParams) { p.DiscountValue = 0 }},
		{name: "negative value", mutate: func(p *GenerateParams) { p.DiscountValue = -5 }},
		{name: "percentage above 100", mutate: func(p *GenerateParams) { p.DiscountValue = 120 }},
		{name: "negative min purchase", mutate: func(p *GenerateParams) { p.MinPurchase = -1 }},
		{name: "negative max uses", mutate: func(p *GenerateParams) { p.MaxUses = -1 }},
		{name: "zero valid days", mutate: func(p *GenerateParams) { p.ValidDays = 0 }},
		{name: "valid days above a year", mutate: func(p *GenerateParams) { p.ValidDays = 366 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := svc.Generate(1, 7, p)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGenerateFixedAbove100IsAllowed(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	p := validParams()
	p.DiscountType = models.DiscountTypeFixed
	p.DiscountValue = 250

	_, err := svc.Generate(1, 7, p)
	assert.NoError(t, err)
}

func TestGenerateProductScope(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	seedBusiness(repo, 2, 8)
	repo.products[40] = &models.Product{ID: 40, BusinessID: 1}
	repo.products[50] = &models.Product{ID: 50, BusinessID: 2}
	svc := newTokenTestService(repo)

	p := validParams()
	own := uint(40)
	p.ProductID = &own
	_, err := svc.Generate(1, 7, p)
	assert.NoError(t, err)

	foreign := uint(50)
	p.ProductID = &foreign
	_, err = svc.Generate(1, 7, p)
	assert.ErrorIs(t, err, ErrInvalidAssociation)
}

func TestLookupNormalizesCode(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)

	found, err := svc.Lookup("  " + strings.ToLower(token.Code) + " ")
	require.NoError(t, err)
	assert.Equal(t, token.ID, found.ID)
}

func TestRedeem(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)

	// Anonymous holders can redeem.
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)
	assert.Nil(t, use.UserID)
	assert.Equal(t, token.ID, use.TokenID)
	assert.Equal(t, testNow, use.UsedAt)
	assert.Nil(t, use.ConfirmedAt)

	stored, err := repo.GetToken(token.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsesCount)
}

func TestRedeemExhaustsSingleUseToken(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	p := validParams()
	p.MaxUses = 1
	token, err := svc.Generate(1, 7, p)
	require.NoError(t, err)

	stored, _ := repo.GetToken(token.ID)
	assert.Equal(t, StateActive, Evaluate(stored, testNow))

	_, err = svc.Redeem(token.Code, nil)
	require.NoError(t, err)

	stored, _ = repo.GetToken(token.ID)
	assert.Equal(t, StateExhausted, Evaluate(stored, testNow))

	_, err = svc.Redeem(token.Code, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRedeemRejectsNonActiveStates(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.AddDate(0, 0, 31) }
	_, err = svc.Redeem(token.Code, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	svc.now = func() time.Time { return testNow.Add(-time.Hour) }
	_, err = svc.Redeem(token.Code, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRedeemConcurrentSingleUse(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	p := validParams()
	p.MaxUses = 1
	token, err := svc.Generate(1, 7, p)
	require.NoError(t, err)

	const racers = 32
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(token.Code, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one redemption may win the last use")

	stored, err := repo.GetToken(token.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsesCount)
}

func TestIssueConfirmationCodeStagesOnly(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)

	code, err := svc.IssueConfirmationCode(use.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, code)

	stored, err := repo.GetTokenUse(use.ID)
	require.NoError(t, err)
	assert.Equal(t, code, stored.BusinessConfirmationCode)
	assert.Nil(t, stored.ConfirmedAt, "issuing a code must not confirm the redemption")
}

func TestIssueConfirmationCodeAfterConfirmFails(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)

	code, err := svc.IssueConfirmationCode(use.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmRedemption(7, use.ID, code))

	// A confirmed redemption is final; nobody can stage a fresh code over it.
	_, err = svc.IssueConfirmationCode(use.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := repo.GetTokenUse(use.ID)
	require.NoError(t, err)
	assert.Equal(t, code, stored.BusinessConfirmationCode)
}

func TestConfirmRedemption(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)
	code, err := svc.IssueConfirmationCode(use.ID)
	require.NoError(t, err)

	// Submitted codes are normalized before comparison.
	err = svc.ConfirmRedemption(7, use.ID, " "+strings.ToLower(code)+" ")
	require.NoError(t, err)

	stored, err := repo.GetTokenUse(use.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, testNow, *stored.ConfirmedAt)
}

func TestConfirmRedemptionWrongOwner(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)
	code, err := svc.IssueConfirmationCode(use.ID)
	require.NoError(t, err)

	// A correct code from the wrong account still fails.
	err = svc.ConfirmRedemption(99, use.ID, code)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, _ := repo.GetTokenUse(use.ID)
	assert.Nil(t, stored.ConfirmedAt)
}

func TestConfirmRedemptionWrongCode(t *testing.T) {
	repo := newFakeTokenRepo()
	seedBusiness(repo, 1, 7)
	svc := newTokenTestService(repo)

	token, err := svc.Generate(1, 7, validParams())
	require.NoError(t, err)
	use, err := svc.Redeem(token.Code, nil)
	require.NoError(t, err)

	// No code staged yet.
	err = svc.ConfirmRedemption(7, use.ID, "AAAABBBB")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.IssueConfirmationCode(use.ID)
	require.NoError(t, err)

	err = svc.ConfirmRedemption(7, use.ID, "WRONGCOD")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
