package discount

import (
	"fmt"
	"strings"
	"time"

	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

const codeGenerationAttempts = 5

// GenerateParams are the issuer-supplied attributes of a new token.
type GenerateParams struct {
	ProductID     *uint
	DiscountType  string
	DiscountValue float64
	MinPurchase   float64
	MaxUses       int
	ValidDays     int
	Description   string
}

// Service issues shareable discount codes and runs the two-phase redemption:
// a holder redeems the token and receives a confirmation code, which the
// business later confirms.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a token service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a token service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Generate issues a new token for the business. The optional product scope
// must belong to the same business. Codes retry on collision a bounded number
// of times.
func (s *Service) Generate(businessID, issuerID uint, p GenerateParams) (*models.DiscountToken, error) {
	if _, err := s.repo.GetBusiness(businessID); err != nil {
		return nil, err
	}

	if err := s.validateParams(businessID, p); err != nil {
		return nil, err
	}

	code, err := s.uniqueCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	token := &models.DiscountToken{
		BusinessID:    businessID,
		ProductID:     p.ProductID,
		CreatedBy:     issuerID,
		Code:          code,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		MinPurchase:   p.MinPurchase,
		MaxUses:       p.MaxUses,
		UsesCount:     0,
		ValidFrom:     now,
		ValidUntil:    now.AddDate(0, 0, p.ValidDays),
		IsActive:      true,
		Description:   p.Description,
	}
	if err := s.repo.CreateToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// ListForBusiness returns every token issued for a business, newest first.
func (s *Service) ListForBusiness(businessID uint) ([]models.DiscountToken, error) {
	if _, err := s.repo.GetBusiness(businessID); err != nil {
		return nil, err
	}
	return s.repo.ListTokensByBusiness(businessID)
}

// Lookup resolves a token by its shareable code.
func (s *Service) Lookup(code string) (*models.DiscountToken, error) {
	return s.repo.GetTokenByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// Redeem consumes one use of the token identified by code. The redeeming user
// is optional: holders may redeem unauthenticated. Fails with ErrInvalidState
// unless the token evaluates to Active, and with ErrConflict when a
// concurrent redemption takes the last use first.
func (s *Service) Redeem(code string, redeemingUserID *uint) (*models.TokenUse, error) {
	token, err := s.Lookup(code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if state := Evaluate(token, now); state != StateActive {
		return nil, fmt.Errorf("%w: token is %s", ErrInvalidState, state)
	}

	use := &models.TokenUse{
		TokenID: token.ID,
		UserID:  redeemingUserID,
		UsedAt:  now,
	}
	if err := s.repo.CreateUseIfAvailable(token, use); err != nil {
		return nil, err
	}
	return use, nil
}

// IssueConfirmationCode generates and stores the 8-character code the holder
// hands to the business. Confirmation itself happens later via
// ConfirmRedemption; this only stages the code. Once the redemption is
// confirmed no further code can be issued.
func (s *Service) IssueConfirmationCode(tokenUseID uint) (string, error) {
	use, err := s.repo.GetTokenUse(tokenUseID)
	if err != nil {
		return "", err
	}
	if use.IsConfirmed() {
		return "", fmt.Errorf("%w: redemption already confirmed", ErrInvalidState)
	}

	code, err := NewConfirmationCode()
	if err != nil {
		return "", err
	}
	use.BusinessConfirmationCode = code
	if err := s.repo.SaveTokenUse(use); err != nil {
		return "", err
	}
	return code, nil
}

// ConfirmRedemption acknowledges a specific redemption on behalf of the
// business. The caller must own the token's business, the TokenUse is
// addressed by its identifier, and the submitted code must match the staged
// one. Sets confirmed_at on success.
func (s *Service) ConfirmRedemption(callerUserID, tokenUseID uint, submittedCode string) error {
	use, err := s.repo.GetTokenUse(tokenUseID)
	if err != nil {
		return err
	}
	token, err := s.repo.GetToken(use.TokenID)
	if err != nil {
		return err
	}
	business, err := s.repo.GetBusiness(token.BusinessID)
	if err != nil {
		return err
	}

	if business.UserID != callerUserID {
		return ErrUnauthorized
	}
	submitted := strings.ToUpper(strings.TrimSpace(submittedCode))
	if use.BusinessConfirmationCode == "" || submitted != use.BusinessConfirmationCode {
		return ErrInvalidCode
	}

	now := s.now()
	use.ConfirmedAt = &now
	return s.repo.SaveTokenUse(use)
}

func (s *Service) validateParams(businessID uint, p GenerateParams) error {
	switch p.DiscountType {
	case models.DiscountTypePercentage, models.DiscountTypeFixed:
	default:
		return fmt.Errorf("%w: discount_type must be percentage or fixed", ErrValidation)
	}
	if p.DiscountValue <= 0 {
		return fmt.Errorf("%w: discount_value must be positive", ErrValidation)
	}
	if p.DiscountType == models.DiscountTypePercentage && p.DiscountValue > 100 {
		return fmt.Errorf("%w: percentage discount cannot exceed 100", ErrValidation)
	}
	if p.MinPurchase < 0 {
		return fmt.Errorf("%w: min_purchase cannot be negative", ErrValidation)
	}
	if p.MaxUses < 0 {
		return fmt.Errorf("%w: max_uses cannot be negative", ErrValidation)
	}
	if p.ValidDays < 1 || p.ValidDays > 365 {
		return fmt.Errorf("%w: valid_days must be between 1 and 365", ErrValidation)
	}

	if p.ProductID != nil {
		product, err := s.repo.GetProduct(*p.ProductID)
		if err != nil {
			return err
		}
		if product.BusinessID != businessID {
			return ErrInvalidAssociation
		}
	}
	return nil
}

func (s *Service) uniqueCode() (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code, err := NewTokenCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}
