package discount

import (
	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the token service.
type Repository interface {
	GetBusiness(id uint) (*models.Business, error)
	GetProduct(id uint) (*models.Product, error)
	GetToken(id uint) (*models.DiscountToken, error)
	GetTokenByCode(code string) (*models.DiscountToken, error)
	CodeExists(code string) (bool, error)
	CreateToken(token *models.DiscountToken) error
	// CreateUseIfAvailable consumes one use of the token and records the
	// TokenUse in a single atomic unit. Returns ErrConflict when the guarded
	// increment finds no remaining uses.
	CreateUseIfAvailable(token *models.DiscountToken, use *models.TokenUse) error
	GetTokenUse(id uint) (*models.TokenUse, error)
	SaveTokenUse(use *models.TokenUse) error
	ListTokensByBusiness(businessID uint) ([]models.DiscountToken, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a token repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetBusiness(id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *gormRepository) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) GetToken(id uint) (*models.DiscountToken, error) {
	var token models.DiscountToken
	if err := r.db.First(&token, id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormRepository) GetTokenByCode(code string) (*models.DiscountToken, error) {
	var token models.DiscountToken
	if err := r.db.Where("code = ?", code).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.DiscountToken{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) CreateToken(token *models.DiscountToken) error {
	return r.db.Create(token).Error
}

func (r *gormRepository) CreateUseIfAvailable(token *models.DiscountToken, use *models.TokenUse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Guarded increment: the WHERE clause re-checks the cap inside the
		// transaction so two racing redeemers can never both pass max_uses.
		res := tx.Model(&models.DiscountToken{}).
			Where("id = ? AND (max_uses = 0 OR uses_count < max_uses)", token.ID).
			Update("uses_count", gorm.Expr("uses_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		if err := tx.Create(use).Error; err != nil {
			return err
		}
		token.UsesCount++
		return nil
	})
}

func (r *gormRepository) GetTokenUse(id uint) (*models.TokenUse, error) {
	var use models.TokenUse
	if err := r.db.First(&use, id).Error; err != nil {
		return nil, err
	}
	return &use, nil
}

func (r *gormRepository) SaveTokenUse(use *models.TokenUse) error {
	return r.db.Save(use).Error
}

func (r *gormRepository) ListTokensByBusiness(businessID uint) ([]models.DiscountToken, error) {
	var tokens []models.DiscountToken
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}
