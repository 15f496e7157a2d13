package subscription

import (
	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the limit service.
type Repository interface {
	GetUser(id uint) (*models.User, error)
	GetBusiness(id uint) (*models.Business, error)
	GetOrCreateSubscription(userID uint) (*models.Subscription, error)
	SaveSubscription(sub *models.Subscription) error
	CountActiveBusinesses(userID uint) (int64, error)
	CountActiveProducts(businessID uint) (int64, error)
	// ListActiveBusinessesWithCounts returns the user's active businesses with
	// their active product counts, oldest first (created_at ASC, id ASC).
	ListActiveBusinessesWithCounts(userID uint) ([]BusinessProducts, error)
	// ListActiveProductIDs returns active product IDs for a business, oldest
	// first (created_at ASC, id ASC).
	ListActiveProductIDs(businessID uint) ([]uint, error)
	DeactivateBusinesses(ids []uint) error
	DeactivateProducts(ids []uint) error
	// ListExpiredSubscriptions returns active non-free subscriptions whose
	// ends_at has passed; consumed by the expiry sweep.
	ListExpiredSubscriptions(limit int) ([]models.Subscription, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a limit repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetBusiness(id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *gormRepository) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	return models.GetOrCreateSubscription(r.db, userID)
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) CountActiveBusinesses(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CountActiveProducts(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) ListActiveBusinessesWithCounts(userID uint) ([]BusinessProducts, error) {
	var businesses []models.Business
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC, id ASC").
		Find(&businesses).Error
	if err != nil {
		return nil, err
	}

	result := make([]BusinessProducts, 0, len(businesses))
	for _, b := range businesses {
		count, err := r.CountActiveProducts(b.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, BusinessProducts{BusinessID: b.ID, ProductCount: int(count)})
	}
	return result, nil
}

func (r *gormRepository) ListActiveProductIDs(businessID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Product{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormRepository) DeactivateBusinesses(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Business{}).
		Where("id IN ?", ids).
		Update("is_active", false).Error
}

func (r *gormRepository) DeactivateProducts(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id IN ?", ids).
		Update("is_active", false).Error
}

func (r *gormRepository) ListExpiredSubscriptions(limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	q := r.db.Where("is_active = ? AND tier <> ? AND ends_at IS NOT NULL AND ends_at < NOW()", true, models.TierFree)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&subs).Error
	return subs, err
}
