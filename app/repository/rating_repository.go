package repository

import (
	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingRepository implements the RatingRepository interface
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository instance
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert creates the rating or replaces the rater's existing one for the same
// business/product scope.
func (r *ratingRepository) Upsert(rating *models.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "business_id"},
			{Name: "product_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"stars",
			"comment",
			"updated_at",
		}),
	}).Create(rating).Error
}

// GetByBusinessID retrieves ratings left for a business
func (r *ratingRepository) GetByBusinessID(businessID uint, offset, limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&ratings).Error
	return ratings, err
}

// GetByProductID retrieves ratings pinned to a product
func (r *ratingRepository) GetByProductID(productID uint, offset, limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&ratings).Error
	return ratings, err
}

// AverageForBusiness returns the mean stars and rating count for a business
func (r *ratingRepository) AverageForBusiness(businessID uint) (float64, int64, error) {
	return r.average("business_id = ?", businessID)
}

// AverageForProduct returns the mean stars and rating count for a product
func (r *ratingRepository) AverageForProduct(productID uint) (float64, int64, error) {
	return r.average("product_id = ?", productID)
}

func (r *ratingRepository) average(cond string, arg uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(stars), 0) AS avg, COUNT(*) AS count").
		Where(cond, arg).
		Scan(&result).Error
	return result.Avg, result.Count, err
}
