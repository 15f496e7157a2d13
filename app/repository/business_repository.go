package repository

import (
	"strings"

	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// businessRepository implements the BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository instance
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business in the database
func (r *businessRepository) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

// GetByID retrieves a business by its ID
func (r *businessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetByUserID retrieves all businesses owned by a user, oldest first
func (r *businessRepository) GetByUserID(userID uint) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&businesses).Error
	return businesses, err
}

// NameExistsForUser reports whether the owner already has a business with the name.
// Uniqueness is scoped per owner, not global.
func (r *businessRepository) NameExistsForUser(userID uint, name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Business{}).
		Where("user_id = ? AND name = ?", userID, strings.TrimSpace(name)).
		Count(&count).Error
	return count > 0, err
}

// List retrieves a paginated list of businesses
func (r *businessRepository) List(offset, limit int) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&businesses).Error
	return businesses, err
}

// ListActive retrieves a paginated list of active businesses
func (r *businessRepository) ListActive(offset, limit int) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Where("is_active = ?", true).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&businesses).Error
	return businesses, err
}

// Update updates an existing business in the database
func (r *businessRepository) Update(business *models.Business) error {
	return r.db.Save(business).Error
}

// Delete hard deletes a business; only explicit owner action reaches this
func (r *businessRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Business{}, id).Error
}

// Count returns the total number of businesses
func (r *businessRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Count(&count).Error
	return count, err
}

// CountByUserID returns the number of businesses owned by a user
func (r *businessRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
