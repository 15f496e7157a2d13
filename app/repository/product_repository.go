package repository

import (
	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByBusinessID retrieves a paginated list of a business's products
func (r *productRepository) GetByBusinessID(businessID uint, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, err
}

// GetByCategory retrieves active products within a category
func (r *productRepository) GetByCategory(categoryID uint, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, err
}

// Update updates an existing product in the database
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete hard deletes a product; only explicit owner action reaches this
func (r *productRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Product{}, id).Error
}

// CountByBusinessID returns the number of products under a business
func (r *productRepository) CountByBusinessID(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("business_id = ?", businessID).Count(&count).Error
	return count, err
}
