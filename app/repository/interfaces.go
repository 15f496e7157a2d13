package repository

import (
	"github.com/localmart/localmart/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// BusinessRepository defines the interface for business-related database operations
type BusinessRepository interface {
	Create(business *models.Business) error
	GetByID(id uint) (*models.Business, error)
	GetByUserID(userID uint) ([]models.Business, error)
	NameExistsForUser(userID uint, name string) (bool, error)
	List(offset, limit int) ([]models.Business, error)
	ListActive(offset, limit int) ([]models.Business, error)
	Update(business *models.Business) error
	Delete(id uint) error
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
}

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByBusinessID(businessID uint, offset, limit int) ([]models.Product, error)
	GetByCategory(categoryID uint, offset, limit int) ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	CountByBusinessID(businessID uint) (int64, error)
}

// CategoryRepository defines the interface for category lookups
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
}

// RatingRepository defines the interface for rating operations
type RatingRepository interface {
	Upsert(rating *models.Rating) error
	GetByBusinessID(businessID uint, offset, limit int) ([]models.Rating, error)
	GetByProductID(productID uint, offset, limit int) ([]models.Rating, error)
	AverageForBusiness(businessID uint) (float64, int64, error)
	AverageForProduct(productID uint) (float64, int64, error)
}

// MessageRepository defines the interface for messaging operations
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Inbox(userID uint, offset, limit int) ([]models.Message, error)
	Thread(userA, userB uint, offset, limit int) ([]models.Message, error)
	MarkRead(id uint) error
	CountUnread(userID uint) (int64, error)
}

// DeviceRepository defines the interface for IoT device records
type DeviceRepository interface {
	Create(device *models.Device) error
	GetByID(id uint) (*models.Device, error)
	GetBySerial(serial string) (*models.Device, error)
	GetByUserID(userID uint) ([]models.Device, error)
	Update(device *models.Device) error
	Delete(id uint) error
}
