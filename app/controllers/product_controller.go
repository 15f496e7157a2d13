package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/app/repository"
	"github.com/localmart/localmart/internal/pkg/authz"
	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/subscription"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  *uint   `json:"category_id"`
	ImageURL    string  `json:"image_url"`
}

// HandleListBusinessProducts returns a business's products, paginated.
func HandleListBusinessProducts(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	offset, limit := paginationParams(c)

	repo := repository.GetGlobalFactory().GetProductRepository()
	products, err := repo.GetByBusinessID(businessID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load products")
	}
	return c.JSON(fiber.Map{"products": products, "offset": offset, "limit": limit})
}

// HandleGetProduct returns one product with its rating summary.
func HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	factory := repository.GetGlobalFactory()
	product, err := factory.GetProductRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}

	avg, count, err := factory.GetRatingRepository().AverageForProduct(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load ratings")
	}

	return c.JSON(fiber.Map{
		"product": product,
		"rating": fiber.Map{
			"average": avg,
			"count":   count,
		},
	})
}

// HandleCreateProduct creates a product under the caller's business, subject
// to the subscription quota.
func HandleCreateProduct(c *fiber.Ctx) error {
	business, status := resolveOwnedBusiness(c)
	if business == nil {
		return status
	}
	userCtx := usercontext.GetUserContext(c)

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	limitSvc := subscription.NewServiceFromDB(database.GetDB())
	decision, err := limitSvc.CanCreateProduct(userCtx.UserID, business.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to evaluate plan limits")
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "quota_exceeded",
			"message": decision.Reason,
			"max":     decision.Max,
			"current": decision.Current,
		})
	}

	product := &models.Product{
		BusinessID:  business.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Create(product); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a product under the caller's business.
func HandleUpdateProduct(c *fiber.Ctx) error {
	product, status := resolveOwnedProduct(c)
	if product == nil {
		return status
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.ImageURL = req.ImageURL
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Update(product); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct hard deletes a product under the caller's business.
func HandleDeleteProduct(c *fiber.Ctx) error {
	product, status := resolveOwnedProduct(c)
	if product == nil {
		return status
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Delete(product.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete product")
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// HandleListCategories returns the category catalog.
func HandleListCategories(c *fiber.Ctx) error {
	categories, err := repository.GetGlobalFactory().GetCategoryRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// resolveOwnedProduct loads the :id product and enforces ownership through
// its business.
func resolveOwnedProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	factory := repository.GetGlobalFactory()
	product, err := factory.GetProductRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}

	business, err := factory.GetBusinessRepository().GetByID(product.BusinessID)
	if err != nil {
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load business")
	}

	userCtx := usercontext.GetUserContext(c)
	user, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Unknown user")
	}
	if !authz.CanManageProduct(user, business, product) {
		return nil, jsonError(c, fiber.StatusForbidden, "forbidden", "You do not own this product")
	}
	return product, nil
}
