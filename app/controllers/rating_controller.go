package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/app/repository"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type ratingRequest struct {
	Stars     int    `json:"stars"`
	Comment   string `json:"comment"`
	ProductID *uint  `json:"product_id"`
}

// HandleRateBusiness creates or replaces the caller's rating for a business,
// optionally pinned to one of its products.
func HandleRateBusiness(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)

	var req ratingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetBusinessRepository().GetByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Business not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load business")
	}

	if req.ProductID != nil {
		product, err := factory.GetProductRepository().GetByID(*req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
		}
		if product.BusinessID != businessID {
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_association", "Product does not belong to business")
		}
	}

	rating := &models.Rating{
		UserID:     userCtx.UserID,
		BusinessID: businessID,
		ProductID:  models.RatingScope(req.ProductID),
		Stars:      req.Stars,
		Comment:    req.Comment,
	}
	if err := rating.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := factory.GetRatingRepository().Upsert(rating); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save rating")
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleListBusinessRatings returns a business's ratings, paginated.
func HandleListBusinessRatings(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	offset, limit := paginationParams(c)

	factory := repository.GetGlobalFactory()
	ratings, err := factory.GetRatingRepository().GetByBusinessID(businessID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load ratings")
	}

	avg, count, err := factory.GetRatingRepository().AverageForBusiness(businessID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load rating summary")
	}

	return c.JSON(fiber.Map{
		"ratings": ratings,
		"average": avg,
		"count":   count,
	})
}
