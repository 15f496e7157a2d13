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

type businessRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
}

// HandleListBusinesses returns active businesses, paginated.
func HandleListBusinesses(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)
	repo := repository.GetGlobalFactory().GetBusinessRepository()
	businesses, err := repo.ListActive(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load businesses")
	}
	return c.JSON(fiber.Map{"businesses": businesses, "offset": offset, "limit": limit})
}

// HandleGetBusiness returns one business together with its rating summary.
func HandleGetBusiness(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	factory := repository.GetGlobalFactory()
	business, err := factory.GetBusinessRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Business not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load business")
	}

	avg, count, err := factory.GetRatingRepository().AverageForBusiness(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load ratings")
	}

	return c.JSON(fiber.Map{
		"business": business,
		"rating": fiber.Map{
			"average": avg,
			"count":   count,
		},
	})
}

// HandleMyBusinesses returns every business the caller owns, active or not.
func HandleMyBusinesses(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetBusinessRepository()
	businesses, err := repo.GetByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load businesses")
	}
	return c.JSON(fiber.Map{"businesses": businesses})
}

// HandleCreateBusiness creates a business for the caller, subject to the
// subscription quota.
func HandleCreateBusiness(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req businessRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	limitSvc := subscription.NewServiceFromDB(database.GetDB())
	decision, err := limitSvc.CanCreateBusiness(userCtx.UserID)
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

	repo := repository.GetGlobalFactory().GetBusinessRepository()
	exists, err := repo.NameExistsForUser(userCtx.UserID, req.Name)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check business name")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "You already have a business with this name")
	}

	business := &models.Business{
		UserID:      userCtx.UserID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		IsActive:    true,
	}
	if err := business.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := repo.Create(business); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create business")
	}

	return c.Status(fiber.StatusCreated).JSON(business)
}

// HandleUpdateBusiness updates a business the caller owns.
func HandleUpdateBusiness(c *fiber.Ctx) error {
	business, status := resolveOwnedBusiness(c)
	if business == nil {
		return status
	}

	var req businessRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		business.Name = req.Name
	}
	business.Description = req.Description
	business.Address = req.Address
	business.Latitude = req.Latitude
	business.Longitude = req.Longitude
	business.Phone = req.Phone
	business.Email = req.Email
	if err := business.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetBusinessRepository().Update(business); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update business")
	}
	return c.JSON(business)
}

// HandleDeleteBusiness hard deletes a business the caller owns.
func HandleDeleteBusiness(c *fiber.Ctx) error {
	business, status := resolveOwnedBusiness(c)
	if business == nil {
		return status
	}

	if err := repository.GetGlobalFactory().GetBusinessRepository().Delete(business.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete business")
	}
	return c.JSON(fiber.Map{"message": "business deleted"})
}

// resolveOwnedBusiness loads the :id business and enforces ownership. On
// failure it returns (nil, alreadyWrittenResponse).
func resolveOwnedBusiness(c *fiber.Ctx) (*models.Business, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	factory := repository.GetGlobalFactory()
	business, err := factory.GetBusinessRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Business not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load business")
	}

	userCtx := usercontext.GetUserContext(c)
	user, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Unknown user")
	}
	if !authz.CanManageBusiness(user, business) {
		return nil, jsonError(c, fiber.StatusForbidden, "forbidden", "You do not own this business")
	}
	return business, nil
}
