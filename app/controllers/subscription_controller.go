package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/subscription"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type changePlanRequest struct {
	Tier string `json:"tier"`
}

// HandleGetSubscription returns the caller's current plan with limits and usage.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := subscription.NewServiceFromDB(database.GetDB())
	sub, err := svc.GetOrCreateSubscription(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription")
	}

	businessDecision, err := svc.CanCreateBusiness(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to evaluate plan limits")
	}

	limits := subscription.LimitsForTier(sub.Tier)
	return c.JSON(fiber.Map{
		"tier":           sub.Tier,
		"is_active":      sub.IsActive,
		"payment_status": sub.PaymentStatus,
		"starts_at":      formatTimePtr(sub.StartsAt),
		"ends_at":        formatTimePtr(sub.EndsAt),
		"limits": fiber.Map{
			"max_businesses": limits.MaxBusinesses,
			"max_products":   limits.MaxProducts,
		},
		"usage": fiber.Map{
			"businesses": businessDecision.Current,
		},
	})
}

// HandleListPlans returns the plan catalog with each tier's quotas.
func HandleListPlans(c *fiber.Ctx) error {
	tiers := []string{models.TierFree, models.TierBasic, models.TierPremium, models.TierEnterprise}
	plans := make([]fiber.Map, 0, len(tiers))
	for _, tier := range tiers {
		limits := subscription.LimitsForTier(tier)
		plans = append(plans, fiber.Map{
			"tier":           tier,
			"max_businesses": limits.MaxBusinesses,
			"max_products":   limits.MaxProducts,
		})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandleChangePlan moves the caller to a new tier, running the downgrade
// cascade when the new tier is smaller.
func HandleChangePlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req changePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	if err := svc.ChangePlan(userCtx.UserID, req.Tier); err != nil {
		switch {
		case errors.Is(err, subscription.ErrUnknownTier):
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to change plan")
		}
	}

	return HandleGetSubscription(c)
}
