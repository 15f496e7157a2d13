package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/discount"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type generateTokenRequest struct {
	ProductID     *uint   `json:"product_id"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	MinPurchase   float64 `json:"min_purchase"`
	MaxUses       int     `json:"max_uses"`
	ValidDays     int     `json:"valid_days"`
	Description   string  `json:"description"`
}

type confirmRedemptionRequest struct {
	Code string `json:"code"`
}

// HandleGenerateToken issues a discount token for a business the caller owns.
func HandleGenerateToken(c *fiber.Ctx) error {
	business, status := resolveOwnedBusiness(c)
	if business == nil {
		return status
	}
	userCtx := usercontext.GetUserContext(c)

	var req generateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	svc := discount.NewServiceFromDB(database.GetDB())
	token, err := svc.Generate(business.ID, userCtx.UserID, discount.GenerateParams{
		ProductID:     req.ProductID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		MaxUses:       req.MaxUses,
		ValidDays:     req.ValidDays,
		Description:   req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, discount.ErrValidation):
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
		case errors.Is(err, discount.ErrInvalidAssociation):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_association", err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Referenced product not found")
		case errors.Is(err, discount.ErrCodeGenerationExhausted):
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", err.Error())
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to generate token")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(token)
}

// HandleListBusinessTokens returns every token a business has issued.
func HandleListBusinessTokens(c *fiber.Ctx) error {
	business, status := resolveOwnedBusiness(c)
	if business == nil {
		return status
	}

	svc := discount.NewServiceFromDB(database.GetDB())
	tokens, err := svc.ListForBusiness(business.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tokens")
	}

	now := time.Now()
	result := make([]fiber.Map, 0, len(tokens))
	for i := range tokens {
		result = append(result, fiber.Map{
			"token": tokens[i],
			"state": discount.Evaluate(&tokens[i], now),
		})
	}
	return c.JSON(fiber.Map{"tokens": result})
}

// HandleTokenStatus returns a token's current state by its shareable code.
// Public so a holder can check a code before heading to the store.
func HandleTokenStatus(c *fiber.Ctx) error {
	svc := discount.NewServiceFromDB(database.GetDB())
	token, err := svc.Lookup(c.Params("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Token not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load token")
	}

	return c.JSON(fiber.Map{
		"code":           token.Code,
		"state":          discount.Evaluate(token, time.Now()),
		"discount_type":  token.DiscountType,
		"discount_value": token.DiscountValue,
		"min_purchase":   token.MinPurchase,
		"valid_from":     token.ValidFrom.UTC().Format(time.RFC3339),
		"valid_until":    token.ValidUntil.UTC().Format(time.RFC3339),
	})
}

// HandleRedeemToken consumes one use of a token. Authentication is optional:
// anonymous holders may redeem.
func HandleRedeemToken(c *fiber.Ctx) error {
	var redeemer *uint
	if userCtx := usercontext.GetUserContext(c); userCtx.IsLoggedIn {
		id := userCtx.UserID
		redeemer = &id
	}

	svc := discount.NewServiceFromDB(database.GetDB())
	use, err := svc.Redeem(c.Params("code"), redeemer)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Token not found")
		case errors.Is(err, discount.ErrInvalidState):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_state", err.Error())
		case errors.Is(err, discount.ErrConflict):
			return jsonError(c, fiber.StatusConflict, "conflict", err.Error())
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to redeem token")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token_use_id": use.ID,
		"used_at":      use.UsedAt.UTC().Format(time.RFC3339),
	})
}

// HandleIssueConfirmation stages the confirmation code for a redemption. The
// holder shows this code to the business.
func HandleIssueConfirmation(c *fiber.Ctx) error {
	useID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	svc := discount.NewServiceFromDB(database.GetDB())
	code, err := svc.IssueConfirmationCode(useID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Redemption not found")
		case errors.Is(err, discount.ErrInvalidState):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_state", err.Error())
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue confirmation code")
		}
	}

	return c.JSON(fiber.Map{"confirmation_code": code})
}

// HandleConfirmRedemption acknowledges a redemption on behalf of the business.
func HandleConfirmRedemption(c *fiber.Ctx) error {
	useID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req confirmRedemptionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	userCtx := usercontext.GetUserContext(c)
	svc := discount.NewServiceFromDB(database.GetDB())
	if err := svc.ConfirmRedemption(userCtx.UserID, useID, req.Code); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Redemption not found")
		case errors.Is(err, discount.ErrUnauthorized):
			return jsonError(c, fiber.StatusForbidden, "forbidden", err.Error())
		case errors.Is(err, discount.ErrInvalidCode):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_code", err.Error())
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to confirm redemption")
		}
	}

	return c.JSON(fiber.Map{"message": "redemption confirmed"})
}
