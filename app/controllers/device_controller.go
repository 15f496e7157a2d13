package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/app/repository"
	"github.com/localmart/localmart/internal/pkg/activation"
	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type registerDeviceRequest struct {
	Serial   string `json:"serial"`
	Name     string `json:"name"`
	RelayPin int    `json:"relay_pin"`
}

type validateDeviceRequest struct {
	Serial string `json:"serial"`
}

type activateRelayRequest struct {
	Token string `json:"token"`
}

// HandleRegisterDevice registers an IoT relay unit under the caller's account.
func HandleRegisterDevice(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req registerDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Serial == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "serial is required")
	}

	repo := repository.GetGlobalFactory().GetDeviceRepository()
	if _, err := repo.GetBySerial(req.Serial); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Device serial already registered")
	}

	device := &models.Device{
		UserID:   userCtx.UserID,
		Serial:   req.Serial,
		Name:     req.Name,
		RelayPin: req.RelayPin,
	}
	if err := repo.Create(device); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to register device")
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

// HandleListDevices returns the caller's registered devices.
func HandleListDevices(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	devices, err := repository.GetGlobalFactory().GetDeviceRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load devices")
	}
	return c.JSON(fiber.Map{"devices": devices})
}

// HandleValidateDevice validates a device serial and hands back a short-lived
// activation token. Devices call this without a user session.
func HandleValidateDevice(c *fiber.Ctx) error {
	var req validateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	svc := activation.NewService(database.GetDB())
	device, token, err := svc.ValidateDevice(req.Serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown device serial")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to validate device")
	}

	return c.JSON(fiber.Map{
		"device_id": device.ID,
		"token":     token,
	})
}

// HandleActivateRelay consumes an activation token and fires the relay.
func HandleActivateRelay(c *fiber.Ctx) error {
	var req activateRelayRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	svc := activation.NewService(database.GetDB())
	device, err := svc.Activate(req.Token)
	if err != nil {
		if errors.Is(err, activation.ErrTokenExpired) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "token_expired", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to activate relay")
	}

	return c.JSON(fiber.Map{
		"device_id":         device.ID,
		"relay_pin":         device.RelayPin,
		"last_activated_at": formatTimePtr(device.LastActivatedAt),
	})
}
