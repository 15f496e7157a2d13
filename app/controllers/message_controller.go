package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/app/repository"
	"github.com/localmart/localmart/internal/pkg/notify"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

type sendMessageRequest struct {
	RecipientID uint   `json:"recipient_id"`
	BusinessID  *uint  `json:"business_id"`
	Body        string `json:"body"`
}

// messageNotifier is swapped for a noop in tests.
var messageNotifier notify.Notifier = notify.NewRedisNotifier()

// HandleSendMessage stores a direct message and hands it to the notifier for
// push delivery.
func HandleSendMessage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.RecipientID == userCtx.UserID {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Cannot message yourself")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetUserRepository().GetByID(req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Recipient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load recipient")
	}

	message := &models.Message{
		SenderID:    userCtx.UserID,
		RecipientID: req.RecipientID,
		BusinessID:  req.BusinessID,
		Body:        req.Body,
	}
	if err := message.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := factory.GetMessageRepository().Create(message); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to send message")
	}

	if err := messageNotifier.NotifyNewMessage(message); err != nil {
		// Delivery is best effort; the message is already persisted.
		log.Warnf("message notification failed for message %d: %v", message.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// HandleInbox returns the caller's received messages plus the unread count.
func HandleInbox(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := paginationParams(c)

	repo := repository.GetGlobalFactory().GetMessageRepository()
	messages, err := repo.Inbox(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load inbox")
	}
	unread, err := repo.CountUnread(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count unread")
	}

	return c.JSON(fiber.Map{"messages": messages, "unread": unread})
}

// HandleThread returns the conversation between the caller and another user.
func HandleThread(c *fiber.Ctx) error {
	otherID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)
	offset, limit := paginationParams(c)

	repo := repository.GetGlobalFactory().GetMessageRepository()
	messages, err := repo.Thread(userCtx.UserID, otherID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load thread")
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// HandleMarkRead stamps a received message as read.
func HandleMarkRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetMessageRepository()
	message, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Message not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load message")
	}
	if message.RecipientID != userCtx.UserID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Not your message")
	}

	if err := repo.MarkRead(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to mark message read")
	}
	return c.JSON(fiber.Map{"message": "marked read"})
}
