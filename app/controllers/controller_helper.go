package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Session keys shared with the usercontext middleware.
const (
	USER_ID       = "USER_ID"
	USER_NAME     = "USER_NAME"
	USER_IS_ADMIN = "USER_IS_ADMIN"
)

const defaultPageSize = 20
const maxPageSize = 100

// parseIDParam reads a positive uint route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// paginationParams reads offset/limit query values with sane bounds.
func paginationParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}
