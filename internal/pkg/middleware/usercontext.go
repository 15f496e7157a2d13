package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/localmart/localmart/app/controllers"
	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/session"
	"github.com/localmart/localmart/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling so controllers only read usercontext.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	store := session.GetSessionStore()
	if store == nil {
		c.Locals(usercontext.ContextKey, anonymous)
		return c.Next()
	}

	sess, err := store.Get(c)
	if err != nil {
		c.Locals(usercontext.ContextKey, anonymous)
		return c.Next()
	}

	rawID, _ := sess.Get(controllers.USER_ID).(string)
	userID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || userID == 0 {
		c.Locals(usercontext.ContextKey, anonymous)
		return c.Next()
	}

	username, _ := sess.Get(controllers.USER_NAME).(string)
	isAdmin := sess.Get(controllers.USER_IS_ADMIN) == "true"

	tier := models.TierFree
	if db := database.GetDB(); db != nil {
		if sub, err := models.GetOrCreateSubscription(db, uint(userID)); err == nil && sub.Tier != "" {
			tier = sub.Tier
		}
	}

	c.Locals(usercontext.ContextKey, usercontext.UserContext{
		UserID:     uint(userID),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
		Tier:       tier,
	})
	return c.Next()
}
