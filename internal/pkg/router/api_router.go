package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/localmart/localmart/app/controllers"
	"github.com/localmart/localmart/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	v1 := api.Group("/v1")

	// auth
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", middleware.RequireAuth, controllers.HandleLogout)
	v1.Get("/auth/me", middleware.RequireAuth, controllers.HandleMe)

	// businesses
	v1.Get("/businesses", controllers.HandleListBusinesses)
	v1.Get("/businesses/mine", middleware.RequireAuth, controllers.HandleMyBusinesses)
	v1.Get("/businesses/:id", controllers.HandleGetBusiness)
	v1.Post("/businesses", middleware.RequireAuth, controllers.HandleCreateBusiness)
	v1.Put("/businesses/:id", middleware.RequireAuth, controllers.HandleUpdateBusiness)
	v1.Delete("/businesses/:id", middleware.RequireAuth, controllers.HandleDeleteBusiness)

	// products
	v1.Get("/businesses/:id/products", controllers.HandleListBusinessProducts)
	v1.Post("/businesses/:id/products", middleware.RequireAuth, controllers.HandleCreateProduct)
	v1.Get("/products/:id", controllers.HandleGetProduct)
	v1.Put("/products/:id", middleware.RequireAuth, controllers.HandleUpdateProduct)
	v1.Delete("/products/:id", middleware.RequireAuth, controllers.HandleDeleteProduct)
	v1.Get("/categories", controllers.HandleListCategories)

	// subscriptions
	v1.Get("/subscription", middleware.RequireAuth, controllers.HandleGetSubscription)
	v1.Get("/subscription/plans", controllers.HandleListPlans)
	v1.Post("/subscription/plan", middleware.RequireAuth, controllers.HandleChangePlan)

	// discount tokens; redemption is deliberately open to anonymous holders
	v1.Post("/businesses/:id/tokens", middleware.RequireAuth, controllers.HandleGenerateToken)
	v1.Get("/businesses/:id/tokens", middleware.RequireAuth, controllers.HandleListBusinessTokens)
	v1.Get("/tokens/:code", controllers.HandleTokenStatus)
	v1.Post("/tokens/:code/redeem", controllers.HandleRedeemToken)
	v1.Post("/token-uses/:id/confirmation", controllers.HandleIssueConfirmation)
	v1.Post("/token-uses/:id/confirm", middleware.RequireAuth, controllers.HandleConfirmRedemption)

	// ratings
	v1.Post("/businesses/:id/ratings", middleware.RequireAuth, controllers.HandleRateBusiness)
	v1.Get("/businesses/:id/ratings", controllers.HandleListBusinessRatings)

	// messaging
	v1.Post("/messages", middleware.RequireAuth, controllers.HandleSendMessage)
	v1.Get("/messages", middleware.RequireAuth, controllers.HandleInbox)
	v1.Get("/messages/thread/:userId", middleware.RequireAuth, controllers.HandleThread)
	v1.Post("/messages/:id/read", middleware.RequireAuth, controllers.HandleMarkRead)

	// IoT device activation
	v1.Post("/devices", middleware.RequireAuth, controllers.HandleRegisterDevice)
	v1.Get("/devices", middleware.RequireAuth, controllers.HandleListDevices)
	v1.Post("/devices/validate", controllers.HandleValidateDevice)
	v1.Post("/devices/activate", controllers.HandleActivateRelay)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
