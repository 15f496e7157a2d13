package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/localmart/localmart/app/repository"
	"github.com/localmart/localmart/internal/pkg/cache"
	"github.com/localmart/localmart/internal/pkg/database"
	"github.com/localmart/localmart/internal/pkg/env"
	"github.com/localmart/localmart/internal/pkg/jobs"
	"github.com/localmart/localmart/internal/pkg/router"
	"github.com/localmart/localmart/internal/pkg/subscription"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		AppName: "localmart",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	// background subscription expiry
	sweeper := jobs.NewExpirySweeper(subscription.NewServiceFromDB(database.GetDB()))
	sweeper.Start()

	return app
}
