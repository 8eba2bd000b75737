package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/OratileK/StreamBox/app/controllers"
	"github.com/OratileK/StreamBox/app/repository"
	"github.com/OratileK/StreamBox/internal/pkg/cache"
	"github.com/OratileK/StreamBox/internal/pkg/commerce"
	"github.com/OratileK/StreamBox/internal/pkg/database"
	"github.com/OratileK/StreamBox/internal/pkg/env"
	"github.com/OratileK/StreamBox/internal/pkg/router"
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
	controllers.InitializeCommerceControllers(commerce.NewStripeGatewayFromEnv())

	app := fiber.New(fiber.Config{
		AppName: "StreamBox",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
