package routes

import (
	"io"

	controller "funnelapi/controllers"
	"funnelapi/middleware"
	"funnelapi/queries"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Funnels queries.FunnelStore
	Steps   queries.FunnelStepStore
	Actors  middleware.ActorLoader

	// RateLimitStorage backs the write limiter; nil keeps counters in memory.
	RateLimitStorage fiber.Storage
	// AccessLog receives one line per /api request; nil writes to stdout.
	AccessLog io.Writer
}

func SetupFunnelRoutes(app *fiber.App, deps Dependencies) {
	funnelController := controller.NewFunnelController(deps.Funnels, logrus.WithField("component", "funnels"))
	stepController := controller.NewFunnelStepController(deps.Steps, logrus.WithField("component", "funnel-steps"))
	orderBumpController := controller.NewOrderBumpController(deps.Steps, logrus.WithField("component", "order-bumps"))

	// Access log first so rejected requests are logged too
	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Output: deps.AccessLog,
	}), middleware.Protected(deps.Actors), middleware.WriteRateLimiter(deps.RateLimitStorage))

	// Step routes go first so "steps" is never taken for a funnel id
	api.Post("/funnels/steps/order-bumps", orderBumpController.AppendOrderBump)
	api.All("/funnels/steps/order-bumps", controller.MethodNotAllowed)

	api.Get("/funnels/steps", stepController.ListFunnelSteps)
	api.Post("/funnels/steps", stepController.CreateFunnelStep)
	api.All("/funnels/steps", controller.MethodNotAllowed)

	api.Get("/funnels/steps/:id", stepController.GetFunnelStep)
	api.Post("/funnels/steps/:id", stepController.UpdateFunnelStep)
	api.Delete("/funnels/steps/:id", stepController.DeleteFunnelStep)
	api.All("/funnels/steps/:id", controller.MethodNotAllowed)

	api.Get("/funnels", funnelController.ListFunnels)
	api.Post("/funnels", funnelController.CreateFunnel)
	api.All("/funnels", controller.MethodNotAllowed)

	api.Get("/funnels/:id", funnelController.GetFunnel)
	api.Post("/funnels/:id", funnelController.UpdateFunnel)
	api.Delete("/funnels/:id", funnelController.DeleteFunnel)
	api.All("/funnels/:id", controller.MethodNotAllowed)

	logrus.Info("Funnel routes initialized successfully")
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupFunnelRoutes(app, deps)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Not Found",
			"details": "The requested resource was not found",
		})
	})
}
