package main

import (
	"time"

	"funnelapi/auth"
	"funnelapi/config"
	"funnelapi/middleware"
	"funnelapi/queries"
	"funnelapi/routes"
	"funnelapi/utils"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	utils.ConfigureLogger(config.AppConfig.Environment, config.AppConfig.LogLevel)

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logrus.Warnf("Sentry initialization failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	authorizer, err := auth.NewAuthorizer(config.AppConfig.AuthzPolicyPath)
	if err != nil {
		logrus.Fatalf("Failed to load authorization policy: %v", err)
	}

	var (
		redisClient *redis.Client
		locker      utils.Locker = utils.NoopLocker{}
	)
	if config.AppConfig.Redis.Enabled {
		redisClient = utils.NewRedisClient(config.AppConfig.Redis)
		defer redisClient.Close()
		locker = utils.NewRedisLocker(redisClient)
	}

	app := fiber.New(fiber.Config{
		AppName: "funnelapi",
	})
	app.Use(recover.New())
	app.Use(middleware.CORS())

	routes.SetupRoutes(app, routes.Dependencies{
		Funnels:          queries.NewFunnelStore(config.DB),
		Steps:            queries.NewFunnelStepStore(config.DB, locker),
		Actors:           queries.NewUserStore(config.DB, authorizer),
		RateLimitStorage: middleware.RateLimitStorage(redisClient),
	})

	// Start server
	logrus.Infof("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
