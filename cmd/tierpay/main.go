package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/TierPay/app/controllers"
	"github.com/ManuelReschke/TierPay/app/repository"
	apiv1 "github.com/ManuelReschke/TierPay/internal/api/v1"
	"github.com/ManuelReschke/TierPay/internal/pkg/archive"
	"github.com/ManuelReschke/TierPay/internal/pkg/cache"
	"github.com/ManuelReschke/TierPay/internal/pkg/commission"
	"github.com/ManuelReschke/TierPay/internal/pkg/database"
	"github.com/ManuelReschke/TierPay/internal/pkg/env"
	"github.com/ManuelReschke/TierPay/internal/pkg/export"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
	"github.com/ManuelReschke/TierPay/internal/pkg/router"
	"github.com/ManuelReschke/TierPay/internal/pkg/settings"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	var resolverOpts []settings.Option
	if cache.Enabled() {
		cache.SetupCache()
		resolverOpts = append(resolverOpts, settings.WithCache(cache.GetClient()))
	}
	resolver := settings.NewResolver(repos.Settings, resolverOpts...)

	aggregator := payment.NewAggregator(repos, resolver)
	exporter := export.NewService(aggregator, export.HeaderFromEnv(), newArchiver())

	settlement := controllers.NewSettlementController(
		commission.NewService(repos, resolver),
		resolver,
		aggregator,
		payment.NewConfirmer(repos, aggregator),
		exporter,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if specPath := findOpenAPISpec(); specPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: specPath,
			Path:     "v1",
		}))
	} else {
		log.Printf("OpenAPI document not found, /docs/api/v1 disabled")
	}

	// ROUTER
	router.InstallRouter(app, apiv1.NewAPIServer(settlement))

	return app
}

// newArchiver returns nil unless the export archive is enabled and reachable.
func newArchiver() export.Archiver {
	cfg, err := archive.LoadConfig()
	if err != nil {
		log.Printf("Export archive disabled: %v", err)
		return nil
	}
	if !cfg.Enabled {
		return nil
	}
	client, err := archive.NewClient(context.Background(), cfg)
	if err != nil {
		log.Printf("Export archive disabled: %v", err)
		return nil
	}
	return client
}

func findOpenAPISpec() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/tierpay to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		candidate := path + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
