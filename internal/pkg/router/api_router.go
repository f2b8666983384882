package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	apiv1 "github.com/ManuelReschke/TierPay/internal/api/v1"
	"github.com/ManuelReschke/TierPay/internal/pkg/env"
	"github.com/ManuelReschke/TierPay/internal/pkg/metrics"
	"github.com/ManuelReschke/TierPay/internal/pkg/middleware"
)

type ApiRouter struct {
	server *apiv1.APIServer
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api",
		middleware.RateLimiter(),
		middleware.APIKeyAuthMiddleware(env.GetEnv("API_KEY", "")),
		middleware.OperatorMiddleware(),
	)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "TierPay settlement api",
		})
	})

	v1 := api.Group("/v1")
	apiv1.RegisterHandlers(v1, h.server)
}

func NewApiRouter(server *apiv1.APIServer) *ApiRouter {
	return &ApiRouter{server: server}
}

// MetricsRouter exposes the prometheus registry.
type MetricsRouter struct{}

func (MetricsRouter) InstallRouter(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func NewMetricsRouter() *MetricsRouter {
	return &MetricsRouter{}
}
