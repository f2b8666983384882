package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep behavior consistent
	"github.com/ManuelReschke/TierPay/app/controllers"
)

// APIServer serves the v1 settlement API
type APIServer struct {
	settlement *controllers.SettlementController
}

// NewAPIServer creates a new API server instance
func NewAPIServer(settlement *controllers.SettlementController) *APIServer {
	return &APIServer{settlement: settlement}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

func (s *APIServer) PostSaleCommissions(c *fiber.Ctx) error {
	return s.settlement.HandleComputeCommissions(c)
}

func (s *APIServer) PostSaleRecalculate(c *fiber.Ctx) error {
	return s.settlement.HandleRecalculate(c)
}

func (s *APIServer) GetSettings(c *fiber.Ctx) error {
	return s.settlement.HandleGetSettings(c)
}

func (s *APIServer) PostSettings(c *fiber.Ctx) error {
	return s.settlement.HandlePublishSettings(c)
}

func (s *APIServer) GetPaymentPreview(c *fiber.Ctx) error {
	return s.settlement.HandlePreview(c)
}

func (s *APIServer) PostPaymentCarryForward(c *fiber.Ctx) error {
	return s.settlement.HandleCarryForward(c)
}

func (s *APIServer) GetPaymentRecords(c *fiber.Ctx) error {
	return s.settlement.HandleRecords(c)
}

func (s *APIServer) PostPaymentConfirm(c *fiber.Ctx) error {
	return s.settlement.HandleConfirm(c)
}

func (s *APIServer) GetPaymentExport(c *fiber.Ctx) error {
	return s.settlement.HandleExport(c)
}
