package apiv1

import "github.com/gofiber/fiber/v2"

// Pong is the ping response body
type Pong struct {
	Ping string `json:"ping"`
}

// Route describes one registered endpoint.
type Route struct {
	Method  string
	Path    string
	Handler func(*APIServer) fiber.Handler
}

// Routes lists every v1 endpoint relative to the /api/v1 prefix.
var Routes = []Route{
	{fiber.MethodGet, "/ping", func(s *APIServer) fiber.Handler { return s.GetPing }},
	{fiber.MethodPost, "/sales/:id/commissions", func(s *APIServer) fiber.Handler { return s.PostSaleCommissions }},
	{fiber.MethodPost, "/sales/:id/recalculate", func(s *APIServer) fiber.Handler { return s.PostSaleRecalculate }},
	{fiber.MethodGet, "/settings", func(s *APIServer) fiber.Handler { return s.GetSettings }},
	{fiber.MethodPost, "/settings", func(s *APIServer) fiber.Handler { return s.PostSettings }},
	{fiber.MethodGet, "/payments/:month/preview", func(s *APIServer) fiber.Handler { return s.GetPaymentPreview }},
	{fiber.MethodPost, "/payments/:month/carry-forward", func(s *APIServer) fiber.Handler { return s.PostPaymentCarryForward }},
	{fiber.MethodPost, "/payments/:month/confirm", func(s *APIServer) fiber.Handler { return s.PostPaymentConfirm }},
	{fiber.MethodGet, "/payments/:month/records", func(s *APIServer) fiber.Handler { return s.GetPaymentRecords }},
	{fiber.MethodGet, "/payments/:month/export", func(s *APIServer) fiber.Handler { return s.GetPaymentExport }},
}

// RegisterHandlers installs the v1 routes on router
func RegisterHandlers(router fiber.Router, s *APIServer) {
	for _, r := range Routes {
		router.Add(r.Method, r.Path, r.Handler(s))
	}
}
