package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/TierPay/internal/pkg/commission"
	"github.com/ManuelReschke/TierPay/internal/pkg/hierarchy"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
	"github.com/ManuelReschke/TierPay/internal/pkg/settings"
)

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

func missingOperator(c *fiber.Ctx) error {
	return badRequest(c, "X-Operator header is required")
}

// statusFor maps domain errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, payment.ErrInvalidMonth),
		errors.Is(err, payment.ErrNoAgenciesSelected),
		errors.Is(err, commission.ErrInvalidInput),
		errors.Is(err, settings.ErrBackdated),
		errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, "bad_request"
	case errors.Is(err, commission.ErrReferenceNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, commission.ErrSaleFrozen):
		return fiber.StatusConflict, "conflict"
	case errors.Is(err, commission.ErrSaleNotEligible):
		return fiber.StatusUnprocessableEntity, "not_eligible"
	case errors.Is(err, hierarchy.ErrCycle),
		errors.Is(err, hierarchy.ErrTierMismatch),
		errors.Is(err, hierarchy.ErrTooDeep):
		return fiber.StatusUnprocessableEntity, "invalid_hierarchy"
	case errors.Is(err, commission.ErrPartialWrite):
		return fiber.StatusServiceUnavailable, "partial_write"
	case errors.Is(err, settings.ErrNoSettings):
		return fiber.StatusInternalServerError, "configuration_error"
	}
	return fiber.StatusInternalServerError, "internal_server_error"
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	body := fiber.Map{"error": code, "message": err.Error()}
	if code == "partial_write" {
		body["retryable"] = true
	}
	return c.Status(status).JSON(body)
}
