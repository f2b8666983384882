package usercontext

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxOperatorLength matches the width of the confirmed_by and created_by columns.
const MaxOperatorLength = 100

// GetOperator returns the acting operator, or an empty string when none was sent.
func GetOperator(c *fiber.Ctx) string {
	if v, ok := c.Locals(KeyOperator).(string); ok {
		return v
	}
	return NormalizeOperator(c.Get(HeaderOperator))
}

// NormalizeOperator trims the value, drops control characters and caps its length.
func NormalizeOperator(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if r := []rune(cleaned); len(r) > MaxOperatorLength {
		cleaned = string(r[:MaxOperatorLength])
	}
	return cleaned
}
