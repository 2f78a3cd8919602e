package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/auth"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

const queryDateLayout = "2006-01-02"

func requireIdentity(c *fiber.Ctx) (*auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok || identity.OwnerID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}

func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%s must use YYYY-MM-DD", name),
			map[string]any{name: raw},
		)
	}
	return &parsed, nil
}

func parseIntQuery(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("%s must be an integer", name),
			map[string]any{name: raw},
		)
	}
	return value, nil
}

func parseBoolQuery(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%s must be a boolean", name),
			map[string]any{name: raw},
		)
	}
	return &value, nil
}

func optionalStringQuery(c *fiber.Ctx, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}
