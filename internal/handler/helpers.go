package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
	"github.com/openacad/acadledger-api/pkg/keyseal"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}

	return uint(parsed), nil
}

func parseFormUint(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}

	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}

	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}

	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}

	return uint(parsed), nil
}

// principalFromContext returns the caller's ledger address as placed in
// Locals by the JWT middleware.
func principalFromContext(c *fiber.Ctx) string {
	if v := c.Locals("principal"); v != nil {
		if principal, ok := v.(string); ok {
			return strings.TrimSpace(principal)
		}
	}

	return ""
}

// sendServiceError maps workflow sentinels onto HTTP statuses. Ledger
// rejections and upload failures keep their cause detail so the caller can
// decide whether the write landed before retrying by hand.
func sendServiceError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrGradeNotFound),
		errors.Is(err, ledger.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDeadlinePassed):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateMaterial):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGradeOutOfRange),
		errors.Is(err, service.ErrInvalidDeadline):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, keyseal.ErrDecryption):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, keyseal.ErrPlaintextTooLong):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	case errors.Is(err, ledger.ErrRejected):
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
