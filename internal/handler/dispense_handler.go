package handler

import (
	"errors"

	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
	"github.com/narenratnam1/DaanarRX-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DispenseHandler struct {
	service service.DispenseService
}

func NewDispenseHandler(s service.DispenseService) *DispenseHandler {
	return &DispenseHandler{service: s}
}

// Lookup resolves a scanned or typed token to a unit.
// Query params: token (raw scanner/keyboard input), scan (true for scan flows)
func (h *DispenseHandler) Lookup(c *fiber.Ctx) error {
	token := c.Query("token")
	scanned := c.Query("scan") == "true"

	unit, err := h.service.ResolveToken(token, scanned)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyToken):
			// Empty input is a no-op, not an error
			return c.SendStatus(fiber.StatusNoContent)
		case errors.Is(err, service.ErrUnitNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "No unit matches this token", "code": "not_found"})
		default:
			// A store fault is a visible failure, unlike a miss
			return c.Status(500).JSON(fiber.Map{"error": "Lookup failed", "code": "store_error"})
		}
	}

	return c.JSON(unit)
}

// Dispense checks quantity out of a unit. Returns 409 with an advisory
// when an earlier-expiring unit exists and the request didn't acknowledge
// it; the client re-sends with acknowledge_fefo=true to proceed.
func (h *DispenseHandler) Dispense(c *fiber.Ctx) error {
	var req service.DispenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.DaanaID = c.Params("daana_id")

	userID := getUserID(c)
	userName := getUserName(c)
	userEmail := getUserEmail(c)

	result, err := h.service.Dispense(&req, userID, userName, userEmail)
	if err != nil {
		return dispenseError(c, err)
	}

	return c.JSON(fiber.Map{"message": result.Message, "data": result})
}

// dispenseError maps the dispense error taxonomy to HTTP responses
func dispenseError(c *fiber.Ctx, err error) error {
	var invalidQty *service.InvalidQuantityError
	var notDispensable *service.UnitNotDispensableError
	var insufficient *service.InsufficientQuantityError
	var advisory *service.FEFOAdvisoryError
	var commitFailed *service.CommitFailedError

	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error(), "code": "not_found"})
	case errors.As(err, &invalidQty):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": "invalid_quantity"})
	case errors.As(err, &notDispensable):
		return c.Status(400).JSON(fiber.Map{
			"error":  err.Error(),
			"code":   "unit_not_dispensable",
			"status": notDispensable.Status,
		})
	case errors.As(err, &insufficient):
		return c.Status(400).JSON(fiber.Map{
			"error":     err.Error(),
			"code":      "insufficient_quantity",
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &advisory):
		return c.Status(409).JSON(fiber.Map{
			"error":    err.Error(),
			"code":     "fefo_advisory",
			"advisory": advisory.Advisory,
		})
	case errors.Is(err, repository.ErrUnitConflict):
		return c.Status(409).JSON(fiber.Map{"error": err.Error(), "code": "conflict"})
	case errors.As(err, &commitFailed):
		return c.Status(500).JSON(fiber.Map{"error": err.Error(), "code": "commit_failed"})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
