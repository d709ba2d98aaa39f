package handler

import (
	"strconv"

	"github.com/narenratnam1/DaanarRX-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetStockMovement returns daily check-in/check-out series for charts.
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetInventoryStats returns overview statistics
func (h *ReportHandler) GetInventoryStats(c *fiber.Ctx) error {
	stats, err := h.service.GetInventoryStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch inventory stats"})
	}

	return c.JSON(stats)
}

// GetExpiringUnits lists units expiring soon. Query params: days (default 30)
func (h *ReportHandler) GetExpiringUnits(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	units, err := h.service.GetExpiringUnits(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch expiring units"})
	}

	return c.JSON(fiber.Map{
		"within_days": days,
		"data":        units,
	})
}
