package handler

import (
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
	"github.com/narenratnam1/DaanarRX-sub001/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler serves the location and lot lookup tables
type AdminHandler struct {
	locationRepo repository.LocationRepository
	lotRepo      repository.LotRepository
}

func NewAdminHandler(locationRepo repository.LocationRepository, lotRepo repository.LotRepository) *AdminHandler {
	return &AdminHandler{locationRepo: locationRepo, lotRepo: lotRepo}
}

// GetLocations returns all storage locations
// GET /api/v1/locations
func (h *AdminHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.locationRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch locations"})
	}
	return c.JSON(locations)
}

// CreateLocation adds a storage location
// POST /api/v1/locations
func (h *AdminHandler) CreateLocation(c *fiber.Ctx) error {
	var location model.Location
	if err := c.BodyParser(&location); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&location); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field '" + errs[0].FailedField + "'"})
	}

	location.CreatedBy = getUserID(c)
	location.UpdatedBy = getUserID(c)
	if err := h.locationRepo.Create(&location); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Location created", "data": location})
}

// UpdateLocation renames or reclassifies a storage location
// PUT /api/v1/locations/:id
func (h *AdminHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	existing, err := h.locationRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Location not found"})
	}

	var req model.Location
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Name = req.Name
	existing.TempClass = req.TempClass
	existing.Note = req.Note
	existing.UpdatedBy = getUserID(c)
	if err := h.locationRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Location updated", "data": existing})
}

// DeleteLocation removes a storage location
// DELETE /api/v1/locations/:id
func (h *AdminHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	if err := h.locationRepo.Delete(id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Location deleted"})
}

// GetLots returns all receipt lots
// GET /api/v1/lots
func (h *AdminHandler) GetLots(c *fiber.Ctx) error {
	lots, err := h.lotRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch lots"})
	}
	return c.JSON(lots)
}

// CreateLot registers a donation/receipt batch
// POST /api/v1/lots
func (h *AdminHandler) CreateLot(c *fiber.Ctx) error {
	var lot model.Lot
	if err := c.BodyParser(&lot); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&lot); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field '" + errs[0].FailedField + "'"})
	}

	// Lot codes must be unique
	if existing, _ := h.lotRepo.FindByCode(lot.Code); existing != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Lot code already exists"})
	}

	lot.CreatedBy = getUserID(c)
	lot.UpdatedBy = getUserID(c)
	if err := h.lotRepo.Create(&lot); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Lot created", "data": lot})
}

// UpdateLot edits a lot's details
// PUT /api/v1/lots/:id
func (h *AdminHandler) UpdateLot(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid lot ID"})
	}

	existing, err := h.lotRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Lot not found"})
	}

	var req model.Lot
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Code = req.Code
	existing.SourceName = req.SourceName
	existing.ReceivedDate = req.ReceivedDate
	existing.Note = req.Note
	existing.UpdatedBy = getUserID(c)
	if err := h.lotRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Lot updated", "data": existing})
}

// DeleteLot removes a lot record
// DELETE /api/v1/lots/:id
func (h *AdminHandler) DeleteLot(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid lot ID"})
	}

	if err := h.lotRepo.Delete(id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Lot deleted"})
}
