package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/narenratnam1/DaanarRX-sub001/internal/cache"
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
	"github.com/narenratnam1/DaanarRX-sub001/internal/scan"
	"github.com/narenratnam1/DaanarRX-sub001/internal/ws"
	"github.com/narenratnam1/DaanarRX-sub001/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLotNotFound      = errors.New("lot not found")
	ErrAdjustReason     = errors.New("an adjustment requires a reason")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

type CheckInRequest struct {
	LotID      string `json:"lot_id"`
	MedGeneric string `json:"med_generic" validate:"required"`
	MedBrand   string `json:"med_brand"`
	Strength   string `json:"strength" validate:"required"`
	Form       string `json:"form"`
	NDC        string `json:"ndc"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	ExpDate    string `json:"exp_date" validate:"required,daana_date"`
	LocationID string `json:"location_id" validate:"required"`
	Note       string `json:"note"`
}

type MoveRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	Note       string `json:"note"`
}

type AdjustRequest struct {
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

type InventoryService interface {
	CheckIn(req *CheckInRequest, userID, userName, userEmail string) (*model.Unit, error)
	Move(daanaID string, req *MoveRequest, userID, userName, userEmail string) (*model.Unit, error)
	Adjust(daanaID string, req *AdjustRequest, userID, userName, userEmail string) (*model.Unit, error)
	GetAllUnits() ([]model.Unit, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
	GetUnitHistory(daanaID string) ([]model.Transaction, error)
}

type inventoryService struct {
	unitRepo        repository.UnitRepository
	transactionRepo repository.TransactionRepository
	locationRepo    repository.LocationRepository
	lotRepo         repository.LotRepository
	snapshot        *cache.UnitSnapshot
	wsHub           *ws.Hub
}

func NewInventoryService(
	unitRepo repository.UnitRepository,
	transactionRepo repository.TransactionRepository,
	locationRepo repository.LocationRepository,
	lotRepo repository.LotRepository,
	snapshot *cache.UnitSnapshot,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		unitRepo:        unitRepo,
		transactionRepo: transactionRepo,
		locationRepo:    locationRepo,
		lotRepo:         lotRepo,
		snapshot:        snapshot,
		wsHub:           hub,
	}
}

// newDaanaID mints an external-facing unit identifier
func newDaanaID() string {
	return "DRX-" + strings.ToUpper(uuid.New().String()[:8])
}

// CheckIn creates a stock unit with a generated Daana ID and QR payload,
// and its check_in audit record, in one atomic batch
func (s *inventoryService) CheckIn(req *CheckInRequest, userID, userName, userEmail string) (*model.Unit, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, ErrLocationNotFound
	}
	location, err := s.locationRepo.FindByID(locationID)
	if err != nil {
		return nil, ErrLocationNotFound
	}

	unit := &model.Unit{
		DaanaID:      newDaanaID(),
		MedGeneric:   req.MedGeneric,
		MedBrand:     req.MedBrand,
		Strength:     req.Strength,
		Form:         req.Form,
		NDC:          req.NDC,
		QtyTotal:     req.Quantity,
		ExpDate:      req.ExpDate,
		LocationID:   &location.ID,
		LocationName: location.Name,
		Status:       model.StatusInStock,
	}

	payload := scan.QRPayload{
		DaanaID:      unit.DaanaID,
		Generic:      unit.MedGeneric,
		Strength:     unit.Strength,
		Form:         unit.Form,
		ExpDate:      unit.ExpDate,
		LocationName: unit.LocationName,
	}

	if req.LotID != "" {
		lotID, err := uuid.Parse(req.LotID)
		if err != nil {
			return nil, ErrLotNotFound
		}
		lot, err := s.lotRepo.FindByID(lotID)
		if err != nil {
			return nil, ErrLotNotFound
		}
		unit.LotID = &lot.ID
		payload.LotPrefix = lot.Code
	}

	encoded, err := payload.Encode()
	if err != nil {
		return nil, err
	}
	unit.QRPayload = encoded
	unit.CreatedBy = userID
	unit.UpdatedBy = userID
	unit.CreatedByUserID = &userID
	unit.UpdatedByUserID = &userID

	qty := req.Quantity
	rec := &model.Transaction{
		DaanaID:  unit.DaanaID,
		Type:     model.TxCheckIn,
		Quantity: &qty,
		Note:     req.Note,
	}
	rec.CreatedBy = userID
	rec.UpdatedBy = userID
	rec.CreatedByUserID = &userID

	if err := s.unitRepo.CommitCheckIn(unit, rec); err != nil {
		log.Printf("check-in commit failed: %v", err)
		return nil, &CommitFailedError{Cause: err}
	}

	s.snapshot.Upsert(*unit)

	s.broadcast(map[string]interface{}{
		"type":   "inventory_update",
		"action": "unit_checked_in",
		"unit": map[string]interface{}{
			"daana_id": unit.DaanaID,
			"generic":  unit.MedGeneric,
			"strength": unit.Strength,
			"quantity": unit.QtyTotal,
			"exp_date": unit.ExpDate,
			"location": unit.LocationName,
		},
		"user":    map[string]interface{}{"id": userID, "name": userName, "email": userEmail},
		"message": fmt.Sprintf("%s checked in %d of %s %s at %s", userName, req.Quantity, unit.MedGeneric, unit.Strength, unit.LocationName),
	})

	return unit, nil
}

// Move relocates a unit and appends a move audit record (no quantity)
func (s *inventoryService) Move(daanaID string, req *MoveRequest, userID, userName, userEmail string) (*model.Unit, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	unit, err := s.unitRepo.FindByDaanaID(daanaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, ErrLocationNotFound
	}
	location, err := s.locationRepo.FindByID(locationID)
	if err != nil {
		return nil, ErrLocationNotFound
	}

	note := req.Note
	if note == "" {
		note = fmt.Sprintf("moved from %s to %s", unit.LocationName, location.Name)
	}
	rec := &model.Transaction{
		DaanaID: unit.DaanaID,
		Type:    model.TxMove,
		Note:    note,
	}
	rec.CreatedBy = userID
	rec.UpdatedBy = userID
	rec.CreatedByUserID = &userID

	if err := s.unitRepo.CommitMove(unit.DaanaID, location, rec); err != nil {
		log.Printf("move commit failed for unit %s: %v", unit.DaanaID, err)
		return nil, &CommitFailedError{Cause: err}
	}

	unit.LocationID = &location.ID
	unit.LocationName = location.Name
	s.snapshot.Upsert(*unit)

	s.broadcast(map[string]interface{}{
		"type":   "inventory_update",
		"action": "unit_moved",
		"unit": map[string]interface{}{
			"daana_id": unit.DaanaID,
			"location": location.Name,
		},
		"user":    map[string]interface{}{"id": userID, "name": userName, "email": userEmail},
		"message": fmt.Sprintf("%s moved %s to %s", userName, unit.DaanaID, location.Name),
	})

	return unit, nil
}

// Adjust sets an absolute corrected quantity with a mandatory reason.
// Landing on zero removes the unit, same as dispense exhaustion.
func (s *inventoryService) Adjust(daanaID string, req *AdjustRequest, userID, userName, userEmail string) (*model.Unit, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrAdjustReason
	}
	if req.NewQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	unit, err := s.unitRepo.FindByDaanaID(daanaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	delta := req.NewQuantity - unit.QtyTotal
	if delta < 0 {
		delta = -delta
	}
	rec := &model.Transaction{
		DaanaID:  unit.DaanaID,
		Type:     model.TxAdjust,
		Quantity: &delta,
		Note:     req.Reason,
	}
	rec.CreatedBy = userID
	rec.UpdatedBy = userID
	rec.CreatedByUserID = &userID

	if err := s.unitRepo.CommitAdjust(unit.DaanaID, req.NewQuantity, rec); err != nil {
		log.Printf("adjust commit failed for unit %s: %v", unit.DaanaID, err)
		return nil, &CommitFailedError{Cause: err}
	}

	if req.NewQuantity == 0 {
		s.snapshot.Remove(unit.DaanaID)
	} else {
		unit.QtyTotal = req.NewQuantity
		s.snapshot.Upsert(*unit)
	}

	s.broadcast(map[string]interface{}{
		"type":   "inventory_update",
		"action": "unit_adjusted",
		"unit": map[string]interface{}{
			"daana_id": unit.DaanaID,
			"quantity": req.NewQuantity,
			"removed":  req.NewQuantity == 0,
		},
		"user":    map[string]interface{}{"id": userID, "name": userName, "email": userEmail},
		"message": fmt.Sprintf("%s adjusted %s to %d (%s)", userName, unit.DaanaID, req.NewQuantity, req.Reason),
	})

	unit.QtyTotal = req.NewQuantity
	return unit, nil
}

func (s *inventoryService) GetAllUnits() ([]model.Unit, error) {
	return s.unitRepo.FindAll()
}

func (s *inventoryService) GetAllTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *inventoryService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.transactionRepo.FindByID(id)
}

func (s *inventoryService) GetUnitHistory(daanaID string) ([]model.Transaction, error) {
	return s.transactionRepo.FindByDaanaID(daanaID)
}

func (s *inventoryService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
