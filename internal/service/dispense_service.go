package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/narenratnam1/DaanarRX-sub001/internal/cache"
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
	"github.com/narenratnam1/DaanarRX-sub001/internal/scan"
	"github.com/narenratnam1/DaanarRX-sub001/internal/ws"
	"github.com/narenratnam1/DaanarRX-sub001/pkg/validator"

	"gorm.io/gorm"
)

var (
	// ErrUnitNotFound means the token matched nothing. Distinct from a
	// store fault: callers silently ignore unmatched scans but surface
	// store errors.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrEmptyToken means the input was empty after trimming; callers
	// treat it as a no-op rather than an error.
	ErrEmptyToken = errors.New("empty lookup token")
)

// InvalidQuantityError rejects non-positive dispense quantities
type InvalidQuantityError struct {
	Requested int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Requested)
}

// UnitNotDispensableError rejects units in a terminal or held status
type UnitNotDispensableError struct {
	DaanaID string
	Status  model.UnitStatus
}

func (e *UnitNotDispensableError) Error() string {
	return fmt.Sprintf("unit %s cannot be dispensed (status: %s)", e.DaanaID, e.Status)
}

// InsufficientQuantityError rejects requests exceeding available stock
type InsufficientQuantityError struct {
	DaanaID   string
	Available int
	Requested int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: only %d available, %d requested", e.Available, e.Requested)
}

// FEFOAdvisory warns that an earlier-expiring unit of the same medication
// and strength is still available elsewhere. Advisory only: the operator
// decides whether to proceed or switch units.
type FEFOAdvisory struct {
	TargetDaanaID string `json:"target_daana_id"`
	TargetExpDate string `json:"target_exp_date"`
	OlderDaanaID  string `json:"older_daana_id"`
	OlderExpDate  string `json:"older_exp_date"`
	OlderLocation string `json:"older_location,omitempty"`
}

// FEFOAdvisoryError is returned when a dispense would skip an older unit
// and the operator has not acknowledged the advisory yet
type FEFOAdvisoryError struct {
	Advisory *FEFOAdvisory
}

func (e *FEFOAdvisoryError) Error() string {
	return fmt.Sprintf("an earlier-expiring unit %s (exp %s) is still available; confirm to dispense %s (exp %s) anyway",
		e.Advisory.OlderDaanaID, e.Advisory.OlderExpDate, e.Advisory.TargetDaanaID, e.Advisory.TargetExpDate)
}

// CommitFailedError wraps a store fault during the atomic write. By the
// commit contract no partial state is left behind, so a retry is safe.
type CommitFailedError struct {
	Cause error
}

func (e *CommitFailedError) Error() string {
	return "could not complete dispense: " + e.Cause.Error()
}

func (e *CommitFailedError) Unwrap() error {
	return e.Cause
}

type DispenseRequest struct {
	DaanaID         string `json:"daana_id" validate:"required"`
	Quantity        int    `json:"quantity"`
	PatientRef      string `json:"patient_ref"`
	Note            string `json:"note"`
	AcknowledgeFEFO bool   `json:"acknowledge_fefo"`
}

type DispenseResult struct {
	DaanaID   string `json:"daana_id"`
	Dispensed int    `json:"dispensed"`
	Remaining int    `json:"remaining"`
	Removed   bool   `json:"removed"`
	Message   string `json:"message"`
}

type DispenseService interface {
	ResolveToken(rawToken string, scanned bool) (*model.Unit, error)
	CheckFEFO(u *model.Unit) *FEFOAdvisory
	Dispense(req *DispenseRequest, userID, userName, userEmail string) (*DispenseResult, error)
	RefreshSnapshot() error
}

type dispenseService struct {
	unitRepo repository.UnitRepository
	snapshot *cache.UnitSnapshot
	wsHub    *ws.Hub
}

func NewDispenseService(unitRepo repository.UnitRepository, snapshot *cache.UnitSnapshot, hub *ws.Hub) DispenseService {
	return &dispenseService{
		unitRepo: unitRepo,
		snapshot: snapshot,
		wsHub:    hub,
	}
}

// ValidateDispense decides whether quantityRequested may be taken from u.
// Pure: no I/O, same answer for the same unit snapshot. Returns the
// quantity that would remain, which the committer uses to decide
// delete-vs-update.
func ValidateDispense(u *model.Unit, quantityRequested int) (remaining int, err error) {
	if quantityRequested <= 0 {
		return 0, &InvalidQuantityError{Requested: quantityRequested}
	}
	if !u.Dispensable() {
		return 0, &UnitNotDispensableError{DaanaID: u.DaanaID, Status: u.Status}
	}
	remaining = u.QtyTotal - quantityRequested
	if remaining < 0 {
		return 0, &InsufficientQuantityError{
			DaanaID:   u.DaanaID,
			Available: u.QtyTotal,
			Requested: quantityRequested,
		}
	}
	return remaining, nil
}

// FindEarlierExpiring returns the earliest-expiring other unit of the same
// medication and strength that still holds stock, or nil. Ties on expiry
// break by Daana ID so the pick is deterministic.
func FindEarlierExpiring(target *model.Unit, units []model.Unit) *model.Unit {
	var best *model.Unit
	for i := range units {
		v := &units[i]
		if v.DaanaID == target.DaanaID || !target.SameMedication(v) {
			continue
		}
		if v.Status != model.StatusInStock && v.Status != model.StatusPartial {
			continue
		}
		// YYYY-MM-DD dates order lexicographically
		if v.ExpDate >= target.ExpDate {
			continue
		}
		if best == nil || v.ExpDate < best.ExpDate ||
			(v.ExpDate == best.ExpDate && v.DaanaID < best.DaanaID) {
			best = v
		}
	}
	return best
}

// ResolveToken resolves scanner/keyboard input to the current unit record.
// Resolution order: in-memory snapshot, then store by Daana ID, then (scan
// flows only) store by the literal QR payload text.
func (s *dispenseService) ResolveToken(rawToken string, scanned bool) (*model.Unit, error) {
	token, ok := scan.Parse(rawToken)
	if !ok {
		return nil, ErrEmptyToken
	}

	if u, ok := s.snapshot.Get(token.ID); ok {
		return u, nil
	}

	u, err := s.unitRepo.FindByDaanaID(token.ID)
	if err == nil {
		s.snapshot.Upsert(*u)
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// A scanned label whose JSON didn't carry the expected "u" field can
	// still match a stored payload verbatim
	if scanned {
		u, err := s.unitRepo.FindByQRPayload(token.Raw)
		if err == nil {
			s.snapshot.Upsert(*u)
			return u, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, ErrUnitNotFound
}

// CheckFEFO returns an advisory if dispensing u would skip an
// earlier-expiring unit, otherwise nil
func (s *dispenseService) CheckFEFO(u *model.Unit) *FEFOAdvisory {
	units := s.snapshot.Filter(func(*model.Unit) bool { return true })
	older := FindEarlierExpiring(u, units)
	if older == nil {
		return nil
	}
	return &FEFOAdvisory{
		TargetDaanaID: u.DaanaID,
		TargetExpDate: u.ExpDate,
		OlderDaanaID:  older.DaanaID,
		OlderExpDate:  older.ExpDate,
		OlderLocation: older.LocationName,
	}
}

func (s *dispenseService) Dispense(req *DispenseRequest, userID, userName, userEmail string) (*DispenseResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Fresh read from the store, not the snapshot: the validation answer
	// must reflect the row the commit will lock
	unit, err := s.unitRepo.FindByDaanaID(req.DaanaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	remaining, err := ValidateDispense(unit, req.Quantity)
	if err != nil {
		return nil, err
	}

	if !req.AcknowledgeFEFO {
		if advisory := s.CheckFEFO(unit); advisory != nil {
			return nil, &FEFOAdvisoryError{Advisory: advisory}
		}
	}

	qty := req.Quantity
	rec := &model.Transaction{
		DaanaID:    unit.DaanaID,
		Type:       model.TxCheckOut,
		Quantity:   &qty,
		PatientRef: req.PatientRef,
		Note:       req.Note,
	}
	rec.CreatedBy = userID
	rec.UpdatedBy = userID
	rec.CreatedByUserID = &userID

	if err := s.unitRepo.CommitDispense(unit.DaanaID, req.Quantity, remaining, rec); err != nil {
		if errors.Is(err, repository.ErrUnitConflict) {
			return nil, err
		}
		log.Printf("dispense commit failed for unit %s: %v", unit.DaanaID, err)
		return nil, &CommitFailedError{Cause: err}
	}

	result := &DispenseResult{
		DaanaID:   unit.DaanaID,
		Dispensed: req.Quantity,
		Remaining: remaining,
		Removed:   remaining == 0,
	}
	if remaining == 0 {
		s.snapshot.Remove(unit.DaanaID)
		result.Message = fmt.Sprintf("All %d dispensed; unit %s removed from inventory", req.Quantity, unit.DaanaID)
	} else {
		updated := *unit
		updated.QtyTotal = remaining
		updated.Status = model.StatusPartial
		s.snapshot.Upsert(updated)
		result.Message = fmt.Sprintf("%d dispensed from unit %s; %d remaining", req.Quantity, unit.DaanaID, remaining)
	}

	s.broadcast(map[string]interface{}{
		"type":   "inventory_update",
		"action": "unit_dispensed",
		"unit": map[string]interface{}{
			"daana_id":  unit.DaanaID,
			"generic":   unit.MedGeneric,
			"strength":  unit.Strength,
			"dispensed": req.Quantity,
			"remaining": remaining,
			"removed":   remaining == 0,
		},
		"user": map[string]interface{}{
			"id":    userID,
			"name":  userName,
			"email": userEmail,
		},
		"message": fmt.Sprintf("%s dispensed %d of %s %s (%s)", userName, req.Quantity, unit.MedGeneric, unit.Strength, unit.DaanaID),
	})

	return result, nil
}

// RefreshSnapshot reloads the in-memory mirror from the store
func (s *dispenseService) RefreshSnapshot() error {
	units, err := s.unitRepo.FindAll()
	if err != nil {
		return err
	}
	s.snapshot.Replace(units)
	return nil
}

func (s *dispenseService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
