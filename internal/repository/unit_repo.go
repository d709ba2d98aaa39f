package repository

import (
	"errors"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnitConflict means the quantity locked at commit time no longer
// matches what the caller validated against (another operator got there
// first). Nothing was written; the flow can be re-run safely.
var ErrUnitConflict = errors.New("unit was modified by another operation")

type UnitRepository interface {
	FindAll() ([]model.Unit, error)
	FindByDaanaID(daanaID string) (*model.Unit, error)
	FindByQRPayload(payload string) (*model.Unit, error)
	FindExpiringBefore(cutoff string) ([]model.Unit, error)

	// Atomic commits: the unit mutation and its audit transaction are
	// applied in one store transaction, or not at all.
	CommitCheckIn(unit *model.Unit, rec *model.Transaction) error
	CommitDispense(daanaID string, quantity, remaining int, rec *model.Transaction) error
	CommitAdjust(daanaID string, newQty int, rec *model.Transaction) error
	CommitMove(daanaID string, loc *model.Location, rec *model.Transaction) error
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) FindAll() ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.Preload("Lot").Preload("Location").Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByDaanaID(daanaID string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.Preload("Lot").Preload("Location").First(&unit, "daana_id = ?", daanaID).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) FindByQRPayload(payload string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.First(&unit, "qr_payload = ?", payload).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) FindExpiringBefore(cutoff string) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.
		Where("exp_date < ? AND status IN ?", cutoff, []model.UnitStatus{model.StatusInStock, model.StatusPartial}).
		Order("exp_date ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepo) CommitCheckIn(unit *model.Unit, rec *model.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unit).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

// CommitDispense applies a validated dispense. The row is re-read under a
// lock and must still hold quantity+remaining; otherwise the commit aborts
// with ErrUnitConflict and no effect. remaining == 0 deletes the unit
// (no stock is modeled as no row).
func (r *unitRepo) CommitDispense(daanaID string, quantity, remaining int, rec *model.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var unit model.Unit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&unit, "daana_id = ?", daanaID).Error; err != nil {
			return err
		}

		if unit.QtyTotal != quantity+remaining {
			return ErrUnitConflict
		}

		if remaining == 0 {
			unit.DeletedBy = rec.CreatedBy
			if err := tx.Model(&unit).Update("deleted_by", rec.CreatedBy).Error; err != nil {
				return err
			}
			if err := tx.Delete(&unit).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&unit).Updates(map[string]interface{}{
				"qty_total":  remaining,
				"status":     model.StatusPartial,
				"updated_by": rec.CreatedBy,
			}).Error; err != nil {
				return err
			}
		}

		return tx.Create(rec).Error
	})
}

// CommitAdjust sets an absolute corrected quantity. Adjusting to zero
// removes the unit, mirroring dispense exhaustion.
func (r *unitRepo) CommitAdjust(daanaID string, newQty int, rec *model.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var unit model.Unit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&unit, "daana_id = ?", daanaID).Error; err != nil {
			return err
		}

		if newQty == 0 {
			if err := tx.Model(&unit).Update("deleted_by", rec.CreatedBy).Error; err != nil {
				return err
			}
			if err := tx.Delete(&unit).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&unit).Updates(map[string]interface{}{
				"qty_total":  newQty,
				"updated_by": rec.CreatedBy,
			}).Error; err != nil {
				return err
			}
		}

		return tx.Create(rec).Error
	})
}

func (r *unitRepo) CommitMove(daanaID string, loc *model.Location, rec *model.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var unit model.Unit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&unit, "daana_id = ?", daanaID).Error; err != nil {
			return err
		}

		if err := tx.Model(&unit).Updates(map[string]interface{}{
			"location_id":   loc.ID,
			"location_name": loc.Name,
			"updated_by":    rec.CreatedBy,
		}).Error; err != nil {
			return err
		}

		return tx.Create(rec).Error
	})
}
