package repository

import (
	"time"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByDaanaID(daanaID string) ([]model.Transaction, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetInventoryStats(expiryCutoff string) (*InventoryStats, error)
}

// StockMovementData for chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// InventoryStats for overview stats
type InventoryStats struct {
	TotalUnits       int64 `json:"total_units"`
	ExpiringSoon     int64 `json:"expiring_soon"`
	QuarantinedUnits int64 `json:"quarantined_units"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("CreatedByUser").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("CreatedByUser").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByDaanaID returns the full audit history for one external unit id.
// Works after the unit itself has been deleted.
func (r *transactionRepo) FindByDaanaID(daanaID string) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("CreatedByUser").
		Where("daana_id = ?", daanaID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Aggregate check-in vs check-out quantities per day
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'check_in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'check_out' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *transactionRepo) GetInventoryStats(expiryCutoff string) (*InventoryStats, error) {
	var stats InventoryStats

	// Total stock-holding units
	r.db.Model(&model.Unit{}).Count(&stats.TotalUnits)

	// Units expiring before the cutoff that still hold stock
	r.db.Model(&model.Unit{}).
		Where("exp_date < ? AND status IN ?", expiryCutoff, []model.UnitStatus{model.StatusInStock, model.StatusPartial}).
		Count(&stats.ExpiringSoon)

	// Quarantined units awaiting disposition
	r.db.Model(&model.Unit{}).Where("status = ?", model.StatusQuarantined).Count(&stats.QuarantinedUnits)

	return &stats, nil
}
