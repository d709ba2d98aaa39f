package service

import (
	"time"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
)

type ReportService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetInventoryStats() (*repository.InventoryStats, error)
	GetExpiringUnits(withinDays int) ([]model.Unit, error)
}

type reportService struct {
	txRepo   repository.TransactionRepository
	unitRepo repository.UnitRepository
}

func NewReportService(txRepo repository.TransactionRepository, unitRepo repository.UnitRepository) ReportService {
	return &reportService{txRepo: txRepo, unitRepo: unitRepo}
}

func (s *reportService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(startDate, endDate)
}

func (s *reportService) GetInventoryStats() (*repository.InventoryStats, error) {
	cutoff := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	return s.txRepo.GetInventoryStats(cutoff)
}

// GetExpiringUnits lists stock-holding units expiring within the window,
// soonest first
func (s *reportService) GetExpiringUnits(withinDays int) ([]model.Unit, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays).Format("2006-01-02")
	return s.unitRepo.FindExpiringBefore(cutoff)
}
