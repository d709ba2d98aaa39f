package repository

import (
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LotRepository interface {
	FindAll() ([]model.Lot, error)
	FindByID(id uuid.UUID) (*model.Lot, error)
	FindByCode(code string) (*model.Lot, error)
	Create(lot *model.Lot) error
	Update(lot *model.Lot) error
	Delete(id uuid.UUID) error
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

func (r *lotRepo) FindAll() ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.Order("received_date DESC").Find(&lots).Error
	return lots, err
}

func (r *lotRepo) FindByID(id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	if err := r.db.First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepo) FindByCode(code string) (*model.Lot, error) {
	var lot model.Lot
	if err := r.db.Where("code = ?", code).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepo) Create(lot *model.Lot) error {
	return r.db.Create(lot).Error
}

func (r *lotRepo) Update(lot *model.Lot) error {
	return r.db.Save(lot).Error
}

func (r *lotRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Lot{}, "id = ?", id).Error
}
