package repository

import (
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	FindAll() ([]model.Location, error)
	FindByID(id uuid.UUID) (*model.Location, error)
	Create(location *model.Location) error
	Update(location *model.Location) error
	Delete(id uuid.UUID) error
	SeedDefaults() error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) FindByID(id uuid.UUID) (*model.Location, error) {
	var location model.Location
	if err := r.db.First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepo) Update(location *model.Location) error {
	return r.db.Save(location).Error
}

func (r *locationRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Location{}, "id = ?", id).Error
}

// SeedDefaults creates the starter locations if none exist yet
func (r *locationRepo) SeedDefaults() error {
	for _, loc := range model.DefaultLocations {
		var existing model.Location
		if err := r.db.Where("name = ?", loc.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&loc).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
