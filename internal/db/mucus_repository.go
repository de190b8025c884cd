package db

import (
	"time"

	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
)

type MucusRepository struct {
	database *gorm.DB
}

func NewMucusRepository(database *gorm.DB) *MucusRepository {
	return &MucusRepository{database: database}
}

func (repo *MucusRepository) List() ([]models.CervicalMucusEntry, error) {
	entries := make([]models.CervicalMucusEntry, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *MucusRepository) FindByDayRange(dayStart time.Time, dayEnd time.Time) (models.CervicalMucusEntry, bool, error) {
	entry := models.CervicalMucusEntry{}
	result := repo.database.Where("date >= ? AND date < ?", dayStart, dayEnd).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.CervicalMucusEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CervicalMucusEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *MucusRepository) Create(entry *models.CervicalMucusEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *MucusRepository) Save(entry *models.CervicalMucusEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *MucusRepository) DeleteByDayRange(dayStart time.Time, dayEnd time.Time) error {
	return repo.database.Where("date >= ? AND date < ?", dayStart, dayEnd).Delete(&models.CervicalMucusEntry{}).Error
}
