package db

import (
	"time"

	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
)

type BBTRepository struct {
	database *gorm.DB
}

func NewBBTRepository(database *gorm.DB) *BBTRepository {
	return &BBTRepository{database: database}
}

func (repo *BBTRepository) List() ([]models.BBTEntry, error) {
	entries := make([]models.BBTEntry, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *BBTRepository) ListRange(fromStart *time.Time, toEnd *time.Time) ([]models.BBTEntry, error) {
	query := repo.database.Model(&models.BBTEntry{})
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	entries := make([]models.BBTEntry, 0)
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *BBTRepository) FindByDayRange(dayStart time.Time, dayEnd time.Time) (models.BBTEntry, bool, error) {
	entry := models.BBTEntry{}
	result := repo.database.Where("date >= ? AND date < ?", dayStart, dayEnd).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.BBTEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.BBTEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *BBTRepository) Create(entry *models.BBTEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *BBTRepository) Save(entry *models.BBTEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *BBTRepository) DeleteByDayRange(dayStart time.Time, dayEnd time.Time) error {
	return repo.database.Where("date >= ? AND date < ?", dayStart, dayEnd).Delete(&models.BBTEntry{}).Error
}
