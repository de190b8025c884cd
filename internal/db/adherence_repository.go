package db

import (
	"time"

	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
)

type AdherenceLogRepository struct {
	database *gorm.DB
}

func NewAdherenceLogRepository(database *gorm.DB) *AdherenceLogRepository {
	return &AdherenceLogRepository{database: database}
}

func (repo *AdherenceLogRepository) ListByReminder(reminderID string) ([]models.AdherenceLogEntry, error) {
	entries := make([]models.AdherenceLogEntry, 0)
	if err := repo.database.
		Where("reminder_id = ?", reminderID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *AdherenceLogRepository) FindByReminderAndDayRange(reminderID string, dayStart time.Time, dayEnd time.Time) (models.AdherenceLogEntry, bool, error) {
	entry := models.AdherenceLogEntry{}
	result := repo.database.
		Where("reminder_id = ? AND date >= ? AND date < ?", reminderID, dayStart, dayEnd).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.AdherenceLogEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.AdherenceLogEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *AdherenceLogRepository) Create(entry *models.AdherenceLogEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *AdherenceLogRepository) Save(entry *models.AdherenceLogEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *AdherenceLogRepository) DeleteByReminder(reminderID string) error {
	return repo.database.Where("reminder_id = ?", reminderID).Delete(&models.AdherenceLogEntry{}).Error
}
