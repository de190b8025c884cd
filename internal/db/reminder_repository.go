package db

import (
	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) List() ([]models.ReminderDefinition, error) {
	reminders := make([]models.ReminderDefinition, 0)
	if err := repo.database.Order("created_at ASC, id ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) FindByID(id string) (models.ReminderDefinition, bool, error) {
	reminder := models.ReminderDefinition{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&reminder)
	if result.Error != nil {
		return models.ReminderDefinition{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ReminderDefinition{}, false, nil
	}
	return reminder, true, nil
}

func (repo *ReminderRepository) Create(reminder *models.ReminderDefinition) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) Save(reminder *models.ReminderDefinition) error {
	return repo.database.Save(reminder).Error
}

func (repo *ReminderRepository) Delete(id string) error {
	return repo.database.Where("id = ?", id).Delete(&models.ReminderDefinition{}).Error
}
