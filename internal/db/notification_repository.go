package db

import (
	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

// Upsert replaces the row for the deterministic notification id.
func (repo *NotificationRepository) Upsert(notification *models.ScheduledNotification) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "title", "body", "scheduled_at", "is_active", "related_id", "platform_handle", "updated_at",
		}),
	}).Create(notification).Error
}

func (repo *NotificationRepository) List() ([]models.ScheduledNotification, error) {
	notifications := make([]models.ScheduledNotification, 0)
	if err := repo.database.Order("scheduled_at ASC, id ASC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *NotificationRepository) ListActive() ([]models.ScheduledNotification, error) {
	notifications := make([]models.ScheduledNotification, 0)
	if err := repo.database.
		Where("is_active = ?", true).
		Order("scheduled_at ASC, id ASC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *NotificationRepository) Delete(id string) error {
	return repo.database.Where("id = ?", id).Delete(&models.ScheduledNotification{}).Error
}

func (repo *NotificationRepository) DeleteAll() error {
	return repo.database.Where("1 = 1").Delete(&models.ScheduledNotification{}).Error
}
