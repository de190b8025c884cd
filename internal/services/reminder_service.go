package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferngrove/mira/internal/models"
	"github.com/google/uuid"
)

var ErrReminderNotFound = errors.New("reminder not found")

type ReminderRepository interface {
	List() ([]models.ReminderDefinition, error)
	FindByID(id string) (models.ReminderDefinition, bool, error)
	Create(reminder *models.ReminderDefinition) error
	Save(reminder *models.ReminderDefinition) error
	Delete(id string) error
}

type ReminderService struct {
	reminders ReminderRepository
	adherence AdherenceLogRepository
	scheduler *SchedulerService
}

func NewReminderService(reminders ReminderRepository, adherence AdherenceLogRepository, scheduler *SchedulerService) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		adherence: adherence,
		scheduler: scheduler,
	}
}

func (service *ReminderService) List() ([]models.ReminderDefinition, error) {
	return service.reminders.List()
}

func (service *ReminderService) FindByID(id string) (models.ReminderDefinition, error) {
	reminder, found, err := service.reminders.FindByID(id)
	if err != nil {
		return models.ReminderDefinition{}, err
	}
	if !found {
		return models.ReminderDefinition{}, ErrReminderNotFound
	}
	return reminder, nil
}

func (service *ReminderService) Create(ctx context.Context, reminder models.ReminderDefinition) (models.ReminderDefinition, error) {
	if err := ValidateReminderInput(reminder.Frequency, reminder.TimeOfDay); err != nil {
		return models.ReminderDefinition{}, err
	}

	reminder.ID = uuid.NewString()
	if err := service.reminders.Create(&reminder); err != nil {
		return models.ReminderDefinition{}, err
	}

	if reminder.IsActive {
		if _, err := service.scheduler.ScheduleForBirthControl(ctx, reminder); err != nil {
			return models.ReminderDefinition{}, fmt.Errorf("schedule reminder %s: %w", reminder.ID, err)
		}
	}
	return reminder, nil
}

func (service *ReminderService) Update(ctx context.Context, reminder models.ReminderDefinition) (models.ReminderDefinition, error) {
	if err := ValidateReminderInput(reminder.Frequency, reminder.TimeOfDay); err != nil {
		return models.ReminderDefinition{}, err
	}

	if _, err := service.FindByID(reminder.ID); err != nil {
		return models.ReminderDefinition{}, err
	}
	if err := service.reminders.Save(&reminder); err != nil {
		return models.ReminderDefinition{}, err
	}

	// Deterministic id: re-scheduling replaces, deactivating cancels.
	if reminder.IsActive {
		if _, err := service.scheduler.ScheduleForBirthControl(ctx, reminder); err != nil {
			return models.ReminderDefinition{}, fmt.Errorf("reschedule reminder %s: %w", reminder.ID, err)
		}
	} else if err := service.scheduler.Cancel(ctx, BirthControlNotificationID(reminder.ID)); err != nil {
		return models.ReminderDefinition{}, err
	}
	return reminder, nil
}

// Delete retires the reminder's notification and applies the configured
// adherence retention policy: retain keeps the history for stats, purge
// removes it with the reminder.
func (service *ReminderService) Delete(ctx context.Context, id string, retentionPolicy string) error {
	if _, err := service.FindByID(id); err != nil {
		return err
	}

	if err := service.scheduler.Cancel(ctx, BirthControlNotificationID(id)); err != nil {
		return err
	}

	if retentionPolicy == models.AdherencePurge {
		if err := service.adherence.DeleteByReminder(id); err != nil {
			return fmt.Errorf("purge adherence history for %s: %w", id, err)
		}
	}

	return service.reminders.Delete(id)
}
