package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Periods       *PeriodRepository
	BBTEntries    *BBTRepository
	MucusEntries  *MucusRepository
	Reminders     *ReminderRepository
	AdherenceLogs *AdherenceLogRepository
	Notifications *NotificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Periods:       NewPeriodRepository(database),
		BBTEntries:    NewBBTRepository(database),
		MucusEntries:  NewMucusRepository(database),
		Reminders:     NewReminderRepository(database),
		AdherenceLogs: NewAdherenceLogRepository(database),
		Notifications: NewNotificationRepository(database),
	}
}
