package db

import (
	"github.com/ferngrove/mira/internal/models"
	"gorm.io/gorm"
)

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) List() ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	if err := repo.database.Order("start_date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *PeriodRepository) FindByID(id string) (models.PeriodRecord, bool, error) {
	record := models.PeriodRecord{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&record)
	if result.Error != nil {
		return models.PeriodRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PeriodRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *PeriodRepository) Create(record *models.PeriodRecord) error {
	return repo.database.Create(record).Error
}

func (repo *PeriodRepository) Save(record *models.PeriodRecord) error {
	return repo.database.Save(record).Error
}

func (repo *PeriodRepository) Delete(id string) error {
	return repo.database.Where("id = ?", id).Delete(&models.PeriodRecord{}).Error
}
