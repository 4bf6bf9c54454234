package repository

import (
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"gorm.io/gorm"
)

// GormLogRepository is a GORM implementation of LogRepository
type GormLogRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *gorm.DB) LogRepository {
	return &GormLogRepository{db: db}
}

// List returns all logs ordered by date descending.
func (r *GormLogRepository) List() ([]models.Log, error) {
	var logs []models.Log
	if err := r.db.Order("date desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListByMemberIDs returns the logs of the given members, date descending.
func (r *GormLogRepository) ListByMemberIDs(memberIDs []string) ([]models.Log, error) {
	if len(memberIDs) == 0 {
		return []models.Log{}, nil
	}
	var logs []models.Log
	if err := r.db.Where("member_id IN ?", memberIDs).Order("date desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByID finds a log by id.
func (r *GormLogRepository) FindByID(id string) (*models.Log, error) {
	var log models.Log
	if err := r.db.Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// Create creates a new log.
func (r *GormLogRepository) Create(log *models.Log) error {
	return r.db.Create(log).Error
}

// Update applies a partial field update.
func (r *GormLogRepository) Update(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.Log{}).Where("id = ?", id).Updates(fields).Error
}
