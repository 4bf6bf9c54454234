package repository

import (
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// List returns all members in stable creation order.
func (r *GormMemberRepository) List() ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Order("created_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindByID finds a member by id.
func (r *GormMemberRepository) FindByID(id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail finds a member by its exact email.
func (r *GormMemberRepository) FindByEmail(email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Create creates a new member.
func (r *GormMemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// Update applies a partial field update.
func (r *GormMemberRepository) Update(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.Member{}).Where("id = ?", id).Updates(fields).Error
}

// Delete soft deletes a member without touching its logs.
func (r *GormMemberRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Member{}).Error
}
