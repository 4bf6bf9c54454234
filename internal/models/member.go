package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is an employee record. A member may or may not correspond to a
// logged-in user; the link is made by email at login time.
type Member struct {
	ID         string  `gorm:"type:varchar(36);primarykey" json:"id"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Role       string  `gorm:"type:varchar(255)" json:"role"`
	Department string  `gorm:"type:varchar(255)" json:"department"`
	Email      string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Avatar     string  `gorm:"type:text" json:"avatar"`
	ManagerID  *string `gorm:"type:varchar(36);index" json:"manager_id"`
	IsAdmin    bool    `gorm:"not null;default:false" json:"is_admin"`

	// Profile fields, free text with no invariants.
	NextMeetingDate string `gorm:"type:varchar(64)" json:"next_meeting_date"`
	JoinDate        string `gorm:"type:varchar(64)" json:"join_date"`
	Dream           string `gorm:"type:text" json:"dream"`
	Enthusiasm      string `gorm:"type:text" json:"enthusiasm"`
	Career          string `gorm:"type:text" json:"career"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations. Deleting a member never cascades to its logs.
	Logs []Log `gorm:"foreignKey:MemberID;constraint:OnDelete:NO ACTION" json:"logs,omitempty"`
}

// BeforeCreate assigns an opaque id when the store has not been given one.
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
