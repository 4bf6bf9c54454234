package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mood is the qualitative sentiment tag of a 1-on-1.
type Mood string

const (
	MoodSunny  Mood = "sunny"
	MoodCloudy Mood = "cloudy"
	MoodRainy  Mood = "rainy"
	MoodStormy Mood = "stormy"
)

// ValidMood reports whether m is one of the four known moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodSunny, MoodCloudy, MoodRainy, MoodStormy:
		return true
	}
	return false
}

// Log records one 1-on-1 meeting occurrence. The member it references is the
// subject of the meeting, not the author. Logs are never deleted; edits
// overwrite in place and no history is kept.
type Log struct {
	ID         string    `gorm:"type:varchar(36);primarykey" json:"id"`
	MemberID   string    `gorm:"type:varchar(36);index;not null" json:"member_id"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	Mood       Mood      `gorm:"type:varchar(20)" json:"mood"`
	Good       string    `gorm:"type:text" json:"good"`
	More       string    `gorm:"type:text" json:"more"`
	NextAction string    `gorm:"type:text" json:"next_action"`
	Memo       string    `gorm:"type:text" json:"memo"`
	Summary    string    `gorm:"type:text" json:"summary"`

	// IsPlanned marks a scheduled placeholder with no content yet. Empty
	// content on planned logs is a convention, not enforced.
	IsPlanned bool `gorm:"not null;default:false" json:"is_planned"`

	// Self-rated 1-5 scales, optional.
	PhysicalCondition *int `json:"physical_condition"`
	MentalCondition   *int `json:"mental_condition"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque id when the store has not been given one.
func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
