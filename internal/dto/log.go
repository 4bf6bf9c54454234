package dto

import (
	"time"

	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/utils"
)

// LogDTO represents a 1-on-1 log in API responses
type LogDTO struct {
	ID                string      `json:"id"`
	MemberID          string      `json:"member_id"`
	Date              time.Time   `json:"date"`
	Mood              models.Mood `json:"mood"`
	Good              string      `json:"good"`
	More              string      `json:"more"`
	NextAction        string      `json:"next_action"`
	Memo              string      `json:"memo"`
	Summary           string      `json:"summary"`
	IsPlanned         bool        `json:"is_planned"`
	PhysicalCondition *int        `json:"physical_condition"`
	MentalCondition   *int        `json:"mental_condition"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// LogListResponse is a paginated list of logs
type LogListResponse struct {
	Logs       []LogDTO                 `json:"logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToLogDTO converts a Log model to LogDTO
func ToLogDTO(log models.Log) LogDTO {
	return LogDTO{
		ID:                log.ID,
		MemberID:          log.MemberID,
		Date:              log.Date,
		Mood:              log.Mood,
		Good:              log.Good,
		More:              log.More,
		NextAction:        log.NextAction,
		Memo:              log.Memo,
		Summary:           log.Summary,
		IsPlanned:         log.IsPlanned,
		PhysicalCondition: log.PhysicalCondition,
		MentalCondition:   log.MentalCondition,
		CreatedAt:         log.CreatedAt,
		UpdatedAt:         log.UpdatedAt,
	}
}

// ToLogDTOs converts a slice of logs
func ToLogDTOs(logs []models.Log) []LogDTO {
	out := make([]LogDTO, len(logs))
	for i, l := range logs {
		out[i] = ToLogDTO(l)
	}
	return out
}
