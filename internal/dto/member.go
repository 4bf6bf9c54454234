package dto

import (
	"time"

	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/models"
)

// MemberDTO represents a member in API responses
type MemberDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Department      string    `json:"department"`
	Email           string    `json:"email"`
	Avatar          string    `json:"avatar"`
	ManagerID       *string   `json:"manager_id"`
	IsAdmin         bool      `json:"is_admin"`
	NextMeetingDate string    `json:"next_meeting_date"`
	JoinDate        string    `json:"join_date"`
	Dream           string    `json:"dream"`
	Enthusiasm      string    `json:"enthusiasm"`
	Career          string    `json:"career"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionDTO is the /auth/me response: the resolved member plus the derived
// role flags. IsManager is computed from the reporting line, never stored.
type SessionDTO struct {
	Member    MemberDTO `json:"member"`
	IsAdmin   bool      `json:"is_admin"`
	IsManager bool      `json:"is_manager"`
}

// ToMemberDTO converts a Member model to MemberDTO
func ToMemberDTO(member models.Member) MemberDTO {
	return MemberDTO{
		ID:              member.ID,
		Name:            member.Name,
		Role:            member.Role,
		Department:      member.Department,
		Email:           member.Email,
		Avatar:          member.Avatar,
		ManagerID:       member.ManagerID,
		IsAdmin:         member.IsAdmin,
		NextMeetingDate: member.NextMeetingDate,
		JoinDate:        member.JoinDate,
		Dream:           member.Dream,
		Enthusiasm:      member.Enthusiasm,
		Career:          member.Career,
		CreatedAt:       member.CreatedAt,
		UpdatedAt:       member.UpdatedAt,
	}
}

// ToMemberDTOs converts a slice of members
func ToMemberDTOs(members []models.Member) []MemberDTO {
	out := make([]MemberDTO, len(members))
	for i, m := range members {
		out[i] = ToMemberDTO(m)
	}
	return out
}

// ToSessionDTO converts a resolved identity session
func ToSessionDTO(sess identity.Session) SessionDTO {
	return SessionDTO{
		Member:    ToMemberDTO(*sess.Self),
		IsAdmin:   sess.IsAdmin,
		IsManager: sess.IsManager,
	}
}
