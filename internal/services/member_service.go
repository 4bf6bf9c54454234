package services

import (
	"errors"
	"fmt"

	"github.com/keithshino/one-on-one-supporter/internal/events"
	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
	"github.com/keithshino/one-on-one-supporter/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrAdminOnly       = errors.New("only admins can perform this action")
	ErrNotOwnProfile   = errors.New("members can only edit their own profile")
	ErrNameRequired    = errors.New("name is required")
	ErrMemberEmailReq  = errors.New("email is required")
	ErrManagerNotFound = errors.New("managerId does not reference an existing member")
)

// MemberService handles member business logic and access control.
type MemberService struct {
	memberRepo repository.MemberRepository
	hub        *events.Hub
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo repository.MemberRepository, hub *events.Hub) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		hub:        hub,
	}
}

// List returns the list-tier visible member set for the session.
func (s *MemberService) List(sess identity.Session, scope visibility.Scope) ([]models.Member, error) {
	members, err := s.memberRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return visibility.Members(sess, scope, members), nil
}

// Directory returns every member's profile. The company-wide directory is
// readable by any provisioned member; only meeting content is scoped.
func (s *MemberService) Directory() ([]models.Member, error) {
	members, err := s.memberRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// Get returns one member's profile.
func (s *MemberService) Get(id string) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}

// CreateMemberInput represents input for registering a member.
type CreateMemberInput struct {
	Name            string
	Role            string
	Department      string
	Email           string
	Avatar          string
	ManagerID       *string
	IsAdmin         bool
	NextMeetingDate string
	JoinDate        string
	Dream           string
	Enthusiasm      string
	Career          string
}

// Create registers a new member. Admin only.
func (s *MemberService) Create(sess identity.Session, input CreateMemberInput) (*models.Member, error) {
	if !sess.IsAdmin {
		return nil, ErrAdminOnly
	}
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Email == "" {
		return nil, ErrMemberEmailReq
	}

	if err := s.checkManagerRef(input.ManagerID); err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:            input.Name,
		Role:            input.Role,
		Department:      input.Department,
		Email:           input.Email,
		Avatar:          input.Avatar,
		ManagerID:       input.ManagerID,
		IsAdmin:         input.IsAdmin,
		NextMeetingDate: input.NextMeetingDate,
		JoinDate:        input.JoinDate,
		Dream:           input.Dream,
		Enthusiasm:      input.Enthusiasm,
		Career:          input.Career,
	}

	if err := s.memberRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.hub.Publish(events.Event{Kind: events.KindMember, Op: events.OpCreated, ID: member.ID})
	return member, nil
}

// UpdateMemberInput represents a partial member update.
type UpdateMemberInput struct {
	Name            *string
	Role            *string
	Department      *string
	Email           *string
	Avatar          *string
	ManagerID       *string
	ClearManagerID  bool
	IsAdmin         *bool
	NextMeetingDate *string
	JoinDate        *string
	Dream           *string
	Enthusiasm      *string
	Career          *string
}

// adminOnlyFields reports whether the update touches fields only admins may
// change: the email identity link, the reporting line, and the admin flag.
func (input UpdateMemberInput) adminOnlyFields() bool {
	return input.Email != nil || input.ManagerID != nil || input.ClearManagerID || input.IsAdmin != nil
}

// Update mutates a member. Admins may change every field; a member may edit
// the profile fields of their own record only.
func (s *MemberService) Update(sess identity.Session, id string, input UpdateMemberInput) (*models.Member, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	if !sess.IsAdmin {
		if !sess.Resolved() || sess.Self.ID != id {
			return nil, ErrNotOwnProfile
		}
		if input.adminOnlyFields() {
			return nil, ErrAdminOnly
		}
	}

	fields := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setString("name", input.Name)
	setString("role", input.Role)
	setString("department", input.Department)
	setString("email", input.Email)
	setString("avatar", input.Avatar)
	setString("next_meeting_date", input.NextMeetingDate)
	setString("join_date", input.JoinDate)
	setString("dream", input.Dream)
	setString("enthusiasm", input.Enthusiasm)
	setString("career", input.Career)

	if input.ClearManagerID {
		fields["manager_id"] = nil
	} else if input.ManagerID != nil {
		if err := s.checkManagerRef(input.ManagerID); err != nil {
			return nil, err
		}
		fields["manager_id"] = *input.ManagerID
	}
	if input.IsAdmin != nil {
		fields["is_admin"] = *input.IsAdmin
	}

	if len(fields) > 0 {
		if err := s.memberRepo.Update(id, fields); err != nil {
			return nil, fmt.Errorf("failed to update member: %w", err)
		}
		s.hub.Publish(events.Event{Kind: events.KindMember, Op: events.OpUpdated, ID: id})
	}

	return s.Get(id)
}

// Delete removes a member. Admin only. The member's logs are left in place:
// they become unreachable through normal navigation but stay queryable.
func (s *MemberService) Delete(sess identity.Session, id string) error {
	if !sess.IsAdmin {
		return ErrAdminOnly
	}

	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.memberRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.hub.Publish(events.Event{Kind: events.KindMember, Op: events.OpDeleted, ID: id})
	return nil
}

// checkManagerRef verifies the reporting-line edge points at an existing
// member. Self-reference and cycles are not rejected; the visibility filter
// treats them as degenerate data.
func (s *MemberService) checkManagerRef(managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	if _, err := s.memberRepo.FindByID(*managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrManagerNotFound
		}
		return fmt.Errorf("failed to verify manager reference: %w", err)
	}
	return nil
}
