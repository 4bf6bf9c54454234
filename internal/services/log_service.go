package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/keithshino/one-on-one-supporter/internal/events"
	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
	"github.com/keithshino/one-on-one-supporter/internal/utils"
	"github.com/keithshino/one-on-one-supporter/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrLogNotFound      = errors.New("log not found")
	ErrLogAccessDenied  = errors.New("no access to this member's meeting history")
	ErrLogMemberReq     = errors.New("member_id is required")
	ErrLogDateReq       = errors.New("date is required")
	ErrInvalidMood      = errors.New("mood must be one of sunny, cloudy, rainy, stormy")
	ErrInvalidCondition = errors.New("condition scores must be between 1 and 5")
)

// LogService handles 1-on-1 log business logic and both visibility tiers.
type LogService struct {
	logRepo    repository.LogRepository
	memberRepo repository.MemberRepository
	hub        *events.Hub
}

// NewLogService creates a new LogService.
func NewLogService(logRepo repository.LogRepository, memberRepo repository.MemberRepository, hub *events.Hub) *LogService {
	return &LogService{
		logRepo:    logRepo,
		memberRepo: memberRepo,
		hub:        hub,
	}
}

// VisibleLogs returns the list-tier visible logs: those whose subject is in
// the session's visible member set, ordered date descending.
func (s *LogService) VisibleLogs(sess identity.Session, scope visibility.Scope) ([]models.Log, error) {
	members, err := s.memberRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	visibleMembers := visibility.Members(sess, scope, members)
	ids := make([]string, len(visibleMembers))
	for i := range visibleMembers {
		ids[i] = visibleMembers[i].ID
	}

	logs, err := s.logRepo.ListByMemberIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

// LogsForMember returns one member's full history under the detail-tier
// rule: the member themselves, an admin, or their direct manager.
func (s *LogService) LogsForMember(sess identity.Session, memberID string) ([]models.Log, error) {
	target, err := s.findMember(memberID)
	if err != nil {
		return nil, err
	}

	if !visibility.CanViewLogs(sess, target) {
		return nil, ErrLogAccessDenied
	}

	logs, err := s.logRepo.ListByMemberIDs([]string{target.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

// Get returns one log when the session may read its subject's history.
func (s *LogService) Get(sess identity.Session, id string) (*models.Log, error) {
	log, err := s.findLog(id)
	if err != nil {
		return nil, err
	}

	target, err := s.findMember(log.MemberID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewLogs(sess, target) {
		return nil, ErrLogAccessDenied
	}

	return log, nil
}

// CreateLogInput represents input for recording or scheduling a meeting.
type CreateLogInput struct {
	MemberID          string
	Date              time.Time
	Mood              models.Mood
	Good              string
	More              string
	NextAction        string
	Memo              string
	Summary           string
	IsPlanned         bool
	PhysicalCondition *int
	MentalCondition   *int
}

// Create records a meeting (IsPlanned=false) or schedules a placeholder
// (IsPlanned=true). The writer must hold detail-tier access to the subject.
func (s *LogService) Create(sess identity.Session, input CreateLogInput) (*models.Log, error) {
	if input.MemberID == "" {
		return nil, ErrLogMemberReq
	}
	if input.Date.IsZero() {
		return nil, ErrLogDateReq
	}
	if input.Mood != "" && !models.ValidMood(input.Mood) {
		return nil, ErrInvalidMood
	}
	if !validCondition(input.PhysicalCondition) || !validCondition(input.MentalCondition) {
		return nil, ErrInvalidCondition
	}

	target, err := s.findMember(input.MemberID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewLogs(sess, target) {
		return nil, ErrLogAccessDenied
	}

	log := &models.Log{
		MemberID:          target.ID,
		Date:              input.Date,
		Mood:              input.Mood,
		Good:              input.Good,
		More:              input.More,
		NextAction:        input.NextAction,
		Memo:              input.Memo,
		Summary:           input.Summary,
		IsPlanned:         input.IsPlanned,
		PhysicalCondition: input.PhysicalCondition,
		MentalCondition:   input.MentalCondition,
	}

	if err := s.logRepo.Create(log); err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	s.hub.Publish(events.Event{Kind: events.KindLog, Op: events.OpCreated, ID: log.ID})
	return log, nil
}

// UpdateLogInput represents a partial log update. Edits overwrite in place;
// no history is kept.
type UpdateLogInput struct {
	Date              *time.Time
	Mood              *models.Mood
	Good              *string
	More              *string
	NextAction        *string
	Memo              *string
	Summary           *string
	IsPlanned         *bool
	PhysicalCondition *int
	MentalCondition   *int
}

// Update mutates a log under the same detail-tier rule as reads.
func (s *LogService) Update(sess identity.Session, id string, input UpdateLogInput) (*models.Log, error) {
	log, err := s.findLog(id)
	if err != nil {
		return nil, err
	}

	target, err := s.findMember(log.MemberID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewLogs(sess, target) {
		return nil, ErrLogAccessDenied
	}

	if input.Mood != nil && *input.Mood != "" && !models.ValidMood(*input.Mood) {
		return nil, ErrInvalidMood
	}
	if !validCondition(input.PhysicalCondition) || !validCondition(input.MentalCondition) {
		return nil, ErrInvalidCondition
	}

	fields := map[string]interface{}{}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if input.Mood != nil {
		fields["mood"] = *input.Mood
	}
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setString("good", input.Good)
	setString("more", input.More)
	setString("next_action", input.NextAction)
	setString("memo", input.Memo)
	setString("summary", input.Summary)
	if input.IsPlanned != nil {
		fields["is_planned"] = *input.IsPlanned
	}
	if input.PhysicalCondition != nil {
		fields["physical_condition"] = *input.PhysicalCondition
	}
	if input.MentalCondition != nil {
		fields["mental_condition"] = *input.MentalCondition
	}

	if len(fields) > 0 {
		if err := s.logRepo.Update(id, fields); err != nil {
			return nil, fmt.Errorf("failed to update log: %w", err)
		}
		s.hub.Publish(events.Event{Kind: events.KindLog, Op: events.OpUpdated, ID: id})
	}

	return s.findLog(id)
}

// Dashboard summarizes the session's visible meeting activity: upcoming
// planned meetings plus the completed history bucketed by month. The
// session's own history is always included alongside the team view.
type Dashboard struct {
	Upcoming []models.Log        `json:"upcoming"`
	History  []utils.MonthBucket `json:"history"`
}

// BuildDashboard assembles the dashboard for the session.
func (s *LogService) BuildDashboard(sess identity.Session, scope visibility.Scope, now time.Time) (*Dashboard, error) {
	logs, err := s.VisibleLogs(sess, scope)
	if err != nil {
		return nil, err
	}

	if sess.Resolved() {
		own, err := s.logRepo.ListByMemberIDs([]string{sess.Self.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list logs: %w", err)
		}
		logs = mergeLogs(logs, own)
	}

	var upcoming, completed []models.Log
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, l := range logs {
		if l.IsPlanned && !l.Date.Before(startOfDay) {
			upcoming = append(upcoming, l)
		} else if !l.IsPlanned {
			completed = append(completed, l)
		}
	}

	// Nearest planned meeting first.
	for i, j := 0, len(upcoming)-1; i < j; i, j = i+1, j-1 {
		upcoming[i], upcoming[j] = upcoming[j], upcoming[i]
	}

	return &Dashboard{
		Upcoming: upcoming,
		History:  utils.BucketByMonth(completed),
	}, nil
}

func (s *LogService) findLog(id string) (*models.Log, error) {
	log, err := s.logRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to find log: %w", err)
	}
	return log, nil
}

func (s *LogService) findMember(id string) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}

// validCondition accepts an absent score or one on the 1-5 scale.
func validCondition(v *int) bool {
	return v == nil || (*v >= 1 && *v <= 5)
}

// mergeLogs unions two date-descending log lists, preserving order and
// dropping duplicates.
func mergeLogs(a, b []models.Log) []models.Log {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]models.Log, 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next models.Log
		switch {
		case i == len(a):
			next = b[j]
			j++
		case j == len(b):
			next = a[i]
			i++
		case a[i].Date.Before(b[j].Date):
			next = b[j]
			j++
		default:
			next = a[i]
			i++
		}
		if _, dup := seen[next.ID]; dup {
			continue
		}
		seen[next.ID] = struct{}{}
		out = append(out, next)
	}
	return out
}
